package mdmpolicy

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors produce on save.
const DefaultDebounce = 500 * time.Millisecond

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Path is the policy file.
	Path string

	// Target receives every successfully loaded policy.
	Target Target

	// Debounce delays a reload after the last change. Zero selects
	// DefaultDebounce.
	Debounce time.Duration

	// OnReload, if set, is called after every reload attempt with the
	// loaded policy or the error.
	OnReload func(p *Policy, err error)

	// Logger receives reload diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// Watcher re-applies the policy file whenever it is written or replaced.
//
// The parent directory is watched rather than the file, so editors that
// save by renaming a temporary file over the policy are seen too.
type Watcher struct {
	cfg  WatcherConfig
	path string
	fsw  *fsnotify.Watcher

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewWatcher starts watching cfg.Path. It does not apply the current file;
// call Reload for that.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Path == "" || cfg.Target == nil {
		return nil, fmt.Errorf("%w: watcher needs a path and a target", ErrInvalidPolicy)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("mdmpolicy: create watcher: %w", err)
	}
	path := filepath.Clean(cfg.Path)
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("mdmpolicy: watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		cfg:  cfg,
		path: path,
		fsw:  fsw,
		done: make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Reload loads the policy file and applies it to the target.
func (w *Watcher) Reload() error {
	p, err := Load(w.path)
	if err == nil {
		err = p.Apply(w.cfg.Target)
	}
	if err != nil {
		w.logger().Warn("mdm policy reload failed", "path", w.path, "error", err)
	} else {
		w.debugLog("mdm policy applied", "path", w.path,
			"class", p.Class.Enabled, "id", p.ID.Enabled, "serial", p.Serial.Enabled)
	}
	if w.cfg.OnReload != nil {
		w.cfg.OnReload(p, err)
	}
	return err
}

// Close stops watching. A reload in progress completes first.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.debugLog("mdm policy changed", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			_ = w.Reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger().Warn("mdm policy watcher error", "error", err)
		}
	}
}

func (w *Watcher) logger() *slog.Logger {
	if w.cfg.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.cfg.Logger
}

func (w *Watcher) debugLog(msg string, args ...any) {
	if w.cfg.Logger != nil {
		w.cfg.Logger.Debug(msg, args...)
	}
}
