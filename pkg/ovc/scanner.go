package ovc

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultPeriod is the poll period used when none is configured.
const DefaultPeriod = 3 * time.Second

// Level is a sampled overcurrent-detect level.
type Level int8

const (
	// LevelInitial is the level before the first sample.
	LevelInitial Level = iota - 1
	// LevelLow indicates the booster reports an overcurrent.
	LevelLow
	// LevelHigh indicates the booster is drawing normally.
	LevelHigh
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInitial:
		return "INITIAL"
	case LevelLow:
		return "LOW"
	case LevelHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// CheckFunc samples the overcurrent-detect level. data is the opaque
// context registered alongside it.
type CheckFunc func(data any) Level

// State is the scanner lifecycle state.
type State uint8

const (
	// StateStopped indicates no scan task is running.
	StateStopped State = iota
	// StateRunning indicates the scan task is polling.
	StateRunning
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "STOPPED"
	case StateRunning:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// Config configures a Scanner.
type Config struct {
	// OnOvercurrent is called when the level falls to low.
	OnOvercurrent func()

	// OnClear is called when the level returns to high after a low.
	OnClear func()

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// Scanner polls a registered check function and reports overcurrent edges.
//
// Callbacks run on the scan goroutine. Stop waits for that goroutine, so no
// callback fires after Stop returns.
type Scanner struct {
	// lifecycle
	runMu  sync.Mutex
	state  State
	remove chan struct{}
	done   chan struct{}

	// mu guards the sampling fields and is held for every sample.
	mu      sync.Mutex
	enabled bool
	check   CheckFunc
	data    any
	prev    Level

	onOvercurrent func()
	onClear       func()
	logger        *slog.Logger
}

// NewScanner creates a stopped scanner. Scanning is disabled until Enable.
func NewScanner(cfg Config) *Scanner {
	return &Scanner{
		prev:          LevelInitial,
		onOvercurrent: cfg.OnOvercurrent,
		onClear:       cfg.OnClear,
		logger:        cfg.Logger,
	}
}

// Enable grants or revokes permission to scan. A running scan task exits
// after its next tick once permission is revoked.
func (s *Scanner) Enable(on bool) {
	s.mu.Lock()
	s.enabled = on
	s.mu.Unlock()
}

// Enabled reports whether scanning is permitted.
func (s *Scanner) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// State returns the lifecycle state.
func (s *Scanner) State() State {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.reap()
	return s.state
}

// reap marks a scan task that exited on its own as stopped.
func (s *Scanner) reap() {
	if s.state != StateRunning {
		return
	}
	select {
	case <-s.done:
		s.state = StateStopped
	default:
	}
}

// Start registers check with its context and spawns the scan task. It
// returns false without starting when scanning is not permitted or a scan
// is already running. A non-positive period selects DefaultPeriod.
func (s *Scanner) Start(check CheckFunc, data any, period time.Duration) bool {
	if period <= 0 {
		period = DefaultPeriod
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.reap()
	if s.state == StateRunning {
		return false
	}

	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		s.debugLog("overcurrent scan skipped")
		return false
	}
	s.check = check
	s.data = data
	s.prev = LevelInitial
	s.mu.Unlock()

	s.remove = make(chan struct{})
	s.done = make(chan struct{})
	s.state = StateRunning
	go s.run(period, s.remove, s.done)

	s.debugLog("overcurrent scan started", "period", period)
	return true
}

// Stop signals the scan task, waits until it exits and then unregisters
// the check function. It is safe to call while a tick is in progress and
// when the scanner is already stopped.
func (s *Scanner) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.state == StateRunning {
		close(s.remove)
		<-s.done
		s.state = StateStopped
	}

	s.mu.Lock()
	s.check = nil
	s.data = nil
	s.mu.Unlock()

	s.debugLog("overcurrent scan stopped")
}

func (s *Scanner) run(period time.Duration, remove <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-remove:
			return
		case <-ticker.C:
		}

		if !s.tick() {
			s.debugLog("overcurrent scan no longer permitted")
			return
		}
	}
}

// tick samples once and reports whether scanning is still permitted.
func (s *Scanner) tick() bool {
	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		return false
	}
	if s.check == nil {
		s.mu.Unlock()
		return true
	}

	level := s.check(s.data)
	prev := s.prev
	s.prev = level
	raise, clear := s.onOvercurrent, s.onClear
	s.mu.Unlock()

	if level == prev {
		return true
	}
	switch {
	case level == LevelLow:
		s.debugLog("overcurrent detected")
		if raise != nil {
			raise()
		}
	case level == LevelHigh && prev == LevelLow:
		s.debugLog("vbus draw detected")
		if clear != nil {
			clear()
		}
	}
	return true
}

func (s *Scanner) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
