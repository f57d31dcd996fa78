package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/usb-notify/usbnotify-go/pkg/allowlist"
	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/devcheck"
	"github.com/usb-notify/usbnotify-go/pkg/event"
	"github.com/usb-notify/usbnotify-go/pkg/hal"
	"github.com/usb-notify/usbnotify-go/pkg/log"
	"github.com/usb-notify/usbnotify-go/pkg/metrics"
	"github.com/usb-notify/usbnotify-go/pkg/ovc"
	"github.com/usb-notify/usbnotify-go/pkg/policy"
	"github.com/usb-notify/usbnotify-go/pkg/uevent"
)

// BlockHandler runs when a cable event arrives while its role is disabled.
// Returning an error (conventionally policy.ErrDoNotRecord) leaves the
// cable state untouched; nil records the event as blocked.
type BlockHandler func(ev event.Event, enable bool) error

// Collaborators are the platform drivers the notifier talks to. Every field
// is optional except Hooks.VbusDrive when host mode is supported.
type Collaborators struct {
	// Hooks are the hardware control callbacks.
	Hooks hal.Hooks

	// HostState receives host-class state changes.
	HostState hal.HostStateSink

	// External receives notifications for other drivers.
	External hal.ExternalNotifier

	// Redriver is the redriver enable line.
	Redriver hal.OutputLine

	// VbusDetect is the VBUS detect line. The notifier owns it after New
	// and closes it in Close.
	VbusDetect hal.InputLine

	// Uevents delivers uevents to user space.
	Uevents uevent.Sender

	// Telemetry receives the usblog trace, in addition to the trace file
	// named by Config.TelemetryPath.
	Telemetry log.Logger

	// Registerer receives the notifier counters. Nil disables metrics.
	Registerer prometheus.Registerer

	// BlockHandler replaces the built-in handling of blocked events.
	BlockHandler BlockHandler
}

type workItem struct {
	ev     event.Event
	enable bool

	// barrier, when set, is closed once every earlier item was handled.
	barrier chan struct{}
}

// Notifier is the USB cable and role notification core. It serializes
// cable transitions through a single worker, applies disable and
// lockscreen policy, and drives the platform hooks in the order the
// hardware requires.
//
// Hooks and sinks are called with the state lock held. They may call
// Request with any event and the getters. Control methods and device-side
// checks wait for the state lock and must not be called from a hook.
type Notifier struct {
	cfg       Config
	hooks     hal.Hooks
	hostState hal.HostStateSink
	external  hal.ExternalNotifier
	redriver  hal.OutputLine
	vbus      hal.InputLine
	telemetry log.Logger
	trace     *log.FileLogger
	metrics   *metrics.Metrics
	uevents   *uevent.Emitter
	sessionID string
	onBlocked BlockHandler

	store *cable.Store
	lists *allowlist.Registry
	check *devcheck.Check
	ovc   *ovc.Scanner

	// admitMu orders admission against the boot gate: a request is either
	// reserved before the gate opens or queued after it.
	admitMu   sync.Mutex
	gateOpen  bool
	syncUSB   bool
	gate      bootGate
	closeMu   sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error

	queue      chan workItem
	workerDone chan struct{}

	// mu guards the fields below.
	mu            sync.Mutex
	ovcCheck      ovc.CheckFunc
	ovcData       any
	audioCards    [MaxAudioCards]AudioCard
	requestAction int
	lpmCharging   string
}

// New creates a notifier and starts its worker. On failure every started
// component is stopped again in reverse order.
func New(cfg Config, c Collaborators) (_ *Notifier, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.UnsupportHost && c.Hooks.VbusDrive == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, ErrMissingVbusDrive)
	}
	lockscreen, err := allowlist.ParseIDList(cfg.LockscreenAllowlist)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	n := &Notifier{
		cfg:        cfg,
		hooks:      c.Hooks,
		hostState:  c.HostState,
		external:   c.External,
		redriver:   c.Redriver,
		vbus:       c.VbusDetect,
		telemetry:  c.Telemetry,
		sessionID:  uuid.NewString(),
		onBlocked:  c.BlockHandler,
		store:      cable.NewStore(),
		lists:      allowlist.NewRegistry(allowlist.Lists{Lockscreen: lockscreen}),
		gateOpen:   cfg.BootingDelay == 0,
		syncUSB:    cfg.BootingDelaySyncUSB,
		queue:      make(chan workItem, cfg.QueueSize),
		workerDone: make(chan struct{}),
	}
	sinks := []log.Logger{c.Telemetry}
	if cfg.TelemetryPath != "" {
		n.trace, err = log.NewFileLogger(cfg.TelemetryPath, cfg.TelemetryMaxBytes)
		if err != nil {
			return nil, fmt.Errorf("notify: open telemetry trace: %w", err)
		}
		defer func() {
			if err != nil {
				_ = n.trace.Close()
			}
		}()
		sinks = append(sinks, n.trace)
	}
	n.telemetry = log.Tee(sinks...)
	if n.onBlocked == nil {
		n.onBlocked = n.blockState
	}
	if c.Registerer != nil {
		n.metrics = metrics.New(c.Registerer)
	}
	n.uevents = uevent.NewEmitter(c.Uevents, cfg.WarmResetInterval, cfg.Logger)
	n.check = devcheck.New(devcheck.Config{
		Delay:    cfg.DeviceCheckDelay,
		OnExpire: n.deviceCheckExpired,
		Logger:   cfg.Logger,
	})
	n.ovc = ovc.NewScanner(ovc.Config{
		OnOvercurrent: n.overcurrentRaised,
		OnClear:       n.overcurrentCleared,
		Logger:        cfg.Logger,
	})
	n.gate.wake = make(chan struct{}, 1)
	n.gate.stop = make(chan struct{})

	var unwind []func()
	defer func() {
		if err != nil {
			for i := len(unwind) - 1; i >= 0; i-- {
				unwind[i]()
			}
		}
	}()

	go n.run()
	unwind = append(unwind, func() {
		n.closeMu.Lock()
		n.closed = true
		close(n.queue)
		n.closeMu.Unlock()
		<-n.workerDone
	})

	if n.vbus != nil {
		unwind = append(unwind, func() { _ = n.vbus.Close() })
		level, err := n.vbus.Value()
		if err != nil {
			return nil, fmt.Errorf("notify: read vbus detect: %w", err)
		}
		n.store.SampleVbus(level)
		if err := n.vbus.Watch(n.vbusEdge); err != nil {
			return nil, fmt.Errorf("notify: watch vbus detect: %w", err)
		}
	}

	if !n.gateOpen {
		n.admitMu.Lock()
		n.startBootGate(cfg.BootingDelay)
		n.admitMu.Unlock()
	}

	n.debugLog("notifier started",
		"session", n.sessionID,
		"unsupportHost", cfg.UnsupportHost,
		"bootingDelay", cfg.BootingDelay,
		"autoDriveVbus", cfg.AutoDriveVbus.String())
	return n, nil
}

// SessionID returns the telemetry session ID of this notifier.
func (n *Notifier) SessionID() string {
	return n.sessionID
}

// Request delivers a cable, control or report event.
//
// Report events (CapExtra) are handled synchronously on the caller's
// goroutine. Cable and control events (CapState) are queued for the worker
// and handled one at a time; while the boot gate is closed, boot-delayed
// events are parked in the reservation slot instead. Request never blocks
// on a running transition.
func (n *Notifier) Request(ev event.Event, enable bool) error {
	if !ev.Valid() {
		n.metrics.Reject("invalid_event")
		n.logger().Warn("event is invalid", "event", uint16(ev))
		return fmt.Errorf("%w: %d", ErrInvalidEvent, uint16(ev))
	}

	caps := event.Classify(ev)
	if caps.Has(event.CapExtra) {
		n.closeMu.RLock()
		closed := n.closed
		n.closeMu.RUnlock()
		if closed {
			return ErrClosed
		}
		n.extraTransition(ev.Base(), enable)
		return nil
	}
	return n.admit(ev, enable, caps)
}

func (n *Notifier) admit(ev event.Event, enable bool, caps event.Capabilities) error {
	n.admitMu.Lock()
	if !n.gateOpen && caps.Has(event.CapDelay) && caps.Has(event.CapState) {
		snap := n.store.Snapshot()
		d := policy.Decide(policy.Input{
			Caps:            caps,
			Disable:         snap.Disable,
			HostUnsupported: n.cfg.UnsupportHost,
			Restricted:      snap.Restricted,
		})
		if d.Outcome == policy.Deferred {
			n.reserve(ev, enable, caps)
			restricted := snap.Lock == cable.LockRestricted
			n.admitMu.Unlock()

			n.metrics.Reject(d.Reason.String())
			n.recordCable(ev, snap.Status, d.Reason)
			if restricted {
				if enable {
					n.emitRestrict(uevent.TimeSecureRestricted)
				} else {
					n.emitRestrict(uevent.SecureRelease)
				}
			}
			return nil
		}
	}
	err := n.enqueue(workItem{ev: ev, enable: enable})
	n.admitMu.Unlock()
	return err
}

// enqueue hands an item to the worker without blocking.
func (n *Notifier) enqueue(it workItem) error {
	n.closeMu.RLock()
	defer n.closeMu.RUnlock()
	if n.closed {
		return ErrClosed
	}
	select {
	case n.queue <- it:
		return nil
	default:
		n.metrics.Dropped()
		n.logger().Warn("state queue full, event dropped", "event", it.ev.String(), "enable", it.enable)
		return fmt.Errorf("%w: %s", ErrQueueFull, it.ev)
	}
}

// Sync waits until every state event queued before the call was handled.
func (n *Notifier) Sync(ctx context.Context) error {
	done := make(chan struct{})
	if err := n.enqueueWait(ctx, workItem{barrier: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) enqueueWait(ctx context.Context, it workItem) error {
	n.closeMu.RLock()
	defer n.closeMu.RUnlock()
	if n.closed {
		return ErrClosed
	}
	select {
	case n.queue <- it:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) run() {
	defer close(n.workerDone)
	for it := range n.queue {
		if it.barrier != nil {
			close(it.barrier)
			continue
		}
		n.stateTransition(it.ev, it.enable)
	}
}

// Close stops the boot gate, drains the queued state events, cancels the
// device check, stops the overcurrent scanner and releases the GPIO lines.
// It is safe to call more than once.
func (n *Notifier) Close() error {
	n.closeOnce.Do(func() {
		var drain errgroup.Group
		drain.Go(func() error {
			n.stopBootGate()
			return nil
		})
		drain.Go(func() error {
			n.closeMu.Lock()
			n.closed = true
			close(n.queue)
			n.closeMu.Unlock()
			<-n.workerDone
			return nil
		})
		_ = drain.Wait()

		var release errgroup.Group
		release.Go(func() error {
			n.check.Cancel()
			return nil
		})
		release.Go(func() error {
			n.ovc.Stop()
			return nil
		})
		if n.redriver != nil {
			release.Go(func() error {
				if err := n.redriver.Close(); err != nil {
					return fmt.Errorf("notify: close redriver: %w", err)
				}
				return nil
			})
		}
		if n.vbus != nil {
			release.Go(func() error {
				if err := n.vbus.Close(); err != nil {
					return fmt.Errorf("notify: close vbus detect: %w", err)
				}
				return nil
			})
		}
		if n.trace != nil {
			release.Go(func() error {
				if err := n.trace.Close(); err != nil {
					return fmt.Errorf("notify: close telemetry trace: %w", err)
				}
				return nil
			})
		}
		n.closeErr = release.Wait()
		n.debugLog("notifier closed", "session", n.sessionID)
	})
	return n.closeErr
}

func (n *Notifier) logger() *slog.Logger {
	if n.cfg.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return n.cfg.Logger
}

// debugLog logs a debug message if logging is enabled.
func (n *Notifier) debugLog(msg string, args ...any) {
	if n.cfg.Logger != nil {
		n.cfg.Logger.Debug(msg, args...)
	}
}
