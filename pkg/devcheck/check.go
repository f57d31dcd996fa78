package devcheck

import (
	"log/slog"
	"sync"
	"time"
)

// State is the lifecycle state of a Check.
type State uint8

const (
	// StateIdle indicates no check is scheduled.
	StateIdle State = iota
	// StatePending indicates a check is scheduled and has not fired.
	StatePending
	// StateFiring indicates the expiry callback is running.
	StateFiring
	// StateComplete indicates the last scheduled check fired.
	StateComplete
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePending:
		return "PENDING"
	case StateFiring:
		return "FIRING"
	case StateComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Config configures a Check.
type Config struct {
	// Delay is the time between Start and expiry. Zero disables the check.
	Delay time.Duration

	// OnExpire runs when a scheduled check fires. It must not call Cancel.
	OnExpire func()

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// Check is a single delayed "has a device appeared" check.
type Check struct {
	mu sync.Mutex

	state State
	delay time.Duration
	timer *time.Timer

	// gen invalidates timers that were stopped too late to be prevented
	// from running.
	gen uint64

	// firing is closed when the running callback returns.
	firing chan struct{}

	onExpire func()
	logger   *slog.Logger
}

// New creates an idle check.
func New(cfg Config) *Check {
	return &Check{
		delay:    cfg.Delay,
		onExpire: cfg.OnExpire,
		logger:   cfg.Logger,
	}
}

// Enabled reports whether a non-zero delay is configured.
func (c *Check) Enabled() bool {
	return c.delay > 0
}

// State returns the lifecycle state.
func (c *Check) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Complete reports whether the last scheduled check has fired.
func (c *Check) Complete() bool {
	return c.State() == StateComplete
}

// Start schedules the check. A check that is already pending keeps its
// original deadline. Start does nothing when the check is disabled.
func (c *Check) Start() {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StatePending {
		return
	}

	c.gen++
	gen := c.gen
	c.state = StatePending
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(gen)
	})
	c.debugLog("device check scheduled", "delay", c.delay)
}

// Cancel stops a pending check. If the callback is running, Cancel blocks
// until it returns, so no expiry is observed after Cancel returns. It
// reports whether a pending check was prevented from firing.
func (c *Check) Cancel() bool {
	c.mu.Lock()

	c.gen++
	switch c.state {
	case StatePending:
		if c.timer != nil {
			c.timer.Stop()
			c.timer = nil
		}
		c.state = StateIdle
		c.mu.Unlock()
		c.debugLog("device check cancelled")
		return true
	case StateFiring:
		done := c.firing
		c.mu.Unlock()
		<-done
		return false
	default:
		c.mu.Unlock()
		return false
	}
}

func (c *Check) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StatePending {
		c.mu.Unlock()
		return
	}
	c.state = StateFiring
	c.timer = nil
	done := make(chan struct{})
	c.firing = done
	fn := c.onExpire
	c.mu.Unlock()

	c.debugLog("device check fired")
	if fn != nil {
		fn()
	}

	c.mu.Lock()
	if c.state == StateFiring {
		c.state = StateComplete
	}
	if c.firing == done {
		c.firing = nil
	}
	c.mu.Unlock()
	close(done)
}

func (c *Check) debugLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
