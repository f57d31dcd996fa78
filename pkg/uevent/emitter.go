package uevent

import (
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when a rate-limited uevent is dropped.
var ErrRateLimited = errors.New("uevent: rate limited")

// DefaultWarmResetInterval is the minimum spacing of warm-reset uevents.
const DefaultWarmResetInterval = 5 * time.Second

// Sender delivers uevents to the platform.
type Sender interface {
	SendUevent(env []string) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(env []string) error

// SendUevent calls f.
func (f SenderFunc) SendUevent(env []string) error {
	return f(env)
}

// Emitter sends uevents and applies rate limits. A nil Sender drops every
// message.
type Emitter struct {
	sender Sender
	logger *slog.Logger

	warmReset *rate.Limiter
}

// NewEmitter creates an emitter. interval is the minimum spacing of
// warm-reset uevents; zero selects DefaultWarmResetInterval.
func NewEmitter(sender Sender, interval time.Duration, logger *slog.Logger) *Emitter {
	if interval <= 0 {
		interval = DefaultWarmResetInterval
	}
	return &Emitter{
		sender:    sender,
		logger:    logger,
		warmReset: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Emit sends m. Failures are logged and returned but never retried.
func (e *Emitter) Emit(m Message) error {
	if e.sender == nil {
		return nil
	}
	if err := e.sender.SendUevent(m.Env()); err != nil {
		if e.logger != nil {
			e.logger.Warn("uevent send failed", "uevent", m.String(), "error", err)
		}
		return err
	}
	if e.logger != nil {
		e.logger.Debug("uevent sent", "uevent", m.String())
	}
	return nil
}

// EmitCerti sends a certification uevent, dropping warm-reset reports that
// arrive faster than the configured interval.
func (e *Emitter) EmitCerti(c Certi) (Message, error) {
	m, err := CertiMessage(c)
	if err != nil {
		return Message{}, err
	}
	if c == WarmReset && !e.warmReset.Allow() {
		return m, ErrRateLimited
	}
	return m, e.Emit(m)
}
