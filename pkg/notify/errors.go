package notify

import "errors"

// Notifier errors.
var (
	ErrInvalidConfig             = errors.New("invalid configuration")
	ErrInvalidEvent              = errors.New("invalid event")
	ErrQueueFull                 = errors.New("state queue full")
	ErrClosed                    = errors.New("notifier closed")
	ErrDisableControlUnsupported = errors.New("disable control not supported")
	ErrDuplicateState            = errors.New("duplicate disable state")
	ErrInvalidLockState          = errors.New("invalid lock state")
	ErrInvalidBlockType          = errors.New("invalid block type")
	ErrInvalidAllowlist          = errors.New("invalid allowlist kind")
	ErrAudioCardRange            = errors.New("audio card out of range")
	ErrMissingVbusDrive          = errors.New("host supported without a vbus drive hook")
	ErrUnauthorizedDevice        = errors.New("device refused")
	ErrReverseBypassPending      = errors.New("reverse bypass power not on")
	ErrNoOvercurrentCheck        = errors.New("overcurrent check not registered")
	ErrNoTraceFile               = errors.New("telemetry trace file not configured")
)
