package policy

import (
	"errors"

	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
)

// ErrDoNotRecord is returned by a block handler to veto recording of a
// blocked event. The transition then ends without a committed status.
var ErrDoNotRecord = errors.New("policy: blocked event not recorded")

// Outcome is the result of a policy decision.
type Outcome uint8

const (
	// Allow lets the transition run.
	Allow Outcome = iota
	// Blocked records the event as blocked without applying it.
	Blocked
	// Deferred parks the event in the boot reservation slot.
	Deferred
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Allow:
		return "ALLOW"
	case Blocked:
		return "BLOCKED"
	case Deferred:
		return "DEFERRED"
	default:
		return "UNKNOWN"
	}
}

// Reason explains a Blocked outcome.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonHostDisabled
	ReasonClientDisabled
	ReasonHostUnsupported
	ReasonRestricted
	ReasonBootDelay
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonHostDisabled:
		return "host_disabled"
	case ReasonClientDisabled:
		return "client_disabled"
	case ReasonHostUnsupported:
		return "host_unsupported"
	case ReasonRestricted:
		return "restricted"
	case ReasonBootDelay:
		return "boot_delay"
	default:
		return "unknown"
	}
}

// Input is the state a decision is made against.
type Input struct {
	Caps            event.Capabilities
	Disable         cable.DisableBit
	HostUnsupported bool
	Restricted      bool
	// GateOpen reports whether the boot-completion gate has opened.
	GateOpen bool
}

// Decision is the outcome of Decide and the rule that produced it.
type Decision struct {
	Outcome Outcome
	Reason  Reason
}

// Decide applies the block rules in order:
//
//  1. NeedHost with the host bit set, or NeedClient with the client bit set,
//     is Blocked unless the event is NoBlocking.
//  2. NeedHost while host is unsupported or restricted is Blocked.
//  3. Delay|State before the boot gate opens is Deferred.
//  4. Everything else is allowed.
func Decide(in Input) Decision {
	if !in.Caps.Has(event.CapNoBlocking) {
		if in.Caps.Has(event.CapNeedHost) && in.Disable&cable.HostBlocked != 0 {
			return Decision{Blocked, ReasonHostDisabled}
		}
		if in.Caps.Has(event.CapNeedClient) && in.Disable&cable.ClientBlocked != 0 {
			return Decision{Blocked, ReasonClientDisabled}
		}
	}
	if in.Caps.Has(event.CapNeedHost) {
		if in.HostUnsupported {
			return Decision{Blocked, ReasonHostUnsupported}
		}
		if in.Restricted {
			return Decision{Blocked, ReasonRestricted}
		}
	}
	if in.Caps.Has(event.CapDelay) && in.Caps.Has(event.CapState) && !in.GateOpen {
		return Decision{Deferred, ReasonBootDelay}
	}
	return Decision{Allow, ReasonNone}
}

// Phase selects which half of a two-phase status update is computed.
type Phase uint8

const (
	// PhaseStart is computed before side effects run.
	PhaseStart Phase = iota
	// PhaseCommit is computed after side effects ran.
	PhaseCommit
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseStart {
		return "START"
	}
	return "COMMIT"
}

// Status computes the cable status for a transition. A blocked enable and a
// virtual disable both land in the blocked pair; a physical disable lands in
// the disabled pair.
func Status(enable, virtual, blocked bool, phase Phase) cable.Status {
	var s cable.Status
	switch {
	case enable && blocked, !enable && virtual:
		s = cable.StatusBlocked
	case enable:
		s = cable.StatusEnabled
	default:
		s = cable.StatusDisabled
	}
	if phase == PhaseStart {
		return starting(s)
	}
	return s
}

// ClearsCable reports whether a transition resets the current cable to None.
// Only a physical disable does; a virtual disable keeps the cable so that a
// later virtual enable can restore it.
func ClearsCable(enable, virtual bool) bool {
	return !enable && !virtual
}

func starting(s cable.Status) cable.Status {
	switch s {
	case cable.StatusEnabled:
		return cable.StatusEnabling
	case cable.StatusBlocked:
		return cable.StatusBlocking
	case cable.StatusDisabled:
		return cable.StatusDisabling
	default:
		return s
	}
}
