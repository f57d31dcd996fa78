package event

import "strings"

// Capability is a single behavioral flag of an event classification.
type Capability uint8

const (
	// CapExtra marks auxiliary reports handled synchronously.
	CapExtra Capability = 1 << iota
	// CapState marks events serialized through the worker under the state lock.
	CapState
	// CapDelay marks events deferred until the boot gate opens.
	CapDelay
	// CapNeedClient marks events blocked by the client disable bit.
	CapNeedClient
	// CapNeedHost marks events blocked by the host disable bit or restriction.
	CapNeedHost
	// CapNeedVbusDrive marks events that source VBUS and arm the device check.
	CapNeedVbusDrive
	// CapNoBlocking marks events applied even when a disable bit matches.
	CapNoBlocking
	// CapNoSave marks events never recorded as the current cable type.
	CapNoSave
)

// String returns the capability name.
func (c Capability) String() string {
	switch c {
	case CapExtra:
		return "EXTRA"
	case CapState:
		return "STATE"
	case CapDelay:
		return "DELAY"
	case CapNeedClient:
		return "NEED_CLIENT"
	case CapNeedHost:
		return "NEED_HOST"
	case CapNeedVbusDrive:
		return "NEED_VBUSDRIVE"
	case CapNoBlocking:
		return "NOBLOCKING"
	case CapNoSave:
		return "NOSAVE"
	default:
		return "UNKNOWN"
	}
}

// Capabilities is a set of Capability flags.
type Capabilities uint8

// NewCapabilities returns the set holding every given capability.
func NewCapabilities(caps ...Capability) Capabilities {
	var s Capabilities
	for _, c := range caps {
		s = s.With(c)
	}
	return s
}

// Has reports whether c is in the set.
func (s Capabilities) Has(c Capability) bool {
	return s&Capabilities(c) != 0
}

// With returns the set with c added.
func (s Capabilities) With(c Capability) Capabilities {
	return s | Capabilities(c)
}

// String lists the set members joined by "|".
func (s Capabilities) String() string {
	if s == 0 {
		return "NONE"
	}
	var parts []string
	for c := CapExtra; c != 0; c <<= 1 {
		if s.Has(c) {
			parts = append(parts, c.String())
		}
	}
	return strings.Join(parts, "|")
}

// Classify returns the behavioral classification of the base event. The
// virtual tag is ignored. Unknown events classify as CapState.
func Classify(e Event) Capabilities {
	switch e.Base() {
	case Overcurrent, VbusPower, SmscOvc,
		SmtdExtCurrent, MmdExtCurrent, HmdExtCurrent,
		DeviceConnect, GamepadConnect, LanhubConnect,
		PowerSource, PdContract, VbusReset, ReserveBooster,
		UsbCable, UsbdSuspended, UsbdUnconfigured, UsbdConfigured,
		DrSwap, ReverseBypassDeviceConnect, ReverseBypassDeviceAttach:
		return NewCapabilities(CapExtra)
	case Vbus, SmartDockUSB:
		return NewCapabilities(CapState, CapDelay, CapNeedClient)
	case Host, Hmt, Gamepad:
		return NewCapabilities(CapState, CapNeedVbusDrive, CapDelay, CapNeedHost)
	case Pogo:
		return NewCapabilities(CapState, CapDelay, CapNeedHost)
	case HostReload:
		return NewCapabilities(CapState, CapNeedHost, CapNoSave)
	case AllDisable, HostDisable, ClientDisable,
		MdmOnOff, MdmOnOffForID, MdmOnOffForSerial:
		return NewCapabilities(CapState, CapNoBlocking, CapNoSave)
	case DriveVbus, LanhubTA:
		return NewCapabilities(CapState, CapNoSave, CapNeedHost)
	case SmartDockTA, AudioDock, Lanhub, MMDock:
		return NewCapabilities(CapState, CapDelay, CapNeedHost)
	default:
		return NewCapabilities(CapState)
	}
}

// SameClass reports whether two events share a classification.
func SameClass(a, b Event) bool {
	return Classify(a) == Classify(b)
}
