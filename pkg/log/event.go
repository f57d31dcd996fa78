package log

import "time"

// Event is a telemetry record of the notifier. CBOR encoding uses integer
// keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the notifier instance that produced the event.
	SessionID string `cbor:"2,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"3,keyasint"`

	// Type-specific payload (one of these will be set).
	Cable          *CableEvent          `cbor:"10,keyasint,omitempty"`
	Extra          *ExtraEvent          `cbor:"11,keyasint,omitempty"`
	PortClassBlock *PortClassBlockEvent `cbor:"12,keyasint,omitempty"`
	Control        *ControlEvent        `cbor:"13,keyasint,omitempty"`
	Error          *ErrorEventData      `cbor:"14,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCable indicates a cable transition or a recorded extra event.
	CategoryCable Category = 0
	// CategoryExtra indicates an out-of-band condition such as overcurrent.
	CategoryExtra Category = 1
	// CategoryPortClassBlock indicates a device refused by the class allowlist.
	CategoryPortClassBlock Category = 2
	// CategoryControl indicates a control request (disable, MDM, lock state).
	CategoryControl Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCable:
		return "CABLE"
	case CategoryExtra:
		return "EXTRA"
	case CategoryPortClassBlock:
		return "PORT_CLASS_BLOCK"
	case CategoryControl:
		return "CONTROL"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// CableEvent records an event and the status it produced.
type CableEvent struct {
	// Event is the event name.
	Event string `cbor:"1,keyasint"`

	// Status is the resulting cable status name.
	Status string `cbor:"2,keyasint"`

	// Virtual is set for a replay of a physical event.
	Virtual bool `cbor:"3,keyasint,omitempty"`

	// Reason names the policy rule when the event was blocked or deferred.
	Reason string `cbor:"4,keyasint,omitempty"`
}

// ExtraEvent records an out-of-band condition.
type ExtraEvent struct {
	Kind ExtraKind `cbor:"1,keyasint"`

	// Detail carries kind-specific context.
	Detail string `cbor:"2,keyasint,omitempty"`
}

// ExtraKind identifies an out-of-band condition.
type ExtraKind uint8

const (
	// ExtraOvercurrent indicates the host port lost VBUS under load.
	ExtraOvercurrent ExtraKind = 0
	// ExtraRestricted indicates host mode was restricted after an illegal
	// condition.
	ExtraRestricted ExtraKind = 1
	// ExtraReverseBypass indicates reverse bypass power was driven.
	ExtraReverseBypass ExtraKind = 2
	// ExtraNoDevice indicates no device answered after a host cable attached.
	ExtraNoDevice ExtraKind = 3
)

// String returns the extra kind name.
func (k ExtraKind) String() string {
	switch k {
	case ExtraOvercurrent:
		return "USBHOST_OVERCURRENT"
	case ExtraRestricted:
		return "RESTRICTED"
	case ExtraReverseBypass:
		return "REVERSE_BYPASS"
	case ExtraNoDevice:
		return "NO_DEVICE"
	default:
		return "UNKNOWN"
	}
}

// PortClassBlockEvent records the interface that failed the class allowlist.
type PortClassBlockEvent struct {
	DeviceClass    uint8 `cbor:"1,keyasint"`
	InterfaceClass uint8 `cbor:"2,keyasint"`
}

// ControlEvent records a control request.
type ControlEvent struct {
	// Name is the control surface, such as "disable" or "lock_state".
	Name string `cbor:"1,keyasint"`

	// Value is the requested value.
	Value string `cbor:"2,keyasint"`

	// Rejected is set when the request was refused.
	Rejected bool `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
