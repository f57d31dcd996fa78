package cable

// Status is the lifecycle status of the current cable.
type Status uint8

const (
	// StatusDisabled indicates no cable is active.
	StatusDisabled Status = iota
	// StatusDisabling indicates a disable is in progress.
	StatusDisabling
	// StatusEnabled indicates the cable is active.
	StatusEnabled
	// StatusEnabling indicates an enable is in progress.
	StatusEnabling
	// StatusBlocked indicates the cable is attached but blocked by policy.
	StatusBlocked
	// StatusBlocking indicates a block is in progress.
	StatusBlocking
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusDisabled:
		return "disabled"
	case StatusDisabling:
		return "disabling"
	case StatusEnabled:
		return "enabled"
	case StatusEnabling:
		return "enabling"
	case StatusBlocked:
		return "blocked"
	case StatusBlocking:
		return "blocking"
	default:
		return "undefined"
	}
}

// IsStarting reports whether s is a transient status whose side effects
// are still running. Callers must not treat it as stable.
func (s Status) IsStarting() bool {
	return s == StatusDisabling || s == StatusEnabling || s == StatusBlocking
}

// Settled returns the settled counterpart of a starting status.
func (s Status) Settled() Status {
	switch s {
	case StatusDisabling:
		return StatusDisabled
	case StatusEnabling:
		return StatusEnabled
	case StatusBlocking:
		return StatusBlocked
	default:
		return s
	}
}

// IsEnabled reports whether s is Enabled or Enabling.
func (s Status) IsEnabled() bool {
	return s == StatusEnabled || s == StatusEnabling
}

// IsBlocked reports whether s is Blocked or Blocking.
func (s Status) IsBlocked() bool {
	return s == StatusBlocked || s == StatusBlocking
}

// LockState is the device lockscreen state as reported by the platform.
type LockState uint8

const (
	// LockInit is the state before the platform has reported anything.
	LockInit LockState = iota
	// LockUnlocked indicates the user unlocked the device.
	LockUnlocked
	// LockWorkInProgress indicates the device is locked with USB work allowed.
	LockWorkInProgress
	// LockRestricted indicates the device is locked with USB restricted.
	LockRestricted
)

// String returns the lock state name.
func (l LockState) String() string {
	switch l {
	case LockInit:
		return "INIT"
	case LockUnlocked:
		return "UNLOCK"
	case LockWorkInProgress:
		return "LOCK_USB_WORK"
	case LockRestricted:
		return "LOCK_USB_RESTRICT"
	default:
		return "UNKNOWN"
	}
}

// IsLocked reports whether the lockscreen is up, with or without restriction.
func (l LockState) IsLocked() bool {
	return l == LockWorkInProgress || l == LockRestricted
}

// BlockType selects which roles a disable request blocks.
type BlockType uint8

const (
	// BlockNone lifts every block.
	BlockNone BlockType = iota
	// BlockHost blocks host-role cables.
	BlockHost
	// BlockClient blocks client-role cables.
	BlockClient
	// BlockAll blocks both roles.
	BlockAll
)

// String returns the block type name.
func (b BlockType) String() string {
	switch b {
	case BlockNone:
		return "block_off"
	case BlockHost:
		return "block_host"
	case BlockClient:
		return "block_client"
	case BlockAll:
		return "block_all"
	default:
		return "undefined"
	}
}

// DisableBit is a single bit of the disable bitmask.
type DisableBit uint8

const (
	// HostBlocked is set while host-role events are blocked.
	HostBlocked DisableBit = 1 << iota
	// ClientBlocked is set while client-role events are blocked.
	ClientBlocked
)

// Mode is the controller role currently driven.
type Mode uint8

const (
	// ModeNone indicates no controller is active.
	ModeNone Mode = iota
	// ModeHost indicates the host controller is active.
	ModeHost
	// ModePeripheral indicates the peripheral (gadget) controller is active.
	ModePeripheral
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "NONE"
	case ModeHost:
		return "HOST"
	case ModePeripheral:
		return "PERIPHERAL"
	default:
		return "UNKNOWN"
	}
}

// PowerRole is the USB-C power contract role.
type PowerRole uint8

const (
	// RoleSink consumes power.
	RoleSink PowerRole = iota
	// RoleSource provides power.
	RoleSource
)

// String returns the power role name.
func (r PowerRole) String() string {
	switch r {
	case RoleSink:
		return "SINK"
	case RoleSource:
		return "SOURCE"
	default:
		return "UNKNOWN"
	}
}

// BusState is the gadget bus state in peripheral mode.
type BusState uint8

const (
	// BusUnconfigured indicates the host has not configured the gadget.
	BusUnconfigured BusState = iota
	// BusSuspended indicates the bus is suspended.
	BusSuspended
	// BusConfigured indicates the host configured the gadget.
	BusConfigured
)

// String returns the bus state name.
func (b BusState) String() string {
	switch b {
	case BusUnconfigured:
		return "UNCONFIGURED"
	case BusSuspended:
		return "SUSPENDED"
	case BusConfigured:
		return "CONFIGURED"
	default:
		return "UNKNOWN"
	}
}

// ReverseBypass is the staging status of reverse bypass power.
type ReverseBypass uint8

const (
	// ReverseBypassOff indicates reverse bypass is inactive.
	ReverseBypassOff ReverseBypass = iota
	// ReverseBypassPrepare indicates a capable device is attached and waiting.
	ReverseBypassPrepare
	// ReverseBypassOn indicates reverse bypass power is driven.
	ReverseBypassOn
)

// String returns the reverse bypass status name.
func (r ReverseBypass) String() string {
	switch r {
	case ReverseBypassOff:
		return "OFF"
	case ReverseBypassPrepare:
		return "PREPARE"
	case ReverseBypassOn:
		return "ON"
	default:
		return "UNKNOWN"
	}
}

// Group is a secure-connection counter group.
type Group uint8

const (
	// GroupAudio counts audio-class devices.
	GroupAudio Group = iota
	// GroupOther counts every other device.
	GroupOther

	numGroups
)

// String returns the group name.
func (g Group) String() string {
	switch g {
	case GroupAudio:
		return "AUDIO"
	case GroupOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// MaxCounter caps the restriction and secure-connection counters.
const MaxCounter = 0x7FFFFFFF

// WhitelistMode reports which device allowlists are enforced.
type WhitelistMode uint8

const (
	// WhitelistNone indicates no id or serial allowlist is enforced.
	WhitelistNone WhitelistMode = iota
	// WhitelistID indicates only the vendor/product allowlist is enforced.
	WhitelistID
	// WhitelistSerial indicates only the serial allowlist is enforced.
	WhitelistSerial
	// WhitelistIDAndSerial indicates both allowlists are enforced.
	WhitelistIDAndSerial
)

// String returns the whitelist mode name.
func (w WhitelistMode) String() string {
	switch w {
	case WhitelistNone:
		return "NONE"
	case WhitelistID:
		return "ID"
	case WhitelistSerial:
		return "SERIAL"
	case WhitelistIDAndSerial:
		return "ID_AND_SERIAL"
	default:
		return "UNKNOWN"
	}
}
