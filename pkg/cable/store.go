package cable

import (
	"sync"
	"sync/atomic"

	"github.com/usb-notify/usbnotify-go/pkg/event"
)

// NumGroups is the number of secure-connection counter groups.
const NumGroups = int(numGroups)

// Snapshot is a point-in-time copy of the cable state.
type Snapshot struct {
	// Cable is the current cable event (never virtual).
	Cable  event.Event
	Status Status
	Mode   Mode

	BusState       BusState
	CableConnected bool
	DoingDrSwap    bool

	// Disable is the disable bitmask; DisableState is the last accepted
	// disable request.
	Disable      DisableBit
	DisableState BlockType

	Lock                LockState
	Restricted          bool
	AllowlistRestricted int
	SecureGroups        [NumGroups]int

	// Reserved is the event waiting for the boot gate.
	Reserved        event.Event
	SkipPossibleUSB bool

	ReverseBypass     ReverseBypass
	DisableVbusDrive  bool
	OvercurrentNotify bool
	ReserveBooster    bool

	HSHub bool
	SSHub bool

	WhitelistClass  bool
	WhitelistID     bool
	WhitelistSerial bool

	Booster             bool
	IsDevice            bool
	DeviceCheckComplete bool
	PowerRole           PowerRole
	PDContract          bool
	MaxSpeed            int

	VbusLevel int
}

// Blocked reports whether bit is set in the disable bitmask.
func (s Snapshot) Blocked(bit DisableBit) bool {
	return s.Disable&bit != 0
}

// HostCableEnabled reports whether a host-role cable is enabled or enabling.
func (s Snapshot) HostCableEnabled() bool {
	return event.Classify(s.Cable).Has(event.CapNeedHost) && s.Status.IsEnabled()
}

// HostCableBlocked reports whether a host-role cable is blocked or blocking.
func (s Snapshot) HostCableBlocked() bool {
	return event.Classify(s.Cable).Has(event.CapNeedHost) && s.Status.IsBlocked()
}

// ClientCableEnabled reports whether a client-role cable is enabled or enabling.
func (s Snapshot) ClientCableEnabled() bool {
	return event.Classify(s.Cable).Has(event.CapNeedClient) && s.Status.IsEnabled()
}

// ClientCableBlocked reports whether a client-role cable is blocked or blocking.
func (s Snapshot) ClientCableBlocked() bool {
	return event.Classify(s.Cable).Has(event.CapNeedClient) && s.Status.IsBlocked()
}

// HubConnected reports whether a high-speed or super-speed hub is attached.
func (s Snapshot) HubConnected() bool {
	return s.HSHub || s.SSHub
}

// WhitelistMode reports which of the id and serial allowlists are enforced.
func (s Snapshot) WhitelistMode() WhitelistMode {
	switch {
	case s.WhitelistID && s.WhitelistSerial:
		return WhitelistIDAndSerial
	case s.WhitelistID:
		return WhitelistID
	case s.WhitelistSerial:
		return WhitelistSerial
	default:
		return WhitelistNone
	}
}

// Guard is proof that the caller holds the store's state lock. Mutators of
// transition-owned fields take a Guard and panic when it is nil, released or
// belongs to another store.
type Guard struct {
	store *Store
}

// Unlock releases the state lock. The guard is unusable afterwards.
func (g *Guard) Unlock() {
	g.store.mustHold(g)
	g.store.holder.Store(nil)
	g.store.state.Unlock()
}

// Store is the authoritative cable state record.
//
// Three locks split the record:
//   - the state lock, taken through Lock, serializes transitions and is held
//     for their whole duration, including hardware settle delays;
//   - mu protects field access and is held only briefly, so Snapshot never
//     waits for a running transition and may observe a starting status;
//   - vbusMu protects only the VBUS detect sample, written from GPIO edge
//     handlers.
//
// Fields written outside transitions (boot reservation, power line state
// reported by the charger, device presence, gadget bus state, reverse
// bypass staging, host restriction) have mutators that do not take a Guard, so report events
// never wait for a running transition.
type Store struct {
	state  sync.Mutex
	holder atomic.Pointer[Guard]

	mu   sync.RWMutex
	data Snapshot

	vbusMu    sync.Mutex
	vbusLevel int
}

// NewStore creates a store with no cable, lock state Init and sink role.
func NewStore() *Store {
	return &Store{}
}

// Lock acquires the state lock and returns its guard.
func (s *Store) Lock() *Guard {
	s.state.Lock()
	g := &Guard{store: s}
	s.holder.Store(g)
	return g
}

func (s *Store) mustHold(g *Guard) {
	if g == nil || g.store != s || s.holder.Load() != g {
		panic("cable: state mutated without holding the store lock")
	}
}

func (s *Store) update(g *Guard, fn func(d *Snapshot)) {
	s.mustHold(g)
	s.mu.Lock()
	fn(&s.data)
	s.mu.Unlock()
}

func (s *Store) set(fn func(d *Snapshot)) {
	s.mu.Lock()
	fn(&s.data)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state. It never waits for a
// running transition.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	snap := s.data
	s.mu.RUnlock()
	snap.VbusLevel = s.VbusLevel()
	return snap
}

// SetCable records the current cable and its status.
func (s *Store) SetCable(g *Guard, ev event.Event, status Status) {
	s.update(g, func(d *Snapshot) {
		d.Cable = ev.Base()
		d.Status = status
	})
}

// SetStatus records the status of the current cable.
func (s *Store) SetStatus(g *Guard, status Status) {
	s.update(g, func(d *Snapshot) { d.Status = status })
}

// SetMode records the active controller role.
func (s *Store) SetMode(g *Guard, m Mode) {
	s.update(g, func(d *Snapshot) { d.Mode = m })
}

// SetBusState records the gadget bus state.
func (s *Store) SetBusState(b BusState) {
	s.set(func(d *Snapshot) { d.BusState = b })
}

// SetPeripheralBusState records the gadget bus state if the controller is
// in peripheral mode. Unless duringSwap is set, a data-role swap in
// progress also prevents the update. It returns the state after the call
// and whether the update was applied.
func (s *Store) SetPeripheralBusState(b BusState, duringSwap bool) (Snapshot, bool) {
	var (
		snap    Snapshot
		applied bool
	)
	s.set(func(d *Snapshot) {
		if d.Mode == ModePeripheral && (duringSwap || !d.DoingDrSwap) {
			d.BusState = b
			applied = true
		}
		snap = *d
	})
	return snap, applied
}

// SetCableConnected records whether a USB data cable is attached and
// returns the state after the update.
func (s *Store) SetCableConnected(on bool) Snapshot {
	var snap Snapshot
	s.set(func(d *Snapshot) {
		d.CableConnected = on
		snap = *d
	})
	return snap
}

// SetDrSwap records whether a data-role swap is in progress.
func (s *Store) SetDrSwap(on bool) {
	s.set(func(d *Snapshot) { d.DoingDrSwap = on })
}

// SetDisableBit sets or clears one bit of the disable bitmask.
func (s *Store) SetDisableBit(g *Guard, bit DisableBit, on bool) {
	s.update(g, func(d *Snapshot) {
		if on {
			d.Disable |= bit
		} else {
			d.Disable &^= bit
		}
	})
}

// TestDisableBit reports whether bit is set.
func (s *Store) TestDisableBit(bit DisableBit) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Disable&bit != 0
}

// SetDisableState records the last accepted disable request.
func (s *Store) SetDisableState(g *Guard, b BlockType) {
	s.update(g, func(d *Snapshot) { d.DisableState = b })
}

// SetLockState records the lockscreen state.
func (s *Store) SetLockState(g *Guard, l LockState) {
	s.update(g, func(d *Snapshot) { d.Lock = l })
}

// SetRestricted records whether host mode is restricted after an illegal
// condition.
func (s *Store) SetRestricted(on bool) {
	s.set(func(d *Snapshot) { d.Restricted = on })
}

// BumpAllowlistRestricted increments the count of devices refused by the
// lockscreen allowlist, saturating at MaxCounter.
func (s *Store) BumpAllowlistRestricted(g *Guard) int {
	var n int
	s.update(g, func(d *Snapshot) {
		if d.AllowlistRestricted < MaxCounter {
			d.AllowlistRestricted++
		}
		n = d.AllowlistRestricted
	})
	return n
}

// DropAllowlistRestricted decrements the refused-device count if positive
// and returns the new count.
func (s *Store) DropAllowlistRestricted(g *Guard) int {
	var n int
	s.update(g, func(d *Snapshot) {
		if d.AllowlistRestricted > 0 {
			d.AllowlistRestricted--
		}
		n = d.AllowlistRestricted
	})
	return n
}

// ClearAllowlistRestricted resets the refused-device count.
func (s *Store) ClearAllowlistRestricted(g *Guard) {
	s.update(g, func(d *Snapshot) { d.AllowlistRestricted = 0 })
}

// BumpSecureGroup increments a secure-connection counter, saturating at
// MaxCounter, and returns the new count.
func (s *Store) BumpSecureGroup(g *Guard, grp Group) int {
	var n int
	s.update(g, func(d *Snapshot) {
		if d.SecureGroups[grp] < MaxCounter {
			d.SecureGroups[grp]++
		}
		n = d.SecureGroups[grp]
	})
	return n
}

// ResetSecureGroups zeroes every secure-connection counter.
func (s *Store) ResetSecureGroups(g *Guard) {
	s.update(g, func(d *Snapshot) { d.SecureGroups = [NumGroups]int{} })
}

// SetReverseBypass records the reverse bypass staging status.
func (s *Store) SetReverseBypass(rb ReverseBypass) {
	s.set(func(d *Snapshot) { d.ReverseBypass = rb })
}

// SwapReverseBypass moves the reverse bypass status from old to rb and
// reports whether it held old.
func (s *Store) SwapReverseBypass(old, rb ReverseBypass) bool {
	var swapped bool
	s.set(func(d *Snapshot) {
		if d.ReverseBypass == old {
			d.ReverseBypass = rb
			swapped = true
		}
	})
	return swapped
}

// SetDisableVbusDrive records whether the attached dock forbids driving VBUS.
func (s *Store) SetDisableVbusDrive(g *Guard, on bool) {
	s.update(g, func(d *Snapshot) { d.DisableVbusDrive = on })
}

// SetOvercurrentNotify arms or disarms overcurrent reporting on VBUS loss.
func (s *Store) SetOvercurrentNotify(g *Guard, on bool) {
	s.update(g, func(d *Snapshot) { d.OvercurrentNotify = on })
}

// SetReserveBooster records a pending booster request.
func (s *Store) SetReserveBooster(on bool) {
	s.set(func(d *Snapshot) { d.ReserveBooster = on })
}

// SetHub records hub presence; superSpeed selects which hub flag changes.
func (s *Store) SetHub(g *Guard, superSpeed, conn bool) {
	s.update(g, func(d *Snapshot) {
		if superSpeed {
			d.SSHub = conn
		} else {
			d.HSHub = conn
		}
	})
}

// ClearHubs forgets every recorded hub.
func (s *Store) ClearHubs(g *Guard) {
	s.update(g, func(d *Snapshot) {
		d.HSHub = false
		d.SSHub = false
	})
}

// Whitelist selects one of the MDM allowlists.
type Whitelist uint8

const (
	// WhitelistByClass is the interface-class allowlist.
	WhitelistByClass Whitelist = iota
	// WhitelistByID is the vendor/product allowlist.
	WhitelistByID
	// WhitelistBySerial is the serial-number allowlist.
	WhitelistBySerial
)

// SetWhitelist enables or disables enforcement of one allowlist.
func (s *Store) SetWhitelist(g *Guard, w Whitelist, on bool) {
	s.update(g, func(d *Snapshot) {
		switch w {
		case WhitelistByClass:
			d.WhitelistClass = on
		case WhitelistByID:
			d.WhitelistID = on
		case WhitelistBySerial:
			d.WhitelistSerial = on
		}
	})
}

// SetReserved stores ev in the boot reservation slot, replacing any
// pending event.
func (s *Store) SetReserved(ev event.Event) {
	s.set(func(d *Snapshot) { d.Reserved = ev })
}

// TakeReserved empties the reservation slot and returns what it held.
func (s *Store) TakeReserved() event.Event {
	var ev event.Event
	s.set(func(d *Snapshot) {
		ev = d.Reserved
		d.Reserved = event.None
	})
	return ev
}

// SetSkipPossibleUSB suppresses or re-enables the possible-USB notification
// sent when the boot gate opens.
func (s *Store) SetSkipPossibleUSB(on bool) {
	s.set(func(d *Snapshot) { d.SkipPossibleUSB = on })
}

// SetBooster records whether the VBUS booster is on.
func (s *Store) SetBooster(on bool) {
	s.set(func(d *Snapshot) { d.Booster = on })
}

// SetDevice records whether a real device was seen on the host port.
func (s *Store) SetDevice(on bool) {
	s.set(func(d *Snapshot) { d.IsDevice = on })
}

// MarkDevice records a device as present and reports whether it was
// absent before.
func (s *Store) MarkDevice() bool {
	var added bool
	s.set(func(d *Snapshot) {
		added = !d.IsDevice
		d.IsDevice = true
	})
	return added
}

// SetDeviceCheckComplete records whether the delayed device check ran.
func (s *Store) SetDeviceCheckComplete(on bool) {
	s.set(func(d *Snapshot) { d.DeviceCheckComplete = on })
}

// SetPowerRole records the USB-C power role.
func (s *Store) SetPowerRole(r PowerRole) {
	s.set(func(d *Snapshot) { d.PowerRole = r })
}

// SetPDContract records whether a PD contract is established.
func (s *Store) SetPDContract(on bool) {
	s.set(func(d *Snapshot) { d.PDContract = on })
}

// SetMaxSpeed records the maximum speed of the connected device.
func (s *Store) SetMaxSpeed(speed int) {
	s.set(func(d *Snapshot) { d.MaxSpeed = speed })
}

// SampleVbus records a VBUS detect level and reports whether it changed.
func (s *Store) SampleVbus(level int) bool {
	s.vbusMu.Lock()
	defer s.vbusMu.Unlock()
	if s.vbusLevel == level {
		return false
	}
	s.vbusLevel = level
	return true
}

// VbusLevel returns the last recorded VBUS detect level.
func (s *Store) VbusLevel() int {
	s.vbusMu.Lock()
	defer s.vbusMu.Unlock()
	return s.vbusLevel
}
