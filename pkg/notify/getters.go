package notify

import (
	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
)

// CableType returns the current cable.
func (n *Notifier) CableType() event.Event {
	return n.store.Snapshot().Cable
}

// Status returns the status of the current cable.
func (n *Notifier) Status() cable.Status {
	return n.store.Snapshot().Status
}

// USBMode returns the controller role.
func (n *Notifier) USBMode() cable.Mode {
	return n.store.Snapshot().Mode
}

// IsBlocked reports whether b is in effect. BlockAll requires both roles to
// be blocked; BlockNone reports whether neither is.
func (n *Notifier) IsBlocked(b cable.BlockType) bool {
	snap := n.store.Snapshot()
	host := snap.Blocked(cable.HostBlocked)
	client := snap.Blocked(cable.ClientBlocked)
	switch b {
	case cable.BlockNone:
		return !host && !client
	case cable.BlockHost:
		return host
	case cable.BlockClient:
		return client
	case cable.BlockAll:
		return host && client
	default:
		return false
	}
}

// TypecStatus returns the USB-C state reported by ev: the power role
// (sink 0, source 1) for PowerSource and the PD contract (0 or 1)
// otherwise.
func (n *Notifier) TypecStatus(ev event.Event) int {
	snap := n.store.Snapshot()
	if ev.Base() == event.PowerSource {
		return int(snap.PowerRole)
	}
	return boolInt(snap.PDContract)
}

// Booster reports whether the VBUS booster is on.
func (n *Notifier) Booster() bool {
	return n.store.Snapshot().Booster
}

// IsUSBHost reports whether the board supports host mode.
func (n *Notifier) IsUSBHost() bool {
	return !n.cfg.UnsupportHost
}

// IsSnkDfpDeviceConnected reports whether a device is attached while the
// port sinks power as the downstream-facing port.
func (n *Notifier) IsSnkDfpDeviceConnected() bool {
	snap := n.store.Snapshot()
	return snap.IsDevice && snap.PowerRole == cable.RoleSink
}

// Snapshot returns a copy of the notifier state.
func (n *Notifier) Snapshot() cable.Snapshot {
	return n.store.Snapshot()
}

// Reboot disables an enabled host cable before the platform restarts so
// the attached device is powered down cleanly.
func (n *Notifier) Reboot() error {
	snap := n.store.Snapshot()
	if !snap.HostCableEnabled() {
		return nil
	}
	n.debugLog("reboot, disabling host cable", "cable", snap.Cable.String())
	return n.Request(snap.Cable.Virtual(), false)
}
