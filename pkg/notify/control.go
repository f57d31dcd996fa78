package notify

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/usb-notify/usbnotify-go/pkg/allowlist"
	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
	"github.com/usb-notify/usbnotify-go/pkg/hal"
	"github.com/usb-notify/usbnotify-go/pkg/uevent"
)

// SetDisable applies a disable (block) request. The current cable is
// replayed as a virtual disable before its role is blocked and as a
// virtual enable once its role is unblocked again. Replays and control
// events are queued; SetDisable does not wait for them.
func (n *Notifier) SetDisable(b cable.BlockType) error {
	if b > cable.BlockAll {
		n.recordControl("disable", strconv.Itoa(int(b)), true)
		return fmt.Errorf("%w: %d", ErrInvalidBlockType, b)
	}
	if !n.cfg.DisableControl {
		n.recordControl("disable", b.String(), true)
		return ErrDisableControlUnsupported
	}

	g := n.store.Lock()
	prev := n.store.Snapshot()
	if prev.DisableState == b {
		g.Unlock()
		n.debugLog("duplicate disable state", "state", b.String())
		n.recordControl("disable", b.String(), true)
		return fmt.Errorf("%w: %s", ErrDuplicateState, b)
	}
	n.store.SetDisableState(g, b)
	g.Unlock()

	n.debugLog("disable state", "prev", prev.DisableState.String(), "state", b.String())
	n.recordControl("disable", b.String(), false)

	replay := prev.Cable.Virtual()
	var errs []error
	switch b {
	case cable.BlockAll:
		n.notifyExternal(hal.ExternalHostBlockEarly, 1)
		if prev.HostCableEnabled() || prev.ClientCableEnabled() {
			errs = append(errs, n.Request(replay, false))
			if prev.Lock == cable.LockRestricted {
				n.emitRestrict(uevent.TimeSecureRestricted)
			}
		}
		errs = append(errs, n.Request(event.AllDisable, true))
		if !n.BootGateOpen() {
			n.store.SetSkipPossibleUSB(true)
		}
		n.wakeBootGate()

	case cable.BlockHost:
		n.notifyExternal(hal.ExternalHostBlockEarly, 1)
		if prev.HostCableEnabled() {
			errs = append(errs, n.Request(replay, false))
		}
		errs = append(errs, n.Request(event.HostDisable, true))
		if prev.ClientCableBlocked() {
			errs = append(errs, n.Request(replay, true))
		}

	case cable.BlockClient:
		if prev.ClientCableEnabled() {
			errs = append(errs, n.Request(replay, false))
		}
		errs = append(errs, n.Request(event.ClientDisable, true))
		if prev.HostCableBlocked() && !n.cfg.UnsupportHost {
			errs = append(errs, n.Request(replay, true))
		}

	case cable.BlockNone:
		errs = n.unblock(prev)
	}
	return errors.Join(errs...)
}

// unblock lifts every block and restores the current cable.
func (n *Notifier) unblock(prev cable.Snapshot) []error {
	var errs []error
	if prev.Restricted {
		n.store.SetRestricted(false)
	}
	n.notifyExternal(hal.ExternalHostBlockEarly, 0)
	errs = append(errs, n.Request(event.AllDisable, false))

	source := prev.PowerRole == cable.RoleSource
	if !prev.HostCableBlocked() && !prev.ClientCableBlocked() {
		if source {
			errs = append(errs, n.Request(event.DriveVbus, true))
		}
		return errs
	}
	caps := event.Classify(prev.Cable)
	if caps.Has(event.CapNeedHost) && n.cfg.UnsupportHost {
		return errs
	}
	if prev.HostCableBlocked() {
		if n.cfg.AutoDriveVbus == AutoDriveOff && source && caps.Has(event.CapNeedVbusDrive) {
			errs = append(errs, n.Request(event.DriveVbus, true))
		}
	} else if source {
		errs = append(errs, n.Request(event.DriveVbus, true))
	}
	errs = append(errs, n.Request(prev.Cable.Virtual(), true))

	if n.store.Snapshot().SkipPossibleUSB {
		n.notifyExternal(hal.ExternalPossibleUSB, 1)
		n.store.SetSkipPossibleUSB(false)
	}
	return errs
}

// DisableState returns the last accepted disable request.
func (n *Notifier) DisableState() cable.BlockType {
	return n.store.Snapshot().DisableState
}

var mdmEvents = [...]event.Event{
	allowlist.KindClass:  event.MdmOnOff,
	allowlist.KindID:     event.MdmOnOffForID,
	allowlist.KindSerial: event.MdmOnOffForSerial,
}

// SetMDM turns enforcement of one MDM allowlist on or off. Turning a list
// on while a host cable is enabled reloads the host controller so attached
// devices are checked against it.
func (n *Notifier) SetMDM(kind allowlist.Kind, on bool) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidAllowlist, kind)
	}
	n.recordControl("mdm_"+kind.String(), strconv.FormatBool(on), false)

	if err := n.Request(mdmEvents[kind], on); err != nil {
		return err
	}
	if on && n.store.Snapshot().HostCableEnabled() {
		n.debugLog("reloading host for mdm allowlist", "list", kind.String())
		return n.Request(event.HostReload.Virtual(), true)
	}
	return nil
}

// SetAllowlists installs new MDM allowlists. A nil Lockscreen list keeps
// the current lockscreen allowlist.
func (n *Notifier) SetAllowlists(l allowlist.Lists) {
	if l.Lockscreen == nil {
		l.Lockscreen = n.lists.Lists().Lockscreen
	}
	n.lists.Set(l)
	n.debugLog("allowlists installed",
		"class", fmt.Sprintf("%#x", uint32(l.Class)),
		"id", l.ID.String(),
		"lockscreen", l.Lockscreen.String())
}

// Allowlists returns the installed allowlists.
func (n *Notifier) Allowlists() allowlist.Lists {
	return n.lists.Lists()
}

// SetLockState records the lockscreen state reported by the platform.
//
// Any report other than Init releases a waiting boot gate. Unlock clears
// the secure-connection counters and lifts a restriction, replaying a host
// cable it blocked.
func (n *Notifier) SetLockState(l cable.LockState) error {
	if l > cable.LockRestricted {
		n.recordControl("lock_state", strconv.Itoa(int(l)), true)
		return fmt.Errorf("%w: %d", ErrInvalidLockState, l)
	}
	n.recordControl("lock_state", l.String(), false)

	var noti, restore, reload, vdm bool

	g := n.store.Lock()
	n.store.SetLockState(g, l)
	snap := n.store.Snapshot()
	switch l {
	case cable.LockRestricted:
		reserved := snap.Reserved
		noti = !n.BootGateOpen() && reserved != event.None &&
			event.Classify(reserved).Has(event.CapState)
	case cable.LockWorkInProgress:
		n.wakeBootGate()
	case cable.LockUnlocked:
		n.wakeBootGate()
		n.store.ResetSecureGroups(g)
		vdm = snap.Restricted
		restore = snap.HostCableBlocked() && snap.Restricted
		n.store.SetRestricted(false)
		reload = snap.HostCableEnabled() && !snap.HubConnected() &&
			!snap.PDContract && snap.AllowlistRestricted > 0
	}
	g.Unlock()

	n.debugLog("lock state", "state", l.String(),
		"restricted", snap.Restricted, "restore", restore, "reload", reload)

	var errs []error
	if noti {
		n.emitRestrict(uevent.TimeSecureRestricted)
	}
	if cur := n.store.Snapshot(); restore && cur.HostCableBlocked() {
		errs = append(errs, n.Request(cur.Cable.Virtual(), true))
	}
	if reload && n.store.Snapshot().HostCableEnabled() {
		errs = append(errs, n.Request(event.HostReload.Virtual(), true))
	}
	if vdm {
		n.notifyExternal(hal.ExternalHostBlockPre, 0)
		n.notifyExternal(hal.ExternalHostBlockPost, 0)
	}
	return errors.Join(errs...)
}

// LockState returns the lockscreen state.
func (n *Notifier) LockState() cable.LockState {
	return n.store.Snapshot().Lock
}

// SetMaxSpeed limits the controller speed through the UsbMaximumSpeed
// hook.
func (n *Notifier) SetMaxSpeed(speed int) error {
	n.recordControl("usb_maximum_speed", strconv.Itoa(speed), false)
	if n.hooks.UsbMaximumSpeed == nil {
		return nil
	}
	if err := n.hooks.UsbMaximumSpeed(speed); err != nil {
		n.recordError(err, "usb_maximum_speed")
		return fmt.Errorf("notify: set maximum speed %d: %w", speed, err)
	}
	return nil
}

// SetRequestAction records the action requested by the platform for the
// next connection.
func (n *Notifier) SetRequestAction(action int) {
	n.mu.Lock()
	n.requestAction = action
	n.mu.Unlock()
	n.debugLog("request action", "action", action)
}

// RequestAction returns the last recorded request action.
func (n *Notifier) RequestAction() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.requestAction
}

// SetLPMChargingTypeDone records the charger type reported when
// low-power-mode charging finished detection.
func (n *Notifier) SetLPMChargingTypeDone(state string) {
	n.mu.Lock()
	n.lpmCharging = state
	n.mu.Unlock()
	n.debugLog("lpm charging type done", "state", state)
}

// LPMChargingTypeDone returns the last recorded low-power-mode charger type.
func (n *Notifier) LPMChargingTypeDone() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lpmCharging
}
