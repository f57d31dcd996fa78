package notify

import (
	"time"

	"github.com/usb-notify/usbnotify-go/pkg/allowlist"
	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
	"github.com/usb-notify/usbnotify-go/pkg/hal"
	"github.com/usb-notify/usbnotify-go/pkg/log"
	"github.com/usb-notify/usbnotify-go/pkg/policy"
	"github.com/usb-notify/usbnotify-go/pkg/uevent"
)

// armResult tells stateTransition how to finish after a per-event arm.
type armResult uint8

const (
	// armContinue runs the device check and host bookkeeping, then commits.
	armContinue armResult = iota
	// armCommit commits the status without bookkeeping.
	armCommit
	// armNoSave ends the transition without committing.
	armNoSave
	// armBlocked runs the disable-side bookkeeping only, then commits.
	armBlocked
)

// stateTransition applies one cable or control event. It runs on the
// worker with the state lock held for its whole duration.
func (n *Notifier) stateTransition(ev event.Event, enable bool) {
	base := ev.Base()
	virtual := ev.IsVirtual()
	caps := event.Classify(base)
	save := !caps.Has(event.CapNoSave)

	g := n.store.Lock()
	defer g.Unlock()

	prev := n.store.Snapshot()
	n.debugLog("state event", "event", ev.String(), "enable", enable, "cable", prev.Cable.String())

	// A virtual replay re-applies the current host cable; it must not
	// replace a different cable.
	if virtual && caps.Has(event.CapNeedHost) && !event.Classify(prev.Cable).Has(event.CapNeedHost) {
		n.debugLog("virtual event skipped, cable type mismatch",
			"event", ev.String(), "cable", prev.Cable.String())
		n.metrics.Reject("cable_mismatch")
		return
	}

	d := policy.Decide(policy.Input{
		Caps:            caps,
		Disable:         prev.Disable,
		HostUnsupported: n.cfg.UnsupportHost,
		Restricted:      prev.Restricted,
		GateOpen:        true,
	})
	blocked := d.Outcome == policy.Blocked

	if save {
		n.setStatus(g, base, virtual, enable, blocked, policy.PhaseStart)
	}

	var result armResult
	if blocked && (d.Reason == policy.ReasonHostDisabled || d.Reason == policy.ReasonClientDisabled) {
		n.debugLog("event blocked", "event", ev.String(), "reason", d.Reason.String())
		n.metrics.Reject(d.Reason.String())
		if err := n.onBlocked(ev, enable); err != nil {
			if save {
				n.store.SetCable(g, prev.Cable, prev.Status)
			}
			n.debugLog("blocked event not recorded", "event", ev.String(), "error", err)
			return
		}
		result = armBlocked
	} else if blocked && d.Reason == policy.ReasonRestricted && enable {
		result = n.restrictedVeto(base)
	} else {
		result = n.applyArm(g, base, virtual, enable, prev)
	}

	if result == armNoSave {
		if !save {
			n.recordCable(ev, controlStatus(enable), policy.ReasonNone)
		}
		return
	}
	if result == armContinue || result == armBlocked {
		n.bookkeeping(g, base, caps, enable, prev, result == armBlocked)
	}

	if !save {
		n.recordCable(ev, controlStatus(enable), policy.ReasonNone)
		return
	}
	status := n.setStatus(g, base, virtual, enable, blocked, policy.PhaseCommit)
	n.metrics.Transition(base.String(), status.String())
	reason := policy.ReasonNone
	if blocked {
		reason = d.Reason
	}
	n.recordCable(ev, status, reason)
	if policy.ClearsCable(enable, virtual) {
		n.emitRestrict(uevent.SecureRelease)
	}
	n.debugLog("state event done", "event", ev.String(), "status", status.String())
}

func controlStatus(enable bool) cable.Status {
	if enable {
		return cable.StatusEnabling
	}
	return cable.StatusDisabling
}

// setStatus records the status of a transition phase. An enable records the
// event as the current cable, a virtual disable keeps the cable so a later
// virtual enable can restore it, and a physical disable clears it.
func (n *Notifier) setStatus(g *cable.Guard, base event.Event, virtual, enable, blocked bool, phase policy.Phase) cable.Status {
	status := policy.Status(enable, virtual, blocked, phase)
	switch {
	case policy.ClearsCable(enable, virtual):
		n.store.SetCable(g, event.None, status)
	case enable:
		n.store.SetCable(g, base, status)
	default:
		n.store.SetStatus(g, status)
	}
	return status
}

// bookkeeping runs after the arm: it arms or cancels the delayed device
// check and forgets host-side conditions when a host cable goes away. A
// blocked event only gets the disable side.
func (n *Notifier) bookkeeping(g *cable.Guard, base event.Event, caps event.Capabilities, enable bool, prev cable.Snapshot, blocked bool) {
	if (caps.Has(event.CapNeedVbusDrive) && base != event.Host) || base == event.Pogo {
		if enable {
			if !blocked && n.check.Enabled() {
				if prev.Cable != event.Host {
					n.store.SetDevice(false)
				}
				n.store.SetDeviceCheckComplete(false)
				n.check.Start()
				n.debugLog("device check started", "delay", n.cfg.DeviceCheckDelay)
			}
		} else {
			if n.check.Enabled() && !n.store.Snapshot().DeviceCheckComplete {
				n.check.Cancel()
				n.debugLog("device check cancelled")
			}
			n.store.SetDevice(false)
		}
	}

	if caps.Has(event.CapNeedHost) && !enable {
		n.store.ClearAllowlistRestricted(g)
		n.store.ClearHubs(g)
		n.store.SetDevice(false)
		n.notifyExternal(hal.ExternalDeviceAdd, 0)
		n.debugLog("host ended")
	}
}

// restrictedVeto refuses a host-side enable while host mode is restricted
// after an illegal condition. Disables still run their arm so the hardware
// is switched off.
func (n *Notifier) restrictedVeto(base event.Event) armResult {
	n.debugLog("event restricted", "event", base.String())
	n.metrics.Reject(policy.ReasonRestricted.String())
	switch base {
	case event.Host, event.Hmt, event.Gamepad:
		n.emitRestrict(uevent.SecureRestricted)
	}
	return armCommit
}

// applyArm performs the hardware sequence of one event. The order of hook
// calls inside each arm follows the enable sequencing of the redriver, the
// VBUS booster and the controllers.
func (n *Notifier) applyArm(g *cable.Guard, base event.Event, virtual, enable bool, prev cable.Snapshot) armResult {
	switch base {
	case event.None:
		return armContinue

	case event.Vbus, event.SmartDockUSB:
		if enable {
			n.store.SetMode(g, cable.ModePeripheral)
			n.store.SetDrSwap(false)
			n.stayAwake()
			n.setRedriver(1)
			if n.cfg.PrePeripheralDelay > 0 {
				time.Sleep(n.cfg.PrePeripheralDelay)
			}
			if n.hooks.SetPeripheral != nil {
				n.hooks.SetPeripheral(true)
			}
		} else {
			n.store.SetMode(g, cable.ModeNone)
			n.store.SetBusState(cable.BusUnconfigured)
			if n.hooks.SetPeripheral != nil {
				n.hooks.SetPeripheral(false)
			}
			n.setRedriver(0)
			n.relax()
		}
		return armContinue

	case event.LanhubTA:
		n.store.SetDisableVbusDrive(g, enable)
		if enable {
			n.store.SetOvercurrentNotify(g, false)
		}
		if n.hooks.SetLanhubTA != nil {
			n.hooks.SetLanhubTA(enable)
		}
		return armContinue

	case event.Lanhub:
		if n.cfg.UnsupportHost {
			n.debugLog("host not supported", "event", base.String())
			return armCommit
		}
		n.store.SetDisableVbusDrive(g, enable)
		if enable {
			n.store.SetOvercurrentNotify(g, false)
			n.store.SetMode(g, cable.ModeHost)
			n.notifyHost(hal.HostAdd)
			n.setRedriver(1)
			n.setHost(true)
		} else {
			n.store.SetMode(g, cable.ModeNone)
			n.setHost(false)
			n.setRedriver(0)
			n.notifyHost(hal.HostRemove)
		}
		return armContinue

	case event.Host, event.Hmt, event.Gamepad:
		return n.hostArm(g, base, virtual, enable, prev)

	case event.Charger:
		if n.hooks.SetCharger != nil {
			n.hooks.SetCharger(enable)
		}
		return armContinue

	case event.MMDock:
		n.ovc.Enable(enable)
		if enable {
			n.notifyHost(hal.HostNone)
		}
		return n.dockArm(g, base, enable)

	case event.Pogo, event.SmartDockTA, event.AudioDock:
		return n.dockArm(g, base, enable)

	case event.HostReload:
		if prev.Mode != cable.ModeHost || n.cfg.UnsupportHost {
			n.debugLog("host reload skipped", "mode", prev.Mode.String())
			return armNoSave
		}
		n.setHost(false)
		time.Sleep(n.cfg.HostReloadSettle)
		n.setHost(true)
		return armNoSave

	case event.DriveVbus:
		if n.cfg.UnsupportHost || prev.DisableVbusDrive {
			n.debugLog("drive vbus skipped", "disableVbusDrive", prev.DisableVbusDrive)
			return armNoSave
		}
		n.store.SetOvercurrentNotify(g, enable)
		n.vbusDrive(enable)
		if !enable && n.hooks.ReverseBypassDrive != nil {
			n.hooks.ReverseBypassDrive(false)
			n.store.SetReverseBypass(cable.ReverseBypassPrepare)
		}
		return armNoSave

	case event.AllDisable:
		if !n.cfg.DisableControl {
			n.logger().Warn("disable control not supported", "event", base.String())
			return armNoSave
		}
		n.notifyExternal(hal.ExternalHostBlockPre, boolInt(enable))
		n.store.SetDisableBit(g, cable.HostBlocked, enable)
		n.store.SetDisableBit(g, cable.ClientBlocked, enable)
		n.notifyExternal(hal.ExternalHostBlockPost, boolInt(enable))
		return armNoSave

	case event.HostDisable:
		if !n.cfg.DisableControl {
			n.logger().Warn("disable control not supported", "event", base.String())
			return armNoSave
		}
		if enable {
			n.notifyExternal(hal.ExternalHostBlockPre, 1)
			n.store.SetDisableBit(g, cable.ClientBlocked, false)
			n.store.SetDisableBit(g, cable.HostBlocked, true)
			n.notifyExternal(hal.ExternalHostBlockPost, 1)
		}
		return armNoSave

	case event.ClientDisable:
		if !n.cfg.DisableControl {
			n.logger().Warn("disable control not supported", "event", base.String())
			return armNoSave
		}
		if enable {
			n.store.SetDisableBit(g, cable.HostBlocked, false)
			n.store.SetDisableBit(g, cable.ClientBlocked, true)
		}
		return armNoSave

	case event.MdmOnOff:
		n.mdmArm(g, cable.WhitelistByClass, enable)
		return armNoSave
	case event.MdmOnOffForID:
		n.mdmArm(g, cable.WhitelistByID, enable)
		return armNoSave
	case event.MdmOnOffForSerial:
		n.mdmArm(g, cable.WhitelistBySerial, enable)
		return armNoSave

	default:
		return armContinue
	}
}

// hostArm drives the host controller for Host, Hmt and Gamepad.
func (n *Notifier) hostArm(g *cable.Guard, base event.Event, virtual, enable bool, prev cable.Snapshot) armResult {
	if n.cfg.UnsupportHost {
		n.debugLog("host not supported", "event", base.String())
		return armCommit
	}
	n.store.SetDisableVbusDrive(g, false)

	if !enable {
		n.store.SetMode(g, cable.ModeNone)
		if n.cfg.AutoDriveVbus == AutoDrivePost {
			n.stopSourcing(g)
		}
		n.setHost(false)
		if n.cfg.AutoDriveVbus == AutoDrivePre {
			n.stopSourcing(g)
		}
		n.setRedriver(0)
		n.notifyHost(hal.HostRemove)
		n.store.ClearAllowlistRestricted(g)
		return armContinue
	}

	if event.SameClass(prev.Cable, base) && !virtual {
		n.debugLog("host already enabled", "event", base.String(), "cable", prev.Cable.String())
		n.metrics.Reject("duplicate")
		return armCommit
	}
	n.store.SetMode(g, cable.ModeHost)
	n.store.SetDrSwap(false)
	n.notifyHost(hal.HostAdd)
	n.setRedriver(1)
	if n.cfg.AutoDriveVbus == AutoDrivePre {
		n.startSourcing(g)
	}
	n.setHost(true)
	switch n.cfg.AutoDriveVbus {
	case AutoDrivePost:
		n.startSourcing(g)
	case AutoDriveOff:
		snap := n.store.Snapshot()
		if snap.PowerRole == cable.RoleSource && snap.ReserveBooster && !snap.Blocked(cable.HostBlocked) {
			n.vbusDrive(true)
			n.store.SetReserveBooster(false)
		}
	}
	return armContinue
}

// dockArm drives host mode for Pogo, SmartDockTA, AudioDock and MMDock.
// These docks power themselves, so VBUS drive requests are ignored while
// they are attached.
func (n *Notifier) dockArm(g *cable.Guard, base event.Event, enable bool) armResult {
	if n.cfg.UnsupportHost {
		n.debugLog("host not supported", "event", base.String())
		return armCommit
	}
	n.store.SetDisableVbusDrive(g, enable)
	if enable {
		n.store.SetMode(g, cable.ModeHost)
	} else {
		n.store.SetMode(g, cable.ModeNone)
	}
	n.setHost(enable)
	return armContinue
}

func (n *Notifier) mdmArm(g *cable.Guard, w cable.Whitelist, enable bool) {
	n.debugLog("mdm allowlist", "list", whitelistKind(w).String(), "enable", enable)
	if enable {
		n.notifyExternal(hal.ExternalMDMBlockPre, 1)
		n.store.SetWhitelist(g, w, true)
		n.notifyExternal(hal.ExternalMDMBlockPost, 1)
	} else {
		n.store.SetWhitelist(g, w, false)
	}
}

func whitelistKind(w cable.Whitelist) allowlist.Kind {
	switch w {
	case cable.WhitelistByID:
		return allowlist.KindID
	case cable.WhitelistBySerial:
		return allowlist.KindSerial
	default:
		return allowlist.KindClass
	}
}

func (n *Notifier) startSourcing(g *cable.Guard) {
	n.store.SetOvercurrentNotify(g, true)
	n.vbusDrive(true)
	n.store.SetPowerRole(cable.RoleSource)
}

func (n *Notifier) stopSourcing(g *cable.Guard) {
	n.store.SetOvercurrentNotify(g, false)
	n.vbusDrive(false)
	n.store.SetPowerRole(cable.RoleSink)
}

// blockState is the built-in BlockHandler. It tells the charger and the
// host-state sink about a cable that arrived while its role is disabled.
// DriveVbus is never recorded.
func (n *Notifier) blockState(ev event.Event, enable bool) error {
	restricted := n.store.Snapshot().Lock == cable.LockRestricted

	switch ev.Base() {
	case event.Vbus, event.SmartDockUSB:
		if enable && restricted {
			n.emitRestrict(uevent.TimeSecureRestricted)
		}
		if enable && n.hooks.SetChgCurrent != nil {
			n.hooks.SetChgCurrent(hal.ChargeConfigured)
		}
	case event.Lanhub, event.Hmt, event.Host, event.MMDock,
		event.SmartDockTA, event.AudioDock, event.Gamepad, event.Pogo:
		if n.cfg.UnsupportHost {
			return nil
		}
		if enable && restricted {
			n.emitRestrict(uevent.TimeSecureRestricted)
		}
		if enable {
			n.notifyHost(hal.HostBlock)
		} else {
			n.notifyHost(hal.HostNone)
		}
	case event.DriveVbus:
		return policy.ErrDoNotRecord
	}
	return nil
}

// deviceCheckExpired runs when no device answered in time after a
// host-class enable: the booster is switched off and the port falls back
// to sink.
func (n *Notifier) deviceCheckExpired() {
	snap := n.store.Snapshot()
	n.debugLog("device check expired", "isDevice", snap.IsDevice)
	if !snap.IsDevice {
		n.notifyExternal(hal.ExternalNoDevice, 1)
		n.vbusDrive(false)
		n.store.SetPowerRole(cable.RoleSink)
		n.recordExtra(log.ExtraNoDevice, "")
	}
	n.store.SetDeviceCheckComplete(true)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
