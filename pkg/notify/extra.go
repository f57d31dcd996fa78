package notify

import (
	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
	"github.com/usb-notify/usbnotify-go/pkg/hal"
	"github.com/usb-notify/usbnotify-go/pkg/log"
	"github.com/usb-notify/usbnotify-go/pkg/ovc"
	"github.com/usb-notify/usbnotify-go/pkg/policy"
)

// extraTransition handles an auxiliary report on the caller's goroutine.
// It never takes the state lock, so hooks may raise reports synchronously
// from inside a transition.
func (n *Notifier) extraTransition(ev event.Event, enable bool) {
	n.debugLog("extra event", "event", ev.String(), "enable", enable)

	switch ev {
	case event.Overcurrent:
		if n.cfg.UnsupportHost {
			n.debugLog("overcurrent ignored, host not supported")
			return
		}
		n.reportOvercurrent()

	case event.VbusPower:
		n.store.SetBooster(enable)
		status := cable.StatusDisabled
		if enable {
			status = cable.StatusEnabled
		}
		n.recordCable(ev, status, policy.ReasonNone)

	case event.SmscOvc:
		if !enable {
			n.ovc.Stop()
			return
		}
		n.mu.Lock()
		check, data := n.ovcCheck, n.ovcData
		n.mu.Unlock()
		if check == nil {
			n.logger().Warn("overcurrent scan requested without a check", "error", ErrNoOvercurrentCheck)
			return
		}
		n.ovc.Start(check, data, n.cfg.OvcPollPeriod)

	case event.SmtdExtCurrent:
		if n.store.Snapshot().Cable != event.SmartDockTA {
			n.debugLog("no smart dock", "event", ev.String())
			return
		}
		n.battCall(ev, enable)

	case event.MmdExtCurrent:
		if n.store.Snapshot().Cable != event.MMDock {
			n.debugLog("no mmdock", "event", ev.String())
			return
		}
		n.battCall(ev, enable)

	case event.HmdExtCurrent:
		n.battCall(ev, enable)

	case event.DeviceConnect:
		if enable && n.store.MarkDevice() {
			n.notifyExternal(hal.ExternalDeviceAdd, 1)
		}
		if !enable && n.store.Snapshot().Lock.IsLocked() {
			n.DetectIllegalCondition(IllegalSecureDisconnection)
		}

	case event.GamepadConnect:
		if c := n.store.Snapshot().Cable; c == event.Host || c == event.Gamepad {
			n.notifyExternal(hal.ExternalDeviceConnect, hal.DeviceGamepad)
		}

	case event.LanhubConnect:
		if c := n.store.Snapshot().Cable; c == event.Host || c == event.Lanhub {
			n.notifyExternal(hal.ExternalDeviceConnect, hal.DeviceLanhub)
		}

	case event.ReverseBypassDeviceConnect:
		if n.hooks.ReverseBypassDrive == nil {
			return
		}
		if n.store.SwapReverseBypass(cable.ReverseBypassPrepare, cable.ReverseBypassOn) {
			n.hooks.ReverseBypassDrive(true)
			n.recordExtra(log.ExtraReverseBypass, "on")
		}

	case event.ReverseBypassDeviceAttach:
		if enable {
			n.store.SetReverseBypass(cable.ReverseBypassPrepare)
			return
		}
		n.store.SetReverseBypass(cable.ReverseBypassOff)
		if n.hooks.ReverseBypassDrive != nil {
			n.hooks.ReverseBypassDrive(false)
		}

	case event.PowerSource:
		role := cable.RoleSink
		if enable {
			role = cable.RoleSource
		}
		n.store.SetPowerRole(role)
		if enable {
			n.notifyHost(hal.HostSource)
		} else {
			n.notifyHost(hal.HostSink)
		}
		n.notifyExternal(hal.ExternalPowerRole, int(role))

	case event.PdContract:
		n.store.SetPDContract(enable)

	case event.VbusReset:
		n.notifyExternal(hal.ExternalVbusReset, 0)

	case event.ReserveBooster:
		n.store.SetReserveBooster(enable)

	case event.UsbCable:
		snap := n.store.SetCableConnected(enable)
		if snap.Mode == cable.ModePeripheral && !snap.DoingDrSwap &&
			snap.BusState == cable.BusSuspended && snap.CableConnected {
			n.chgCurrent(hal.ChargeSuspended)
		}

	case event.UsbdSuspended:
		snap, ok := n.store.SetPeripheralBusState(cable.BusSuspended, false)
		if ok && snap.CableConnected && snap.PowerRole != cable.RoleSource {
			n.chgCurrent(hal.ChargeSuspended)
		}

	case event.UsbdUnconfigured:
		n.store.SetPeripheralBusState(cable.BusUnconfigured, true)

	case event.UsbdConfigured:
		n.store.SetPeripheralBusState(cable.BusConfigured, true)

	case event.DrSwap:
		n.store.SetDrSwap(enable)
	}
}

func (n *Notifier) battCall(ev event.Event, enable bool) {
	if n.hooks.SetBattCall != nil {
		n.hooks.SetBattCall(ev, enable)
	}
}

func (n *Notifier) chgCurrent(c hal.ChargeCurrent) {
	if n.hooks.SetChgCurrent != nil {
		n.hooks.SetChgCurrent(c)
	}
}

func (n *Notifier) reportOvercurrent() {
	n.notifyHost(hal.HostOvercurrent)
	n.recordExtra(log.ExtraOvercurrent, "")
	n.metrics.OvercurrentDetected()
	n.logger().Warn("host port overcurrent")
}

// RegisterOvercurrentCheck installs the function the overcurrent scanner
// polls once SmscOvc is enabled. data is passed to every call.
func (n *Notifier) RegisterOvercurrentCheck(check ovc.CheckFunc, data any) {
	n.mu.Lock()
	n.ovcCheck = check
	n.ovcData = data
	n.mu.Unlock()
}

func (n *Notifier) overcurrentRaised() {
	n.reportOvercurrent()
}

func (n *Notifier) overcurrentCleared() {
	n.debugLog("overcurrent cleared")
	n.notifyHost(hal.HostNone)
}

// vbusEdge handles a VBUS detect edge. Losing VBUS while sourcing it with
// overcurrent reporting armed is an overcurrent.
func (n *Notifier) vbusEdge(level int) {
	if !n.store.SampleVbus(level) {
		return
	}
	if level != 0 {
		n.store.SetBooster(true)
		n.debugLog("vbus on detect")
		if n.hooks.PostVbusDetect != nil {
			n.hooks.PostVbusDetect(true)
		}
		return
	}

	snap := n.store.Snapshot()
	if snap.Mode == cable.ModeHost && snap.Booster && snap.OvercurrentNotify {
		n.reportOvercurrent()
	} else {
		n.debugLog("vbus off detect")
		if n.hooks.PostVbusDetect != nil {
			n.hooks.PostVbusDetect(false)
		}
	}
	n.store.SetBooster(false)
}
