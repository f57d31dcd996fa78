package notify

import (
	"errors"
	"time"

	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
	"github.com/usb-notify/usbnotify-go/pkg/hal"
	"github.com/usb-notify/usbnotify-go/pkg/log"
	"github.com/usb-notify/usbnotify-go/pkg/metrics"
	"github.com/usb-notify/usbnotify-go/pkg/policy"
	"github.com/usb-notify/usbnotify-go/pkg/uevent"
)

func (n *Notifier) record(e log.Event) {
	e.Timestamp = time.Now()
	e.SessionID = n.sessionID
	n.telemetry.Log(e)
}

// Trace returns the events of the telemetry trace file matching f, oldest
// first. It fails with ErrNoTraceFile unless Config.TelemetryPath is set.
func (n *Notifier) Trace(f log.Filter) ([]log.Event, error) {
	if n.trace == nil {
		return nil, ErrNoTraceFile
	}
	return n.trace.Read(f)
}

func (n *Notifier) recordCable(ev event.Event, status cable.Status, reason policy.Reason) {
	c := &log.CableEvent{
		Event:   ev.Base().String(),
		Status:  status.String(),
		Virtual: ev.IsVirtual(),
	}
	if reason != policy.ReasonNone {
		c.Reason = reason.String()
	}
	n.record(log.Event{Category: log.CategoryCable, Cable: c})
}

func (n *Notifier) recordExtra(kind log.ExtraKind, detail string) {
	n.record(log.Event{
		Category: log.CategoryExtra,
		Extra:    &log.ExtraEvent{Kind: kind, Detail: detail},
	})
}

func (n *Notifier) recordControl(name, value string, rejected bool) {
	n.record(log.Event{
		Category: log.CategoryControl,
		Control:  &log.ControlEvent{Name: name, Value: value, Rejected: rejected},
	})
}

func (n *Notifier) recordError(err error, context string) {
	n.record(log.Event{
		Category: log.CategoryError,
		Error:    &log.ErrorEventData{Message: err.Error(), Context: context},
	})
}

// emit sends a uevent and counts it.
func (n *Notifier) emit(m uevent.Message) {
	if err := n.uevents.Emit(m); err != nil {
		n.recordError(err, "uevent "+string(m.Type))
		return
	}
	n.metrics.Uevent(string(m.Type), m.Words)
}

func (n *Notifier) emitRestrict(r uevent.Restrict) {
	m, err := uevent.RestrictMessage(r)
	if err != nil {
		n.logger().Error("restrict uevent", "error", err)
		return
	}
	n.emit(m)
}

func (n *Notifier) emitCerti(c uevent.Certi) error {
	m, err := n.uevents.EmitCerti(c)
	switch {
	case errors.Is(err, uevent.ErrRateLimited):
		n.metrics.UeventLimited()
		n.debugLog("certi uevent rate limited", "uevent", m.String())
		return err
	case err != nil:
		return err
	}
	n.metrics.Uevent(string(m.Type), m.Words)
	return nil
}

func (n *Notifier) hwParam(p metrics.HWParam) {
	n.metrics.IncHWParam(p)
	n.debugLog("hw param", "param", string(p))
}

func (n *Notifier) notifyExternal(e hal.External, data int) {
	if n.external == nil {
		return
	}
	n.debugLog("external notify", "notify", e.String(), "data", data)
	n.external.Notify(e, data)
}

// notifyHost reports a host-class state. Boards without host mode have no
// host-state sink.
func (n *Notifier) notifyHost(s hal.HostState) {
	if n.hostState == nil || n.cfg.UnsupportHost {
		return
	}
	n.debugLog("host state", "state", s.String())
	n.hostState.HostState(s)
}

func (n *Notifier) setHost(on bool) {
	if n.hooks.SetHost != nil {
		n.hooks.SetHost(on)
	}
}

func (n *Notifier) vbusDrive(on bool) {
	if n.hooks.VbusDrive != nil {
		n.hooks.VbusDrive(on)
	}
}

func (n *Notifier) setRedriver(level int) {
	if n.redriver == nil {
		return
	}
	if err := n.redriver.SetValue(level); err != nil {
		n.logger().Warn("redriver enable failed", "level", level, "error", err)
		n.recordError(err, "redriver")
	}
}

func (n *Notifier) stayAwake() {
	if n.cfg.WakeLock && n.hooks.StayAwake != nil {
		n.hooks.StayAwake()
	}
}

func (n *Notifier) relax() {
	if n.cfg.WakeLock && n.hooks.Relax != nil {
		n.hooks.Relax()
	}
}
