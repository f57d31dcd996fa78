// Package event defines the USB cable/role events handled by the notifier
// and their behavioral classification.
//
// # Events
//
// An Event identifies what was attached, detached or reported on the USB
// connector: a cable type (Vbus, Host, Charger, docks), a control request
// (AllDisable, MdmOnOff) or an auxiliary report (Overcurrent, PowerSource).
// Every event can be tagged as virtual. A virtual event is a synthetic
// re-delivery of the same physical event, used to re-apply an enable or
// disable without a new hardware detection:
//
//	e := event.Host.Virtual()
//	e.IsVirtual() // true
//	e.Base()      // event.Host
//
// # Classification
//
// Classify maps an event to a Capabilities set. The result depends only on
// the base event, never on runtime state:
//
//	caps := event.Classify(event.Host)
//	caps.Has(event.CapState)    // true: handled by the serial worker
//	caps.Has(event.CapNeedHost) // true: blocked when host is disabled
//
// Events classified CapExtra run synchronously on the caller's goroutine.
// Events classified CapState are serialized through a single worker.
package event
