// Package notify provides the USB cable and role notification core.
//
// A Notifier receives cable, control and report events from the charger,
// Type-C and gadget drivers and turns them into controller role changes,
// VBUS drive requests and notifications for the rest of the platform:
//
// # Events
//
// Every event passed to Request is classified first:
//   - Report events (overcurrent, power role, gadget bus state) are
//     handled synchronously on the caller's goroutine.
//   - Cable and control events are queued for a single worker and applied
//     one at a time, so hooks always see transitions in arrival order.
//   - While the boot gate is closed, boot-delayed cables are parked in a
//     one-event reservation slot and replayed once the platform is ready.
//
// Example usage:
//
//	cfg := notify.DefaultConfig()
//	cfg.Logger = slog.Default()
//
//	n, err := notify.New(cfg, notify.Collaborators{
//		Hooks:    hooks,
//		External: external,
//		Uevents:  uevent.SenderFunc(send),
//	})
//	if err != nil {
//		return err
//	}
//	defer n.Close()
//
//	n.Request(event.Host, true)
//
// # Policy
//
// The disable bitmask, the lockscreen state and the MDM allowlists decide
// whether a cable is applied, recorded as blocked or dropped. Blocked host
// cables are replayed when their role is unblocked again.
//
// # Device checks
//
// The enumeration collaborator calls the Check* methods for every new
// device and honours their answers; they count refused devices and may
// restrict host mode until the lockscreen is unlocked.
package notify
