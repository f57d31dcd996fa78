// Package devcheck schedules the delayed check that runs after a host-side
// cable is enabled and reports when no device enumerated in time.
//
// Cancel is synchronous: it waits for an expiry callback that is already
// running, which lets a cable teardown guarantee that no stale expiry
// lands after it.
package devcheck
