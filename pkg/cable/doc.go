// Package cable holds the authoritative state of the USB connector: the
// current cable and its status, the controller role, the gadget bus state,
// the disable bitmask, the lockscreen state and the restriction counters.
//
// # Lock Discipline
//
// Transitions hold the store's state lock for their full duration. The lock
// is taken with Lock, which returns a Guard; every mutator of a
// transition-owned field takes that Guard and panics if the caller does not
// hold it:
//
//	g := store.Lock()
//	defer g.Unlock()
//	store.SetCable(g, event.Host, cable.StatusEnabling)
//
// Snapshot reads never wait for a transition, so observers can see a
// starting status (Enabling, Blocking, Disabling) while side effects run.
//
// # Status Lifecycle
//
// A status is either starting or settled. Every transition passes through
// the starting form before it settles:
//
//	Enabling  -> Enabled
//	Blocking  -> Blocked
//	Disabling -> Disabled
package cable
