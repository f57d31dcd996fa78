// Package policy decides whether a cable event may run.
//
// Decide is pure: it sees only the capability set of the event and the
// parts of the cable state that gate it (disable bits, host support,
// restriction, boot gate). Status turns a decision into the starting and
// settled status of the two-phase transition:
//
//	start := policy.Status(enable, virtual, blocked, policy.PhaseStart)
//	// side effects
//	final := policy.Status(enable, virtual, blocked, policy.PhaseCommit)
//
// A block handler may veto recording a blocked event by returning
// ErrDoNotRecord.
package policy
