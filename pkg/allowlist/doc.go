// Package allowlist matches enumerated USB devices against the MDM
// allowlists and recognizes the accessories the notifier treats specially.
//
// There are three independent matchers:
//
//   - MatchClass: every interface of every configuration must have an
//     allowed class; the first refused interface fails the match.
//   - MatchID: a flat list of alternating vendor and product ids, ended by
//     a zero vendor or MaxIDEntries.
//   - MatchSerial: a colon-separated list of serial numbers.
//
// Matchers are pure. Whether a matcher is consulted at all is decided by the
// caller; a disabled matcher allows every device.
package allowlist
