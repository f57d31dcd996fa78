// Package uevent builds the key/value notifications the notifier raises
// toward user space and sends them through a platform Sender.
//
// Every message carries TYPE and STATE keys and usually a WORDS key:
//
//	TYPE=usbrestrict
//	STATE=ADD
//	WORDS=securerestrict
//
// Delivery is fire-and-forget: failures are logged, never retried.
package uevent
