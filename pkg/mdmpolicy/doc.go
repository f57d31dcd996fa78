// Package mdmpolicy loads the MDM allowlist policy from a YAML file and
// applies it to the notifier.
//
// A policy looks like:
//
//	class:
//	  enabled: true
//	  classes: ["03", "08"]
//	id:
//	  enabled: false
//	  devices: ["04e8:a051"]
//	serial:
//	  enabled: false
//	  serials: ["R58M12345"]
//	lockscreen_allowlist: ["04e8:a051"]
//
// A Watcher re-applies the file when it changes.
package mdmpolicy
