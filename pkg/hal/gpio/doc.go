// Package gpio adapts Linux GPIO character-device lines to the hal line
// interfaces: the redriver enable output and the VBUS detect input.
package gpio
