// Package usbdev describes an enumerated USB device as seen by the host
// stack: identity, configurations and the interfaces they expose.
//
// Only the fields the allowlist matchers and secure-connection counters
// consult are modelled. Descriptors are plain values so that the
// enumeration collaborator can fill them from whatever source it has.
package usbdev

import "fmt"

// USB class codes.
const (
	ClassPerInterface = 0x00 // Class defined at interface level
	ClassAudio        = 0x01 // Audio class
	ClassCDC          = 0x02 // Communications Device Class
	ClassHID          = 0x03 // Human Interface Device
	ClassPhysical     = 0x05 // Physical
	ClassImage        = 0x06 // Still Imaging
	ClassPrinter      = 0x07 // Printer
	ClassMassStorage  = 0x08 // Mass Storage
	ClassHub          = 0x09 // Hub
	ClassCDCData      = 0x0A // CDC-Data
	ClassSmartCard    = 0x0B // Smart Card
	ClassContentSec   = 0x0D // Content Security
	ClassVideo        = 0x0E // Video
	ClassWireless     = 0xE0 // Wireless Controller
	ClassMisc         = 0xEF // Miscellaneous
	ClassAppSpecific  = 0xFE // Application Specific
	ClassVendor       = 0xFF // Vendor Specific
)

// Audio interface subclasses.
const (
	SubClassAudioControl   = 0x01
	SubClassAudioStreaming = 0x02
)

// Speed is the negotiated bus speed of a device.
type Speed uint8

const (
	SpeedUnknown Speed = iota
	SpeedLow
	SpeedFull
	SpeedHigh
	SpeedWireless
	SpeedSuper
	SpeedSuperPlus
)

// String returns the speed name.
func (s Speed) String() string {
	switch s {
	case SpeedLow:
		return "LOW"
	case SpeedFull:
		return "FULL"
	case SpeedHigh:
		return "HIGH"
	case SpeedWireless:
		return "WIRELESS"
	case SpeedSuper:
		return "SUPER"
	case SpeedSuperPlus:
		return "SUPER_PLUS"
	default:
		return "UNKNOWN"
	}
}

// IsSuperSpeed reports whether s is SuperSpeed or faster.
func (s Speed) IsSuperSpeed() bool {
	return s >= SpeedSuper
}

// Endpoint is an endpoint of an alternate setting.
type Endpoint struct {
	Address uint8
}

// IsIn reports whether the endpoint direction is device-to-host.
func (e Endpoint) IsIn() bool {
	return e.Address&0x80 != 0
}

// AltSetting is one alternate setting of an interface.
type AltSetting struct {
	Class     uint8
	SubClass  uint8
	Endpoints []Endpoint
}

// Interface is a configuration interface with its alternate settings.
type Interface struct {
	AltSettings []AltSetting
	// Current indexes the selected alternate setting.
	Current int
}

// CurrentAltSetting returns the selected alternate setting.
func (i Interface) CurrentAltSetting() (AltSetting, bool) {
	if i.Current < 0 || i.Current >= len(i.AltSettings) {
		return AltSetting{}, false
	}
	return i.AltSettings[i.Current], true
}

// Config is a device configuration.
type Config struct {
	// TotalLength is wTotalLength of the configuration descriptor.
	TotalLength uint16
	Interfaces  []Interface
}

// Device is an enumerated USB device.
type Device struct {
	VendorID  uint16
	ProductID uint16
	Class     uint8

	// Serial is the serial number string; empty means the device has none.
	Serial string

	// RootHub is set for a root hub, which has no parent.
	RootHub bool

	Speed  Speed
	BusNum int
	DevNum int

	Configs []Config
	// Active is the configuration selected by SET_CONFIGURATION, nil until then.
	Active *Config
}

// ID returns the device identity as "vvvv:pppp".
func (d *Device) ID() string {
	return fmt.Sprintf("%04x:%04x", d.VendorID, d.ProductID)
}

// ActiveAltSettings returns the current alternate setting of every
// interface of the active configuration.
func (d *Device) ActiveAltSettings() []AltSetting {
	if d.Active == nil {
		return nil
	}
	alts := make([]AltSetting, 0, len(d.Active.Interfaces))
	for _, intf := range d.Active.Interfaces {
		if alt, ok := intf.CurrentAltSetting(); ok {
			alts = append(alts, alt)
		}
	}
	return alts
}

// HasActiveClass reports whether any interface of the active configuration
// currently selects class.
func (d *Device) HasActiveClass(class uint8) bool {
	for _, alt := range d.ActiveAltSettings() {
		if alt.Class == class {
			return true
		}
	}
	return false
}
