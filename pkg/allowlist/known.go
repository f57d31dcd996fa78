package allowlist

import "github.com/usb-notify/usbnotify-go/pkg/usbdev"

// DeviceID is a vendor/product pair.
type DeviceID struct {
	Vendor  uint16
	Product uint16
}

// Matches reports whether dev has this identity.
func (id DeviceID) Matches(dev *usbdev.Device) bool {
	return dev.VendorID == id.Vendor && dev.ProductID == id.Product
}

const samsungVendor = 0x04e8

// MaxAudioDescriptorLength is the largest configuration descriptor an
// audio device may present while the device is locked.
const MaxAudioDescriptorLength = 2048

var knownAudioDevices = []DeviceID{
	{samsungVendor, 0xa051},
	{samsungVendor, 0xa054},
	{samsungVendor, 0xa05b},
	{samsungVendor, 0xa058},
	{samsungVendor, 0xa057},
	{samsungVendor, 0xa059},
	{samsungVendor, 0xa05e},
}

var reverseBypassDevices = []DeviceID{
	{samsungVendor, 0xa051},
}

func matchTable(dev *usbdev.Device, table []DeviceID) bool {
	for _, id := range table {
		if id.Matches(dev) {
			return true
		}
	}
	return false
}

// IsKnownAudio reports whether dev is a known audio accessory, either by
// identity or by its descriptor layout.
func IsKnownAudio(dev *usbdev.Device) bool {
	return matchTable(dev, knownAudioDevices) || isAudioAccessory(dev)
}

// IsReverseBypassDevice reports whether dev supports reverse bypass power.
func IsReverseBypassDevice(dev *usbdev.Device) bool {
	return matchTable(dev, reverseBypassDevices)
}

// isAudioAccessory recognizes a vendor headset by its active configuration:
// exactly one audio control interface, one playback and one capture
// streaming interface, each streaming interface using a single endpoint
// address across its altsettings.
func isAudioAccessory(dev *usbdev.Device) bool {
	if dev.VendorID != samsungVendor || dev.Active == nil {
		return false
	}

	var control, playback, capture int
	for _, intf := range dev.Active.Interfaces {
		cur, ok := intf.CurrentAltSetting()
		if !ok || cur.Class != usbdev.ClassAudio {
			continue
		}
		if cur.SubClass == usbdev.SubClassAudioControl {
			control++
		}
		if cur.SubClass != usbdev.SubClassAudioStreaming && cur.SubClass != usbdev.ClassVendor {
			continue
		}

		var in, out uint8
		for _, alt := range intf.AltSettings {
			if len(alt.Endpoints) == 0 {
				continue
			}
			// A second endpoint is the feedback endpoint.
			ep := alt.Endpoints[0]
			if ep.IsIn() {
				if in == 0 {
					in = ep.Address
				} else if in != ep.Address {
					return false
				}
			} else {
				if out == 0 {
					out = ep.Address
				} else if out != ep.Address {
					return false
				}
			}
		}
		switch {
		case out != 0:
			playback++
		case in != 0:
			capture++
		default:
			return false
		}
	}
	return control == 1 && playback == 1 && capture == 1
}

// HasOversizedAudioDescriptor reports whether dev exposes an audio
// interface in a configuration longer than MaxAudioDescriptorLength.
func HasOversizedAudioDescriptor(dev *usbdev.Device) bool {
	if dev.Active == nil || dev.Active.TotalLength <= MaxAudioDescriptorLength {
		return false
	}
	return dev.HasActiveClass(usbdev.ClassAudio)
}

// IsHub reports whether the active configuration exposes a hub interface.
func IsHub(dev *usbdev.Device) bool {
	return dev.HasActiveClass(usbdev.ClassHub)
}

// IsAudio reports whether the active configuration exposes an audio
// interface.
func IsAudio(dev *usbdev.Device) bool {
	return dev.HasActiveClass(usbdev.ClassAudio)
}
