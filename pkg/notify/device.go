package notify

import (
	"fmt"

	"github.com/usb-notify/usbnotify-go/pkg/allowlist"
	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
	"github.com/usb-notify/usbnotify-go/pkg/hal"
	"github.com/usb-notify/usbnotify-go/pkg/log"
	"github.com/usb-notify/usbnotify-go/pkg/metrics"
	"github.com/usb-notify/usbnotify-go/pkg/uevent"
	"github.com/usb-notify/usbnotify-go/pkg/usbdev"
)

// MaxAudioCards is the number of USB audio card slots tracked.
const MaxAudioCards = 15

// secureDisconnectLimit is the number of devices of one group connected
// while locked after which a disconnect restricts host mode.
const secureDisconnectLimit = 10

// AudioCard is the state of one USB audio card slot.
type AudioCard struct {
	Attached bool
	// Bundle is set when the card was registered together with its device.
	Bundle bool
}

// IllegalCondition identifies a condition that restricts host mode.
type IllegalCondition uint8

const (
	// IllegalAudioDescriptor is an audio device with an oversized
	// configuration descriptor attached while locked.
	IllegalAudioDescriptor IllegalCondition = iota
	// IllegalSecureDisconnection is a device disconnected while locked.
	IllegalSecureDisconnection
)

// String returns the condition name.
func (c IllegalCondition) String() string {
	switch c {
	case IllegalAudioDescriptor:
		return "audio_descriptor"
	case IllegalSecureDisconnection:
		return "secure_disconnection"
	default:
		return fmt.Sprintf("IllegalCondition(%d)", c)
	}
}

// CheckWhitelistClass reports whether dev passes the MDM interface-class
// allowlist. A refused device is traced and announced with a usbmdm
// uevent.
func (n *Notifier) CheckWhitelistClass(dev *usbdev.Device) bool {
	if !n.store.Snapshot().WhitelistClass {
		return true
	}
	ok, miss := allowlist.MatchClass(dev, n.lists.Lists().Class)
	if ok {
		n.debugLog("device matched class allowlist", "device", dev.ID())
		return true
	}
	n.logger().Info("device refused by class allowlist",
		"device", dev.ID(),
		"deviceClass", miss.DeviceClass,
		"interfaceClass", miss.InterfaceClass)
	n.record(log.Event{
		Category: log.CategoryPortClassBlock,
		PortClassBlock: &log.PortClassBlockEvent{
			DeviceClass:    miss.DeviceClass,
			InterfaceClass: miss.InterfaceClass,
		},
	})
	n.emit(uevent.MDMMessage())
	return false
}

// CheckWhitelistID reports whether dev passes the MDM vendor/product
// allowlist.
func (n *Notifier) CheckWhitelistID(dev *usbdev.Device) bool {
	if !n.store.Snapshot().WhitelistID {
		return true
	}
	ok := allowlist.MatchDeviceID(dev, n.lists.Lists().ID)
	n.debugLog("id allowlist", "device", dev.ID(), "allowed", ok)
	return ok
}

// CheckWhitelistSerial reports whether dev passes the MDM serial
// allowlist. A device without a serial number never matches.
func (n *Notifier) CheckWhitelistSerial(dev *usbdev.Device) bool {
	if !n.store.Snapshot().WhitelistSerial {
		return true
	}
	ok := allowlist.MatchSerial(dev.Serial, n.lists.Lists().Serial)
	n.debugLog("serial allowlist", "device", dev.ID(), "allowed", ok)
	return ok
}

// WhitelistEnableState reports which of the id and serial allowlists are
// enforced.
func (n *Notifier) WhitelistEnableState() cable.WhitelistMode {
	return n.store.Snapshot().WhitelistMode()
}

// CheckAllowlistLockscreen reports whether dev may enumerate while the
// lockscreen restricts USB. Every refused device is counted until
// DisconnectUnauthorizedDevice releases it.
func (n *Notifier) CheckAllowlistLockscreen(dev *usbdev.Device) bool {
	if n.store.Snapshot().Lock != cable.LockRestricted {
		return true
	}
	if allowlist.MatchDeviceID(dev, n.lists.Lists().Lockscreen) {
		n.debugLog("device matched lockscreen allowlist", "device", dev.ID())
		return true
	}

	g := n.store.Lock()
	count := n.store.BumpAllowlistRestricted(g)
	g.Unlock()

	n.logger().Info("device refused while locked", "device", dev.ID(), "refused", count)
	n.emitRestrict(uevent.TimeSecureRestricted)
	return false
}

// DisconnectUnauthorizedDevice releases one device refused by the
// lockscreen allowlist. The last release sends securerelease.
func (n *Notifier) DisconnectUnauthorizedDevice() {
	g := n.store.Lock()
	if n.store.Snapshot().AllowlistRestricted == 0 {
		g.Unlock()
		return
	}
	count := n.store.DropAllowlistRestricted(g)
	g.Unlock()

	n.debugLog("refused device disconnected", "refused", count)
	if count == 0 {
		n.emitRestrict(uevent.SecureRelease)
	}
}

// CheckUSBGroup counts dev in its secure-connection group while the
// lockscreen is not unlocked.
func (n *Notifier) CheckUSBGroup(dev *usbdev.Device) {
	if dev.RootHub || dev.Active == nil {
		return
	}

	g := n.store.Lock()
	defer g.Unlock()
	if n.store.Snapshot().Lock == cable.LockUnlocked {
		return
	}
	grp := cable.GroupOther
	if allowlist.IsAudio(dev) {
		grp = cable.GroupAudio
	}
	count := n.store.BumpSecureGroup(g, grp)
	n.debugLog("secure connection", "device", dev.ID(), "group", grp.String(), "count", count)
}

// CheckUSBAudio refuses an audio device whose configuration descriptor is
// oversized while the lockscreen is not unlocked, restricting host mode.
func (n *Notifier) CheckUSBAudio(dev *usbdev.Device) error {
	if n.store.Snapshot().Lock == cable.LockUnlocked || dev.Active == nil {
		return nil
	}
	if !allowlist.HasOversizedAudioDescriptor(dev) {
		return nil
	}
	n.logger().Warn("oversized audio descriptor while locked",
		"device", dev.ID(), "totalLength", dev.Active.TotalLength)
	n.DetectIllegalCondition(IllegalAudioDescriptor)
	return fmt.Errorf("%w: %s audio descriptor %d bytes",
		ErrUnauthorizedDevice, dev.ID(), dev.Active.TotalLength)
}

// IsKnownUSBAudio reports whether dev is a known audio accessory.
func (n *Notifier) IsKnownUSBAudio(dev *usbdev.Device) bool {
	return allowlist.IsKnownAudio(dev)
}

// IsUSBHub reports whether the active configuration of dev has a hub
// interface.
func (n *Notifier) IsUSBHub(dev *usbdev.Device) bool {
	return allowlist.IsHub(dev)
}

// CheckNewDeviceAdded gates enumeration of dev while a reverse bypass
// device sits on the same root hub. ports are the devices attached to the
// root hub ports. ErrReverseBypassPending means enumeration must wait until
// reverse bypass power is on; a staged bypass is switched on before
// returning.
func (n *Notifier) CheckNewDeviceAdded(dev *usbdev.Device, ports []*usbdev.Device) error {
	if !n.cfg.SupportReverseBypass || dev.RootHub {
		return nil
	}
	for _, p := range ports {
		if p == nil || !allowlist.IsReverseBypassDevice(p) {
			continue
		}
		switch rb := n.store.Snapshot().ReverseBypass; rb {
		case cable.ReverseBypassOff:
			return fmt.Errorf("%w: %s", ErrReverseBypassPending, rb)
		case cable.ReverseBypassPrepare:
			n.hwParam(metrics.HWParamReverseBypass)
			if err := n.Request(event.ReverseBypassDeviceConnect, true); err != nil {
				n.logger().Warn("reverse bypass not switched on", "error", err)
			}
			return fmt.Errorf("%w: %s", ErrReverseBypassPending, rb)
		default:
			return nil
		}
	}
	return nil
}

// SetConDevHub records a hub connected at speed.
func (n *Notifier) SetConDevHub(speed usbdev.Speed, conn bool) {
	var superSpeed bool
	switch {
	case speed.IsSuperSpeed():
		superSpeed = true
	case speed == usbdev.SpeedUnknown || speed == usbdev.SpeedWireless:
		return
	}

	g := n.store.Lock()
	n.store.SetHub(g, superSpeed, conn)
	g.Unlock()
	n.debugLog("hub", "speed", speed.String(), "connected", conn)
}

// SetConDevMaxSpeed records the maximum speed of the connected device.
func (n *Notifier) SetConDevMaxSpeed(speed int) {
	n.store.SetMaxSpeed(speed)
}

// ConDevMaxSpeed returns the maximum speed of the connected device.
func (n *Notifier) ConDevMaxSpeed() int {
	return n.store.Snapshot().MaxSpeed
}

// DetectIllegalCondition evaluates kind and, when it warrants it, restricts
// host mode until the lockscreen is unlocked. It reports whether host mode
// was restricted.
func (n *Notifier) DetectIllegalCondition(kind IllegalCondition) bool {
	var restricted bool
	switch kind {
	case IllegalAudioDescriptor:
		n.hwParam(metrics.HWParamOverAudioDescriptor)
		restricted = true
	case IllegalSecureDisconnection:
		for _, c := range n.store.Snapshot().SecureGroups {
			if c >= secureDisconnectLimit {
				restricted = true
				break
			}
		}
	}
	n.debugLog("illegal condition", "condition", kind.String(), "restricted", restricted)
	if !restricted {
		return false
	}

	n.store.SetRestricted(true)
	snap := n.store.Snapshot()

	n.hwParam(metrics.HWParamSecureBlock)
	n.recordExtra(log.ExtraRestricted, kind.String())
	n.logger().Warn("host mode restricted", "condition", kind.String())

	if snap.HostCableEnabled() {
		if err := n.Request(snap.Cable.Virtual(), false); err != nil {
			n.logger().Warn("restricted host cable not disabled", "cable", snap.Cable.String(), "error", err)
		}
	}
	n.notifyExternal(hal.ExternalHostBlockPre, 1)
	n.notifyExternal(hal.ExternalHostBlockPost, 1)
	return true
}

// RestartAccessory power cycles the attached accessory.
func (n *Notifier) RestartAccessory() error {
	return n.Request(event.VbusReset, false)
}

// SetUSBAudioCard records an audio card slot. Detaching clears the bundle
// flag as well.
func (n *Notifier) SetUSBAudioCard(card int, bundle, attach bool) error {
	if card < 0 || card >= MaxAudioCards {
		return fmt.Errorf("%w: %d", ErrAudioCardRange, card)
	}
	n.mu.Lock()
	if attach {
		n.audioCards[card].Attached = true
		if bundle {
			n.audioCards[card].Bundle = true
		}
	} else {
		n.audioCards[card] = AudioCard{}
	}
	n.mu.Unlock()
	n.debugLog("audio card", "card", card, "bundle", bundle, "attach", attach)
	return nil
}

// USBAudioCard returns the state of an audio card slot.
func (n *Notifier) USBAudioCard(card int) (AudioCard, error) {
	if card < 0 || card >= MaxAudioCards {
		return AudioCard{}, fmt.Errorf("%w: %d", ErrAudioCardRange, card)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.audioCards[card], nil
}

// SendAudioUevent announces a known audio accessory and records its card
// as bundled with it. Other devices are ignored.
func (n *Notifier) SendAudioUevent(dev *usbdev.Device, card int, attach bool) error {
	if !allowlist.IsKnownAudio(dev) {
		return nil
	}
	if err := n.SetUSBAudioCard(card, true, attach); err != nil {
		return err
	}
	n.emit(uevent.AudioMessage(dev, card, attach))
	return nil
}

// SendCertiUevent reports a certification failure. Warm-reset reports are
// rate limited and return uevent.ErrRateLimited when dropped.
func (n *Notifier) SendCertiUevent(c uevent.Certi) error {
	if err := n.emitCerti(c); err != nil {
		return fmt.Errorf("notify: certi uevent: %w", err)
	}
	return nil
}

// SendErrUevent raises or clears the abnormal gadget reset uevent.
func (n *Notifier) SendErrUevent(add bool) {
	if add {
		n.hwParam(metrics.HWParamAbnormalResetPopup)
	}
	n.emit(uevent.AbnormalResetMessage(add))
}

// SendTrackerUevent reports a CC interrupt storm.
func (n *Notifier) SendTrackerUevent() {
	n.emit(uevent.RepeatCCIRQMessage())
}
