package hal

import (
	"github.com/usb-notify/usbnotify-go/pkg/event"
)

// Hooks are the hardware control callbacks supplied by the platform. Every
// hook is optional; a nil hook is skipped and the transition continues.
type Hooks struct {
	// SetHost enables or disables the host controller.
	SetHost func(on bool)

	// SetPeripheral enables or disables the peripheral (gadget) controller.
	SetPeripheral func(on bool)

	// SetCharger reports a charger attach or detach.
	SetCharger func(on bool)

	// VbusDrive switches the VBUS booster.
	VbusDrive func(on bool)

	// ReverseBypassDrive switches reverse bypass power.
	ReverseBypassDrive func(on bool)

	// SetLanhubTA reports a LAN hub charger attach or detach.
	SetLanhubTA func(on bool)

	// SetBattCall forwards a dock external-current report to the battery
	// driver.
	SetBattCall func(ev event.Event, on bool)

	// SetChgCurrent selects the charge current for a gadget bus state.
	SetChgCurrent func(c ChargeCurrent)

	// UsbMaximumSpeed limits the controller speed.
	UsbMaximumSpeed func(speed int) error

	// PostVbusDetect reports a VBUS detect edge after it was handled.
	PostVbusDetect func(on bool)

	// StayAwake and Relax hold and release the wake lock.
	StayAwake func()
	Relax     func()
}

// ChargeCurrent selects a charge current profile.
type ChargeCurrent uint8

const (
	// ChargeConfigured is the current for a configured gadget.
	ChargeConfigured ChargeCurrent = iota
	// ChargeSuspended is the current for a suspended bus.
	ChargeSuspended
)

// String returns the profile name.
func (c ChargeCurrent) String() string {
	switch c {
	case ChargeConfigured:
		return "CONFIGURED"
	case ChargeSuspended:
		return "SUSPENDED"
	default:
		return "UNKNOWN"
	}
}

// HostState is a host-class state reported to the host-state sink.
type HostState uint8

const (
	HostNone HostState = iota
	HostAdd
	HostRemove
	HostOvercurrent
	HostBlock
	HostSource
	HostSink
)

// String returns the host state name.
func (h HostState) String() string {
	switch h {
	case HostNone:
		return "NONE"
	case HostAdd:
		return "ADD"
	case HostRemove:
		return "REMOVE"
	case HostOvercurrent:
		return "OVERCURRENT"
	case HostBlock:
		return "BLOCK"
	case HostSource:
		return "SOURCE"
	case HostSink:
		return "SINK"
	default:
		return "UNKNOWN"
	}
}

// HostStateSink receives host-class state changes.
type HostStateSink interface {
	HostState(s HostState)
}

// External identifies a notification sent to external listeners.
type External uint8

const (
	ExternalHostBlockEarly External = iota
	ExternalHostBlockPre
	ExternalHostBlockPost
	ExternalMDMBlockPre
	ExternalMDMBlockPost
	ExternalDeviceAdd
	ExternalPossibleUSB
	ExternalNoDevice
	ExternalPowerRole
	ExternalVbusReset
	ExternalDeviceConnect
)

// Device kinds carried by ExternalDeviceConnect.
const (
	DeviceGamepad = 1
	DeviceLanhub  = 2
)

// String returns the notification name.
func (e External) String() string {
	switch e {
	case ExternalHostBlockEarly:
		return "HOSTBLOCK_EARLY"
	case ExternalHostBlockPre:
		return "HOSTBLOCK_PRE"
	case ExternalHostBlockPost:
		return "HOSTBLOCK_POST"
	case ExternalMDMBlockPre:
		return "MDMBLOCK_PRE"
	case ExternalMDMBlockPost:
		return "MDMBLOCK_POST"
	case ExternalDeviceAdd:
		return "DEVICEADD"
	case ExternalPossibleUSB:
		return "POSSIBLE_USB"
	case ExternalNoDevice:
		return "3S_NODEVICE"
	case ExternalPowerRole:
		return "POWERROLE"
	case ExternalVbusReset:
		return "VBUS_RESET"
	case ExternalDeviceConnect:
		return "DEVICE_CONNECT"
	default:
		return "UNKNOWN"
	}
}

// ExternalNotifier delivers notifications to drivers outside the notifier
// (typec manager, charger, audio).
type ExternalNotifier interface {
	Notify(n External, data int)
}

// OutputLine is a GPIO output such as the redriver enable.
type OutputLine interface {
	SetValue(value int) error
	Close() error
}

// InputLine is a GPIO input with edge reporting such as VBUS detect.
type InputLine interface {
	Value() (int, error)

	// Watch installs the edge handler. It replaces any previous handler.
	Watch(fn func(level int)) error

	Close() error
}
