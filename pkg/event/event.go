package event

// Event identifies a cable, control or report event. The high bit tags a
// virtual (replayed) event; the remaining bits hold the base event.
type Event uint16

// VirtualBit tags an event as a virtual replay of its base event.
const VirtualBit Event = 1 << 15

// Cable and control events.
const (
	None Event = iota
	Vbus
	Host
	Charger
	SmartDockTA
	SmartDockUSB
	AudioDock
	Lanhub
	LanhubTA
	MMDock
	Hmt
	Gamepad
	Pogo
	HostReload
	DriveVbus
	AllDisable
	HostDisable
	ClientDisable
	MdmOnOff
	MdmOnOffForID
	MdmOnOffForSerial

	// Auxiliary reports, classified CapExtra.
	Overcurrent
	SmscOvc
	SmtdExtCurrent
	MmdExtCurrent
	HmdExtCurrent
	DeviceConnect
	GamepadConnect
	LanhubConnect
	PowerSource
	PdContract
	VbusReset
	ReserveBooster
	UsbCable
	UsbdSuspended
	UsbdUnconfigured
	UsbdConfigured
	DrSwap
	ReverseBypassDeviceConnect
	ReverseBypassDeviceAttach

	// VbusPower must stay last: it bounds the valid range.
	VbusPower
)

// Base returns the event with the virtual tag removed.
func (e Event) Base() Event {
	return e &^ VirtualBit
}

// IsVirtual reports whether e is tagged as a virtual replay.
func (e Event) IsVirtual() bool {
	return e&VirtualBit != 0
}

// Virtual returns e tagged as a virtual replay.
func (e Event) Virtual() Event {
	return e | VirtualBit
}

// Valid reports whether the base event is inside the known range.
func (e Event) Valid() bool {
	return e.Base() <= VbusPower
}

var names = map[Event]string{
	None:                       "none",
	Vbus:                       "vbus",
	Host:                       "host_id",
	Charger:                    "charger",
	SmartDockTA:                "smartdock_ta",
	SmartDockUSB:               "smartdock_usb",
	AudioDock:                  "audiodock",
	Lanhub:                     "lanhub",
	LanhubTA:                   "lanhub_ta",
	MMDock:                     "mmdock",
	Hmt:                        "hmt",
	Gamepad:                    "gamepad",
	Pogo:                       "pogo",
	HostReload:                 "host_reload",
	DriveVbus:                  "drive_vbus",
	AllDisable:                 "disable_all_notify",
	HostDisable:                "disable_host_notify",
	ClientDisable:              "disable_client_notify",
	MdmOnOff:                   "mdm control_notify",
	MdmOnOffForID:              "mdm control_notify_for_id",
	MdmOnOffForSerial:          "mdm control_notify_for_serial",
	Overcurrent:                "overcurrent",
	SmscOvc:                    "smsc_ovc",
	SmtdExtCurrent:             "smtd_ext_current",
	MmdExtCurrent:              "mmd_ext_current",
	HmdExtCurrent:              "hmd_ext_current",
	DeviceConnect:              "device_connect",
	GamepadConnect:             "gamepad_connect",
	LanhubConnect:              "lanhub_connect",
	PowerSource:                "power_role_source",
	PdContract:                 "pd_contract",
	VbusReset:                  "host_accessory_restart",
	ReserveBooster:             "reserve_booster",
	UsbCable:                   "usb_cable",
	UsbdSuspended:              "usb_d_suspended",
	UsbdUnconfigured:           "usb_d_unconfigured",
	UsbdConfigured:             "usb_d_configured",
	DrSwap:                     "dr_swap",
	ReverseBypassDeviceConnect: "reverse_bypass_device_connect",
	ReverseBypassDeviceAttach:  "reverse_bypass_device_attach",
	VbusPower:                  "vbus_power",
}

// String returns the event name. Cable events tagged virtual carry a
// "(virtual)" suffix.
func (e Event) String() string {
	base := e.Base()
	name, ok := names[base]
	if !ok {
		return "undefined"
	}
	if e.IsVirtual() && base.isCable() {
		return name + "(virtual)"
	}
	return name
}

// isCable reports whether the event names an attached cable type, as
// opposed to a control request or auxiliary report.
func (e Event) isCable() bool {
	return e >= Vbus && e <= HostReload
}
