package uevent

import (
	"fmt"
	"strings"

	"github.com/usb-notify/usbnotify-go/pkg/usbdev"
)

// Type is the TYPE key of a uevent.
type Type string

const (
	TypeRestrict Type = "usbrestrict"
	TypeMDM      Type = "usbmdm"
	TypeCerti    Type = "usbcerti"
	TypeErr      Type = "usberr"
	TypeTracker  Type = "usbtracker"
	TypeAudio    Type = "usbaudio"
)

// State is the STATE key of a uevent.
type State string

const (
	StateAdd    State = "ADD"
	StateRemove State = "REMOVE"
)

// Message is a single uevent.
type Message struct {
	Type  Type
	State State
	// Words is the WORDS key; empty omits it.
	Words string
	// Extra holds further KEY=value pairs in order.
	Extra []string
}

// Env returns the environment strings of the uevent.
func (m Message) Env() []string {
	env := make([]string, 0, 3+len(m.Extra))
	env = append(env, "TYPE="+string(m.Type), "STATE="+string(m.State))
	if m.Words != "" {
		env = append(env, "WORDS="+m.Words)
	}
	return append(env, m.Extra...)
}

// String returns the environment joined by spaces.
func (m Message) String() string {
	return strings.Join(m.Env(), " ")
}

// Restrict selects a lockscreen restriction uevent.
type Restrict uint8

const (
	// SecureRestricted reports host mode refused after an illegal condition.
	SecureRestricted Restrict = iota
	// TimeSecureRestricted reports a connection refused while the lockscreen
	// restricts USB.
	TimeSecureRestricted
	// SecureRelease reports the restriction was lifted.
	SecureRelease
)

// RestrictMessage builds a usbrestrict uevent.
func RestrictMessage(r Restrict) (Message, error) {
	var words string
	switch r {
	case SecureRestricted:
		words = "securerestrict"
	case TimeSecureRestricted:
		words = "timesecurerestrict"
	case SecureRelease:
		words = "securerelease"
	default:
		return Message{}, fmt.Errorf("uevent: invalid restrict value %d", r)
	}
	return Message{Type: TypeRestrict, State: StateAdd, Words: words}, nil
}

// MDMMessage builds the usbmdm uevent sent when a device fails the MDM
// allowlist.
func MDMMessage() Message {
	return Message{Type: TypeMDM, State: StateAdd, Words: "no_whitelist"}
}

// Certi selects a certification failure uevent.
type Certi uint8

const (
	UnsupportAccessory Certi = iota
	NoResponse
	HubDepthExceed
	HubPowerExceed
	HostResourceExceed
	// WarmReset is reported as no_response and rate limited.
	WarmReset
)

// CertiMessage builds a usbcerti uevent.
func CertiMessage(c Certi) (Message, error) {
	var words string
	switch c {
	case UnsupportAccessory:
		words = "unsupport_accessory"
	case NoResponse, WarmReset:
		words = "no_response"
	case HubDepthExceed:
		words = "hub_depth_exceed"
	case HubPowerExceed:
		words = "hub_power_exceed"
	case HostResourceExceed:
		words = "host_resource_exceed"
	default:
		return Message{}, fmt.Errorf("uevent: invalid certi value %d", c)
	}
	return Message{Type: TypeCerti, State: StateAdd, Words: words}, nil
}

// AbnormalResetMessage builds the usberr uevent raised and cleared around an
// abnormal gadget reset.
func AbnormalResetMessage(add bool) Message {
	state := StateRemove
	if add {
		state = StateAdd
	}
	return Message{Type: TypeErr, State: state, Words: "abnormal_reset"}
}

// RepeatCCIRQMessage builds the usbtracker uevent for a CC interrupt storm.
func RepeatCCIRQMessage() Message {
	return Message{Type: TypeTracker, State: StateAdd, Words: "repeat_ccirq"}
}

// AudioMessage builds the usbaudio uevent announcing a known audio
// accessory and its sound card.
func AudioMessage(dev *usbdev.Device, card int, attach bool) Message {
	state := StateRemove
	if attach {
		state = StateAdd
	}
	return Message{
		Type:  TypeAudio,
		State: state,
		Extra: []string{
			fmt.Sprintf("ID=%04X/%04X", dev.VendorID, dev.ProductID),
			fmt.Sprintf("PATH=/dev/bus/usb/%03d/%03d", dev.BusNum, dev.DevNum),
			fmt.Sprintf("CARDNUM=%d", card),
		},
	}
}
