package allowlist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/usb-notify/usbnotify-go/pkg/usbdev"
)

// NumClassIndexes is the number of internal class indexes, including the
// unknown index 0.
const NumClassIndexes = 18

// ClassIndex maps a USB class code to its internal allowlist index. Codes
// without an index map to 0, which is never allowed.
func ClassIndex(class uint8) int {
	switch class {
	case usbdev.ClassPerInterface:
		return 1
	case usbdev.ClassAudio:
		return 2
	case usbdev.ClassCDC:
		return 3
	case usbdev.ClassHID:
		return 4
	case usbdev.ClassPhysical:
		return 5
	case usbdev.ClassImage:
		return 6
	case usbdev.ClassPrinter:
		return 7
	case usbdev.ClassMassStorage:
		return 8
	case usbdev.ClassHub:
		return 9
	case usbdev.ClassCDCData:
		return 10
	case usbdev.ClassSmartCard:
		return 11
	case usbdev.ClassContentSec:
		return 12
	case usbdev.ClassVideo:
		return 13
	case usbdev.ClassWireless:
		return 14
	case usbdev.ClassMisc:
		return 15
	case usbdev.ClassAppSpecific:
		return 16
	case usbdev.ClassVendor:
		return 17
	default:
		return 0
	}
}

// ClassSet is a fixed-size set of allowed interface classes, indexed by
// ClassIndex.
type ClassSet uint32

// NewClassSet returns a set allowing every listed class code.
func NewClassSet(classes ...uint8) ClassSet {
	var s ClassSet
	for _, c := range classes {
		s = s.Allow(c)
	}
	return s
}

// Allow returns s with class added. Classes without an index are ignored.
func (s ClassSet) Allow(class uint8) ClassSet {
	idx := ClassIndex(class)
	if idx == 0 {
		return s
	}
	return s | 1<<idx
}

// Contains reports whether class is allowed.
func (s ClassSet) Contains(class uint8) bool {
	idx := ClassIndex(class)
	return idx != 0 && s&(1<<idx) != 0
}

// ParseClassList parses a comma-separated list of hexadecimal class codes,
// such as "01,03,08".
func ParseClassList(list string) (ClassSet, error) {
	var s ClassSet
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(field, "0x"), 16, 8)
		if err != nil {
			return 0, fmt.Errorf("allowlist: invalid class %q: %w", field, err)
		}
		if ClassIndex(uint8(v)) == 0 {
			return 0, fmt.Errorf("allowlist: unsupported class 0x%02x", v)
		}
		s = s.Allow(uint8(v))
	}
	return s, nil
}

// ClassMismatch describes the first interface a class match refused.
type ClassMismatch struct {
	DeviceClass    uint8
	InterfaceClass uint8
}

// MatchClass reports whether every interface of every configuration of dev
// has a class in allowed. The first altsetting of each interface is
// consulted; interfaces without altsettings are skipped. On failure the
// refused interface is returned.
func MatchClass(dev *usbdev.Device, allowed ClassSet) (bool, ClassMismatch) {
	for _, cfg := range dev.Configs {
		for _, intf := range cfg.Interfaces {
			if len(intf.AltSettings) == 0 {
				continue
			}
			class := intf.AltSettings[0].Class
			if !allowed.Contains(class) {
				return false, ClassMismatch{DeviceClass: dev.Class, InterfaceClass: class}
			}
		}
	}
	return true, ClassMismatch{}
}
