package allowlist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/usb-notify/usbnotify-go/pkg/usbdev"
)

// MaxIDEntries bounds the number of entries scanned in an IDList.
const MaxIDEntries = 256

// IDList is a flat list of alternating vendor and product ids. A zero
// vendor entry terminates the list.
type IDList []uint16

// ParseIDList parses a comma-separated list of "vid:pid" pairs in
// hexadecimal, such as "04e8:a051,18d1:4ee1".
func ParseIDList(list string) (IDList, error) {
	var ids IDList
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		vid, pid, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("allowlist: invalid id %q: want vid:pid", field)
		}
		v, err := strconv.ParseUint(vid, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("allowlist: invalid vendor in %q: %w", field, err)
		}
		p, err := strconv.ParseUint(pid, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("allowlist: invalid product in %q: %w", field, err)
		}
		if v == 0 {
			return nil, fmt.Errorf("allowlist: vendor 0000 in %q terminates the list", field)
		}
		ids = append(ids, uint16(v), uint16(p))
	}
	if len(ids) > MaxIDEntries {
		return nil, fmt.Errorf("allowlist: %d entries exceed the limit of %d", len(ids), MaxIDEntries)
	}
	return ids, nil
}

// MatchID reports whether any (vendor, product) pair of ids equals the
// device identity. Scanning stops at a zero vendor entry or after
// MaxIDEntries entries.
func MatchID(vendor, product uint16, ids IDList) bool {
	for i := 0; i+1 < len(ids) && i < MaxIDEntries; i += 2 {
		if ids[i] == 0 {
			return false
		}
		if ids[i] == vendor && ids[i+1] == product {
			return true
		}
	}
	return false
}

// MatchDeviceID is MatchID for an enumerated device.
func MatchDeviceID(dev *usbdev.Device, ids IDList) bool {
	return MatchID(dev.VendorID, dev.ProductID, ids)
}

// MatchSerial reports whether serial appears in the colon-separated list.
// A device without a serial never matches.
func MatchSerial(serial, list string) bool {
	if serial == "" {
		return false
	}
	for _, s := range strings.Split(list, ":") {
		if s == serial {
			return true
		}
	}
	return false
}

// String formats the list as ParseIDList input.
func (ids IDList) String() string {
	var b strings.Builder
	for i := 0; i+1 < len(ids); i += 2 {
		if ids[i] == 0 {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%04x:%04x", ids[i], ids[i+1])
	}
	return b.String()
}
