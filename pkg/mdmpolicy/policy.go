package mdmpolicy

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/usb-notify/usbnotify-go/pkg/allowlist"
)

// ErrInvalidPolicy is returned when a policy document fails validation.
var ErrInvalidPolicy = errors.New("mdmpolicy: invalid policy")

// ClassPolicy configures the interface-class allowlist.
type ClassPolicy struct {
	Enabled bool `yaml:"enabled"`

	// Classes are hexadecimal class codes such as "03" or "0x08".
	Classes []string `yaml:"classes"`
}

// IDPolicy configures the vendor/product allowlist.
type IDPolicy struct {
	Enabled bool `yaml:"enabled"`

	// Devices are "vid:pid" pairs in hexadecimal.
	Devices []string `yaml:"devices"`
}

// SerialPolicy configures the serial-number allowlist.
type SerialPolicy struct {
	Enabled bool     `yaml:"enabled"`
	Serials []string `yaml:"serials"`
}

// Policy is an MDM allowlist policy document.
type Policy struct {
	Class  ClassPolicy  `yaml:"class"`
	ID     IDPolicy     `yaml:"id"`
	Serial SerialPolicy `yaml:"serial"`

	// LockscreenAllowlist lists "vid:pid" pairs accepted while the
	// lockscreen restricts USB.
	LockscreenAllowlist []string `yaml:"lockscreen_allowlist"`
}

// Parse decodes and validates a policy document.
func Parse(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("mdmpolicy: decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and parses the policy file at path.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mdmpolicy: read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks that every list parses. An enabled allowlist may be empty,
// which refuses every device.
func (p *Policy) Validate() error {
	_, err := p.Lists()
	return err
}

// Lists converts the policy into allowlists.
func (p *Policy) Lists() (allowlist.Lists, error) {
	var l allowlist.Lists
	var err error

	l.Class, err = allowlist.ParseClassList(strings.Join(p.Class.Classes, ","))
	if err != nil {
		return allowlist.Lists{}, fmt.Errorf("%w: class: %w", ErrInvalidPolicy, err)
	}
	l.ID, err = allowlist.ParseIDList(strings.Join(p.ID.Devices, ","))
	if err != nil {
		return allowlist.Lists{}, fmt.Errorf("%w: id: %w", ErrInvalidPolicy, err)
	}
	for _, s := range p.Serial.Serials {
		if s == "" || strings.Contains(s, ":") {
			return allowlist.Lists{}, fmt.Errorf("%w: serial %q must be non-empty and must not contain ':'", ErrInvalidPolicy, s)
		}
	}
	l.Serial = strings.Join(p.Serial.Serials, ":")
	l.Lockscreen, err = allowlist.ParseIDList(strings.Join(p.LockscreenAllowlist, ","))
	if err != nil {
		return allowlist.Lists{}, fmt.Errorf("%w: lockscreen_allowlist: %w", ErrInvalidPolicy, err)
	}
	return l, nil
}

// Target receives an applied policy.
type Target interface {
	SetAllowlists(l allowlist.Lists)
	SetMDM(kind allowlist.Kind, on bool) error
}

// Apply installs the lists on t and then switches every MDM allowlist on
// or off. Lists go first so that a matcher is never enabled against the
// previous policy's list. Every toggle is attempted; their errors are joined.
func (p *Policy) Apply(t Target) error {
	l, err := p.Lists()
	if err != nil {
		return err
	}
	t.SetAllowlists(l)

	var errs []error
	for _, m := range []struct {
		kind allowlist.Kind
		on   bool
	}{
		{allowlist.KindClass, p.Class.Enabled},
		{allowlist.KindID, p.ID.Enabled},
		{allowlist.KindSerial, p.Serial.Enabled},
	} {
		if err := t.SetMDM(m.kind, m.on); err != nil {
			errs = append(errs, fmt.Errorf("mdmpolicy: set %s: %w", m.kind, err))
		}
	}
	return errors.Join(errs...)
}
