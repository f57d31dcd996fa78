package notify

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/usb-notify/usbnotify-go/pkg/allowlist"
)

// AutoDriveVbus selects when a host-class enable drives VBUS itself.
type AutoDriveVbus uint8

const (
	// AutoDriveOff leaves VBUS to an explicit DriveVbus event.
	AutoDriveOff AutoDriveVbus = iota
	// AutoDrivePre drives VBUS before the host controller is enabled.
	AutoDrivePre
	// AutoDrivePost drives VBUS after the host controller is enabled.
	AutoDrivePost
)

// String returns the mode name.
func (a AutoDriveVbus) String() string {
	switch a {
	case AutoDriveOff:
		return "off"
	case AutoDrivePre:
		return "pre"
	case AutoDrivePost:
		return "post"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a AutoDriveVbus) MarshalText() ([]byte, error) {
	if a > AutoDrivePost {
		return nil, fmt.Errorf("%w: auto_drive_vbus %d", ErrInvalidConfig, a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AutoDriveVbus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "off", "":
		*a = AutoDriveOff
	case "pre":
		*a = AutoDrivePre
	case "post":
		*a = AutoDrivePost
	default:
		return fmt.Errorf("%w: auto_drive_vbus %q", ErrInvalidConfig, text)
	}
	return nil
}

// Config configures a Notifier. It describes the platform: which features
// the board supports and how long its hardware needs to settle.
type Config struct {
	// UnsupportHost disables host mode on this model.
	UnsupportHost bool `yaml:"unsupport_host"`

	// DisableControl enables the disable (block) control surface.
	DisableControl bool `yaml:"disable_control"`

	// AutoDriveVbus selects when host-class enables drive VBUS.
	AutoDriveVbus AutoDriveVbus `yaml:"auto_drive_vbus"`

	// BootingDelay defers boot-delayed cable events until it elapses.
	// Zero opens the boot gate immediately.
	BootingDelay time.Duration `yaml:"booting_delay"`

	// BootingDelaySyncUSB keeps the boot gate closed after BootingDelay
	// until EnableUSB is called.
	BootingDelaySyncUSB bool `yaml:"booting_delay_sync_usb"`

	// BootGateTimeout bounds the wait for the first lock state report
	// after BootingDelay.
	BootGateTimeout time.Duration `yaml:"boot_gate_timeout"`

	// DeviceCheckDelay is the time after a host-class enable at which the
	// notifier checks whether a device answered. Zero disables the check.
	DeviceCheckDelay time.Duration `yaml:"device_check_delay"`

	// OvcPollPeriod is the overcurrent scanner poll period.
	OvcPollPeriod time.Duration `yaml:"ovc_poll_period"`

	// PrePeripheralDelay is the settle time between the redriver enable
	// and the peripheral controller enable.
	PrePeripheralDelay time.Duration `yaml:"pre_peripheral_delay"`

	// HostReloadSettle is the pause between host controller off and on
	// during a host reload.
	HostReloadSettle time.Duration `yaml:"host_reload_settle"`

	// WakeLock holds the wake lock while a client cable is enabled.
	WakeLock bool `yaml:"wake_lock"`

	// SupportReverseBypass enables reverse bypass device detection.
	SupportReverseBypass bool `yaml:"support_reverse_bypass"`

	// QueueSize bounds the number of pending state events.
	QueueSize int `yaml:"queue_size"`

	// WarmResetInterval is the minimum spacing of warm-reset uevents.
	WarmResetInterval time.Duration `yaml:"warm_reset_interval"`

	// LockscreenAllowlist lists "vid:pid" pairs accepted while the
	// lockscreen restricts USB, comma separated.
	LockscreenAllowlist string `yaml:"lockscreen_allowlist"`

	// TelemetryPath, when set, is the persistent usblog trace file.
	TelemetryPath string `yaml:"telemetry_path"`

	// TelemetryMaxBytes caps the trace file before it is rotated.
	// Zero never rotates.
	TelemetryMaxBytes int64 `yaml:"telemetry_max_bytes"`

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AutoDriveVbus:     AutoDriveOff,
		BootGateTimeout:   2 * time.Minute,
		OvcPollPeriod:     3 * time.Second,
		HostReloadSettle:  100 * time.Millisecond,
		QueueSize:         64,
		WarmResetInterval: 5 * time.Second,
		TelemetryMaxBytes: 1 << 20,
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.AutoDriveVbus > AutoDrivePost {
		return fmt.Errorf("%w: auto_drive_vbus %d", ErrInvalidConfig, c.AutoDriveVbus)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if c.BootingDelay < 0 || c.BootGateTimeout < 0 || c.DeviceCheckDelay < 0 ||
		c.PrePeripheralDelay < 0 || c.HostReloadSettle < 0 || c.WarmResetInterval < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	if c.TelemetryMaxBytes < 0 {
		return fmt.Errorf("%w: telemetry_max_bytes must not be negative", ErrInvalidConfig)
	}
	if c.OvcPollPeriod <= 0 {
		return fmt.Errorf("%w: ovc_poll_period must be positive", ErrInvalidConfig)
	}
	if _, err := allowlist.ParseIDList(c.LockscreenAllowlist); err != nil {
		return fmt.Errorf("%w: lockscreen_allowlist: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ParseConfig decodes a YAML document over DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML config file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("notify: read config: %w", err)
	}
	return ParseConfig(data)
}
