package notify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, AutoDriveOff, cfg.AutoDriveVbus)
	assert.Equal(t, 64, cfg.QueueSize)
	assert.Equal(t, 3*time.Second, cfg.OvcPollPeriod)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
unsupport_host: false
disable_control: true
auto_drive_vbus: pre
booting_delay: 20s
booting_delay_sync_usb: true
device_check_delay: 3s
queue_size: 16
lockscreen_allowlist: "04e8:a051,18d1:4ee1"
telemetry_path: /data/log/usb.ulog
`))
	require.NoError(t, err)

	assert.True(t, cfg.DisableControl)
	assert.Equal(t, AutoDrivePre, cfg.AutoDriveVbus)
	assert.Equal(t, 20*time.Second, cfg.BootingDelay)
	assert.True(t, cfg.BootingDelaySyncUSB)
	assert.Equal(t, 3*time.Second, cfg.DeviceCheckDelay)
	assert.Equal(t, 16, cfg.QueueSize)
	assert.Equal(t, "/data/log/usb.ulog", cfg.TelemetryPath)

	// Unset keys keep their defaults.
	assert.Equal(t, 2*time.Minute, cfg.BootGateTimeout)
	assert.Equal(t, 5*time.Second, cfg.WarmResetInterval)
	assert.Equal(t, int64(1<<20), cfg.TelemetryMaxBytes)
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown auto drive", "auto_drive_vbus: sometimes"},
		{"zero queue", "queue_size: 0"},
		{"negative delay", "booting_delay: -1s"},
		{"zero ovc period", "ovc_poll_period: 0s"},
		{"bad lockscreen list", `lockscreen_allowlist: "04e8"`},
		{"negative trace limit", "telemetry_max_bytes: -1"},
		{"malformed", "queue_size: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestAutoDriveVbusText(t *testing.T) {
	for _, a := range []AutoDriveVbus{AutoDriveOff, AutoDrivePre, AutoDrivePost} {
		text, err := a.MarshalText()
		require.NoError(t, err)

		var got AutoDriveVbus
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, a, got)
	}

	_, err := AutoDriveVbus(7).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, "unknown", AutoDriveVbus(7).String())
}

func TestLoadConfig(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "usbnotify.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auto_drive_vbus: post\nwake_lock: true\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, AutoDrivePost, cfg.AutoDriveVbus)
	assert.True(t, cfg.WakeLock)
}
