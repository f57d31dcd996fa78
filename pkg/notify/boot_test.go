package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
)

func bootConfig(delay time.Duration) Config {
	cfg := testConfig()
	cfg.BootingDelay = delay
	cfg.BootGateTimeout = time.Second
	return cfg
}

func TestBootGateReplaysReservation(t *testing.T) {
	h := newHarness(t, bootConfig(20*time.Millisecond))
	require.False(t, h.n.BootGateOpen())

	require.NoError(t, h.n.Request(event.Vbus, true))
	assert.Equal(t, event.Vbus, h.n.Snapshot().Reserved)
	assert.Equal(t, event.None, h.n.CableType())
	assert.Equal(t, 1.0, h.rejections("boot_delay"))

	require.Eventually(t, h.n.BootGateOpen, 2*time.Second, time.Millisecond)
	h.sync(t)

	assert.Equal(t, event.Vbus, h.n.CableType())
	assert.Equal(t, cable.StatusEnabled, h.n.Status())
	assert.Equal(t, event.None, h.n.Snapshot().Reserved)
	assert.Equal(t, 1, h.rec.Count("peripheral true"))
	assert.Eventually(t, func() bool {
		return h.rec.Count("external POSSIBLE_USB 1") == 1
	}, time.Second, time.Millisecond)
}

func TestBootGateDisableEmptiesReservation(t *testing.T) {
	h := newHarness(t, bootConfig(10*time.Millisecond))

	require.NoError(t, h.n.Request(event.Host, true))
	assert.Equal(t, event.Host, h.n.Snapshot().Reserved)
	require.NoError(t, h.n.Request(event.Host, false))
	assert.Equal(t, event.None, h.n.Snapshot().Reserved)

	require.NoError(t, h.n.SetLockState(cable.LockUnlocked))
	require.Eventually(t, h.n.BootGateOpen, 2*time.Second, time.Millisecond)
	h.sync(t)

	assert.Equal(t, event.None, h.n.CableType())
	assert.Zero(t, h.rec.Count("host true"))
}

func TestBootGateLatestReservationWins(t *testing.T) {
	h := newHarness(t, bootConfig(10*time.Millisecond))

	require.NoError(t, h.n.Request(event.Host, true))
	require.NoError(t, h.n.Request(event.Gamepad, true))
	assert.Equal(t, event.Gamepad, h.n.Snapshot().Reserved)

	require.NoError(t, h.n.SetLockState(cable.LockWorkInProgress))
	require.Eventually(t, h.n.BootGateOpen, 2*time.Second, time.Millisecond)
	h.sync(t)

	assert.Equal(t, event.Gamepad, h.n.CableType())
	assert.Equal(t, 1, h.rec.Count("host true"))
}

func TestBootGateTimesOut(t *testing.T) {
	cfg := bootConfig(time.Millisecond)
	cfg.BootGateTimeout = 20 * time.Millisecond
	h := newHarness(t, cfg)

	require.NoError(t, h.n.Request(event.Host, true))

	require.Eventually(t, h.n.BootGateOpen, 2*time.Second, time.Millisecond)
	h.sync(t)
	assert.Equal(t, event.Host, h.n.CableType())
	assert.Equal(t, cable.StatusEnabled, h.n.Status())
}

func TestBootGateWaitsForEnableUSB(t *testing.T) {
	cfg := bootConfig(5 * time.Millisecond)
	cfg.BootingDelaySyncUSB = true
	h := newHarness(t, cfg)

	require.NoError(t, h.n.Request(event.Vbus, true))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, h.n.BootGateOpen())
	assert.Equal(t, event.None, h.n.CableType())

	h.n.EnableUSB()
	require.Eventually(t, h.n.BootGateOpen, 2*time.Second, time.Millisecond)
	h.sync(t)
	assert.Equal(t, event.Vbus, h.n.CableType())

	// A second call is a no-op.
	h.n.EnableUSB()
}

func TestBootGateRestrictedUevents(t *testing.T) {
	h := newHarness(t, bootConfig(time.Hour))
	require.NoError(t, h.n.SetLockState(cable.LockRestricted))

	require.NoError(t, h.n.Request(event.Host, true))
	require.NoError(t, h.n.Request(event.Host, false))

	assert.Equal(t, []string{
		"uevent TYPE=usbrestrict STATE=ADD WORDS=timesecurerestrict",
		"uevent TYPE=usbrestrict STATE=ADD WORDS=securerelease",
	}, h.rec.Calls())
	assert.False(t, h.n.BootGateOpen())
}

func TestBootGateBlockBeatsDeferral(t *testing.T) {
	h := newHarness(t, bootConfig(time.Hour))

	require.NoError(t, h.n.SetDisable(cable.BlockHost))
	h.sync(t)
	h.request(t, event.Host, true)

	assert.Equal(t, event.None, h.n.Snapshot().Reserved)
	assert.Equal(t, event.Host, h.n.CableType())
	assert.Equal(t, cable.StatusBlocked, h.n.Status())
	assert.Equal(t, 1, h.rec.Count("host_state BLOCK"))
}

func TestBootGateDisableAllSuppressesPossibleUSB(t *testing.T) {
	cfg := bootConfig(50 * time.Millisecond)
	cfg.BootGateTimeout = 20 * time.Millisecond
	h := newHarness(t, cfg)

	require.NoError(t, h.n.SetDisable(cable.BlockAll))
	assert.True(t, h.n.Snapshot().SkipPossibleUSB)
	require.Eventually(t, h.n.BootGateOpen, 2*time.Second, time.Millisecond)
	h.sync(t)
	assert.True(t, h.n.IsBlocked(cable.BlockAll))

	require.NoError(t, h.n.SetDisable(cable.BlockNone))
	h.sync(t)
	assert.True(t, h.n.IsBlocked(cable.BlockNone))
	assert.Zero(t, h.rec.Count("external POSSIBLE_USB 1"))
}
