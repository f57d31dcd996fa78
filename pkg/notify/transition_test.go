package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
	"github.com/usb-notify/usbnotify-go/pkg/usbdev"
)

func restrictedHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t, testConfig())
	require.True(t, h.n.DetectIllegalCondition(IllegalAudioDescriptor))
	require.True(t, h.n.Snapshot().Restricted)
	h.rec.Reset()
	return h
}

func TestRestrictedHostSideEnablesVetoed(t *testing.T) {
	tests := []struct {
		ev     event.Event
		save   bool
		uevent bool
	}{
		{ev: event.Host, save: true, uevent: true},
		{ev: event.Hmt, save: true, uevent: true},
		{ev: event.Gamepad, save: true, uevent: true},
		{ev: event.Pogo, save: true},
		{ev: event.SmartDockTA, save: true},
		{ev: event.AudioDock, save: true},
		{ev: event.MMDock, save: true},
		{ev: event.Lanhub, save: true},
		{ev: event.LanhubTA},
		{ev: event.DriveVbus},
	}
	for _, tt := range tests {
		t.Run(tt.ev.String(), func(t *testing.T) {
			h := restrictedHarness(t)

			h.request(t, tt.ev, true)

			var want []string
			if tt.uevent {
				want = []string{"uevent TYPE=usbrestrict STATE=ADD WORDS=securerestrict"}
			}
			assert.Equal(t, want, h.rec.Calls())
			assert.Equal(t, 1.0, h.rejections("restricted"))
			assert.NotEqual(t, cable.ModeHost, h.n.USBMode())
			assert.False(t, h.n.Snapshot().OvercurrentNotify)
			if tt.save {
				assert.Equal(t, tt.ev, h.n.CableType())
				assert.Equal(t, cable.StatusBlocked, h.n.Status())
			} else {
				assert.Equal(t, event.None, h.n.CableType())
			}
		})
	}
}

func TestRestrictedDisableStillRuns(t *testing.T) {
	h := newHarness(t, testConfig())
	h.request(t, event.Pogo, true)
	require.True(t, h.n.DetectIllegalCondition(IllegalAudioDescriptor))
	h.rec.Reset()

	h.request(t, event.Pogo, false)

	assert.Equal(t, 1, h.rec.Count("host false"))
	assert.Equal(t, event.None, h.n.CableType())
	assert.Equal(t, cable.ModeNone, h.n.USBMode())
}

func TestHostRoundTripClearsRestrictions(t *testing.T) {
	h := newHarness(t, testConfig())
	h.request(t, event.Host, true)
	require.NoError(t, h.n.SetLockState(cable.LockRestricted))

	assert.False(t, h.n.CheckAllowlistLockscreen(testDevice(0x1234, 0x0001, usbdev.ClassHID)))
	h.n.SetConDevHub(usbdev.SpeedHigh, true)
	snap := h.n.Snapshot()
	require.Equal(t, 1, snap.AllowlistRestricted)
	require.True(t, snap.HubConnected())

	h.request(t, event.Host, false)

	snap = h.n.Snapshot()
	assert.Equal(t, event.None, snap.Cable)
	assert.Equal(t, cable.StatusDisabled, snap.Status)
	assert.Zero(t, snap.AllowlistRestricted)
	assert.False(t, snap.HubConnected())
}
