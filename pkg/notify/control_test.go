package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usb-notify/usbnotify-go/pkg/allowlist"
	"github.com/usb-notify/usbnotify-go/pkg/cable"
	"github.com/usb-notify/usbnotify-go/pkg/event"
	"github.com/usb-notify/usbnotify-go/pkg/log"
)

func TestSetDisableValidation(t *testing.T) {
	h := newHarness(t, testConfig())

	assert.ErrorIs(t, h.n.SetDisable(cable.BlockType(9)), ErrInvalidBlockType)
	assert.ErrorIs(t, h.n.SetDisable(cable.BlockNone), ErrDuplicateState)

	cfg := testConfig()
	cfg.DisableControl = false
	off := newHarness(t, cfg)
	assert.ErrorIs(t, off.n.SetDisable(cable.BlockHost), ErrDisableControlUnsupported)
	assert.Equal(t, cable.BlockNone, off.n.DisableState())

	var rejected int
	for _, e := range h.ring.Events() {
		if e.Category == log.CategoryControl && e.Control.Rejected {
			rejected++
		}
	}
	assert.Equal(t, 2, rejected)
}

func TestSetDisableHostReplaysBlockedCable(t *testing.T) {
	h := newHarness(t, testConfig())

	require.NoError(t, h.n.SetDisable(cable.BlockHost))
	h.request(t, event.Host, true)
	assert.Equal(t, cable.BlockHost, h.n.DisableState())
	assert.True(t, h.n.IsBlocked(cable.BlockHost))
	assert.Equal(t, cable.StatusBlocked, h.n.Status())
	assert.Zero(t, h.rec.Count("host true"))
	assert.Equal(t, 1.0, h.rejections("host_disabled"))

	require.NoError(t, h.n.SetDisable(cable.BlockNone))
	h.sync(t)

	assert.True(t, h.n.IsBlocked(cable.BlockNone))
	assert.Equal(t, event.Host, h.n.CableType())
	assert.Equal(t, cable.StatusEnabled, h.n.Status())
	assert.Equal(t, 1, h.rec.Count("host true"))
	assert.Equal(t, 1, h.rec.Count("external HOSTBLOCK_EARLY 1"))
	assert.Equal(t, 1, h.rec.Count("external HOSTBLOCK_EARLY 0"))
}

func TestSetDisableHostDisablesEnabledCable(t *testing.T) {
	h := newHarness(t, testConfig())
	h.request(t, event.Host, true)

	require.NoError(t, h.n.SetDisable(cable.BlockHost))
	h.sync(t)

	assert.Equal(t, event.Host, h.n.CableType())
	assert.Equal(t, cable.StatusBlocked, h.n.Status())
	assert.Equal(t, 1, h.rec.Count("host false"))
	assert.Equal(t, []string{"external HOSTBLOCK_PRE 1", "external HOSTBLOCK_POST 1"},
		filterPrefix(h.rec.Calls(), "external HOSTBLOCK_P"))
}

func TestSetDisableAllBlocksClient(t *testing.T) {
	h := newHarness(t, testConfig())
	h.request(t, event.Vbus, true)

	require.NoError(t, h.n.SetDisable(cable.BlockAll))
	h.sync(t)
	assert.True(t, h.n.IsBlocked(cable.BlockAll))
	assert.True(t, h.n.IsBlocked(cable.BlockHost))
	assert.Equal(t, event.Vbus, h.n.CableType())
	assert.Equal(t, cable.StatusBlocked, h.n.Status())
	assert.Equal(t, 1, h.rec.Count("peripheral false"))

	h.rec.Reset()
	require.NoError(t, h.n.SetDisable(cable.BlockNone))
	h.sync(t)
	assert.Equal(t, cable.StatusEnabled, h.n.Status())
	assert.Equal(t, 1, h.rec.Count("peripheral true"))
	assert.Equal(t, 1, h.rec.Count("external HOSTBLOCK_PRE 0"))
}

func TestSetDisableClientKeepsHost(t *testing.T) {
	h := newHarness(t, testConfig())

	require.NoError(t, h.n.SetDisable(cable.BlockClient))
	h.sync(t)
	h.request(t, event.Vbus, true)
	assert.Equal(t, cable.StatusBlocked, h.n.Status())
	assert.Zero(t, h.rec.Count("peripheral true"))
	assert.Equal(t, 1, h.rec.Count("chg_current CONFIGURED"))

	h.request(t, event.Host, true)
	assert.Equal(t, cable.StatusEnabled, h.n.Status())
	assert.Equal(t, 1, h.rec.Count("host true"))
}

func TestSetDisableRecordsControlEventOnce(t *testing.T) {
	tests := []struct {
		block cable.BlockType
		ev    event.Event
	}{
		{cable.BlockAll, event.AllDisable},
		{cable.BlockHost, event.HostDisable},
		{cable.BlockClient, event.ClientDisable},
	}
	for _, tt := range tests {
		t.Run(tt.block.String(), func(t *testing.T) {
			h := newHarness(t, testConfig())
			require.NoError(t, h.n.SetDisable(tt.block))
			h.sync(t)
			require.NoError(t, h.n.SetDisable(cable.BlockNone))
			h.sync(t)

			var got []string
			for _, e := range h.cableEvents() {
				if e.Event == tt.ev.String() || e.Event == event.AllDisable.String() {
					got = append(got, e.Event+" "+e.Status)
				}
			}
			assert.Equal(t, []string{
				tt.ev.String() + " enabling",
				"disable_all_notify disabling",
			}, got)
		})
	}
}

func TestSetMDM(t *testing.T) {
	h := newHarness(t, testConfig())

	assert.ErrorIs(t, h.n.SetMDM(allowlist.Kind(9), true), ErrInvalidAllowlist)

	require.NoError(t, h.n.SetMDM(allowlist.KindClass, true))
	h.sync(t)
	assert.True(t, h.n.Snapshot().WhitelistClass)
	assert.Equal(t, []string{"external MDMBLOCK_PRE 1", "external MDMBLOCK_POST 1"}, h.rec.Calls())

	require.NoError(t, h.n.SetMDM(allowlist.KindID, true))
	require.NoError(t, h.n.SetMDM(allowlist.KindSerial, true))
	h.sync(t)
	assert.Equal(t, cable.WhitelistIDAndSerial, h.n.WhitelistEnableState())

	require.NoError(t, h.n.SetMDM(allowlist.KindSerial, false))
	h.sync(t)
	assert.Equal(t, cable.WhitelistID, h.n.WhitelistEnableState())
}

func TestSetMDMReloadsHost(t *testing.T) {
	h := newHarness(t, testConfig())
	h.request(t, event.Host, true)
	h.rec.Reset()

	require.NoError(t, h.n.SetMDM(allowlist.KindID, true))
	h.sync(t)

	assert.Equal(t, []string{
		"external MDMBLOCK_PRE 1",
		"external MDMBLOCK_POST 1",
		"host false",
		"host true",
	}, h.rec.Calls())
	assert.Equal(t, cable.StatusEnabled, h.n.Status())
}

func TestSetAllowlistsKeepsLockscreen(t *testing.T) {
	cfg := testConfig()
	cfg.LockscreenAllowlist = "04e8:a051"
	h := newHarness(t, cfg)

	h.n.SetAllowlists(allowlist.Lists{
		Class: allowlist.NewClassSet(0x08),
		ID:    allowlist.IDList{0x1234, 0x5678},
	})
	l := h.n.Allowlists()
	assert.Equal(t, allowlist.IDList{0x04e8, 0xa051}, l.Lockscreen)
	assert.True(t, l.Class.Contains(0x08))
	assert.Equal(t, allowlist.IDList{0x1234, 0x5678}, l.ID)

	h.n.SetAllowlists(allowlist.Lists{Lockscreen: allowlist.IDList{}})
	assert.Empty(t, h.n.Allowlists().Lockscreen)
}

func TestSetLockState(t *testing.T) {
	h := newHarness(t, testConfig())

	assert.ErrorIs(t, h.n.SetLockState(cable.LockState(9)), ErrInvalidLockState)
	assert.Equal(t, cable.LockInit, h.n.LockState())

	require.NoError(t, h.n.SetLockState(cable.LockWorkInProgress))
	assert.Equal(t, cable.LockWorkInProgress, h.n.LockState())

	require.NoError(t, h.n.SetLockState(cable.LockUnlocked))
	assert.Equal(t, cable.LockUnlocked, h.n.LockState())
	assert.Empty(t, h.rec.Calls())
}

func TestSetLockStateUnlockReloadsRefusedHost(t *testing.T) {
	h := newHarness(t, testConfig())
	h.request(t, event.Host, true)
	require.NoError(t, h.n.SetLockState(cable.LockRestricted))

	assert.False(t, h.n.CheckAllowlistLockscreen(testDevice(0x1234, 0x0001, 0x03)))
	assert.Equal(t, 1, h.n.Snapshot().AllowlistRestricted)
	h.rec.Reset()

	require.NoError(t, h.n.SetLockState(cable.LockUnlocked))
	h.sync(t)
	assert.Equal(t, []string{"host false", "host true"}, h.rec.Calls())
}

func TestSetMaxSpeed(t *testing.T) {
	var got []int
	h := newHarness(t, testConfig(), func(c *Collaborators) {
		c.Hooks.UsbMaximumSpeed = func(speed int) error {
			got = append(got, speed)
			if speed < 0 {
				return errors.New("unsupported speed")
			}
			return nil
		}
	})

	require.NoError(t, h.n.SetMaxSpeed(3))
	err := h.n.SetMaxSpeed(-1)
	assert.ErrorContains(t, err, "unsupported speed")
	assert.Equal(t, []int{3, -1}, got)

	plain := newHarness(t, testConfig())
	assert.NoError(t, plain.n.SetMaxSpeed(3))
}

func TestDiagnosticValues(t *testing.T) {
	h := newHarness(t, testConfig())

	h.n.SetRequestAction(2)
	h.n.SetLPMChargingTypeDone("DCP")

	assert.Equal(t, 2, h.n.RequestAction())
	assert.Equal(t, "DCP", h.n.LPMChargingTypeDone())
}

func filterPrefix(calls []string, prefix string) []string {
	var out []string
	for _, c := range calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	return out
}
