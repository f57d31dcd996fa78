package cable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usb-notify/usbnotify-go/pkg/event"
)

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()

	assert.Equal(t, event.None, snap.Cable)
	assert.Equal(t, StatusDisabled, snap.Status)
	assert.Equal(t, LockInit, snap.Lock)
	assert.Equal(t, RoleSink, snap.PowerRole)
	assert.Equal(t, ModeNone, snap.Mode)
}

func TestSetCableStripsVirtualTag(t *testing.T) {
	s := NewStore()
	g := s.Lock()
	s.SetCable(g, event.Host.Virtual(), StatusBlocking)
	g.Unlock()

	snap := s.Snapshot()
	assert.Equal(t, event.Host, snap.Cable)
	assert.Equal(t, StatusBlocking, snap.Status)
}

func TestMutatorPanicsWithoutGuard(t *testing.T) {
	s := NewStore()

	assert.Panics(t, func() { s.SetMode(nil, ModeHost) })

	other := NewStore()
	g := other.Lock()
	defer g.Unlock()
	assert.Panics(t, func() { s.SetMode(g, ModeHost) }, "guard of another store")
}

func TestMutatorPanicsWithReleasedGuard(t *testing.T) {
	s := NewStore()
	g := s.Lock()
	g.Unlock()

	assert.Panics(t, func() { s.SetLockState(g, LockRestricted) })
}

func TestSnapshotDoesNotWaitForTransition(t *testing.T) {
	s := NewStore()
	g := s.Lock()
	s.SetCable(g, event.Vbus, StatusEnabling)

	done := make(chan Snapshot)
	go func() { done <- s.Snapshot() }()
	snap := <-done

	assert.Equal(t, StatusEnabling, snap.Status, "starting status is observable mid-transition")
	g.Unlock()
}

func TestDisableBits(t *testing.T) {
	s := NewStore()
	g := s.Lock()
	s.SetDisableBit(g, HostBlocked, true)
	s.SetDisableBit(g, ClientBlocked, true)
	s.SetDisableBit(g, ClientBlocked, false)
	g.Unlock()

	assert.True(t, s.TestDisableBit(HostBlocked))
	assert.False(t, s.TestDisableBit(ClientBlocked))
	assert.True(t, s.Snapshot().Blocked(HostBlocked))
}

func TestSecureGroups(t *testing.T) {
	s := NewStore()
	g := s.Lock()
	defer g.Unlock()

	assert.Equal(t, 1, s.BumpSecureGroup(g, GroupAudio))
	assert.Equal(t, 2, s.BumpSecureGroup(g, GroupAudio))
	assert.Equal(t, 1, s.BumpSecureGroup(g, GroupOther))

	s.ResetSecureGroups(g)
	assert.Equal(t, [NumGroups]int{}, s.Snapshot().SecureGroups)
}

func TestAllowlistRestrictedCounter(t *testing.T) {
	s := NewStore()
	g := s.Lock()
	defer g.Unlock()

	assert.Equal(t, 0, s.DropAllowlistRestricted(g), "never goes negative")
	assert.Equal(t, 1, s.BumpAllowlistRestricted(g))
	assert.Equal(t, 2, s.BumpAllowlistRestricted(g))
	assert.Equal(t, 1, s.DropAllowlistRestricted(g))

	s.ClearAllowlistRestricted(g)
	assert.Equal(t, 0, s.Snapshot().AllowlistRestricted)
}

func TestReservationLastWriterWins(t *testing.T) {
	s := NewStore()
	s.SetReserved(event.Vbus)
	s.SetReserved(event.Host)

	assert.Equal(t, event.Host, s.TakeReserved())
	assert.Equal(t, event.None, s.TakeReserved())
}

func TestSampleVbus(t *testing.T) {
	s := NewStore()

	assert.False(t, s.SampleVbus(0), "initial level is low")
	assert.True(t, s.SampleVbus(1))
	assert.False(t, s.SampleVbus(1))
	assert.Equal(t, 1, s.Snapshot().VbusLevel)
}

func TestMarkDevice(t *testing.T) {
	s := NewStore()
	assert.True(t, s.MarkDevice())
	assert.False(t, s.MarkDevice())
	s.SetDevice(false)
	assert.True(t, s.MarkDevice())
}

func TestSnapshotPredicates(t *testing.T) {
	tests := []struct {
		name          string
		cable         event.Event
		status        Status
		hostEnabled   bool
		hostBlocked   bool
		clientEnabled bool
		clientBlocked bool
	}{
		{"host enabled", event.Host, StatusEnabled, true, false, false, false},
		{"host enabling", event.Host, StatusEnabling, true, false, false, false},
		{"host blocked", event.Host, StatusBlocked, false, true, false, false},
		{"vbus enabled", event.Vbus, StatusEnabled, false, false, true, false},
		{"vbus blocking", event.Vbus, StatusBlocking, false, false, false, true},
		{"charger enabled", event.Charger, StatusEnabled, false, false, false, false},
		{"none disabled", event.None, StatusDisabled, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Cable: tt.cable, Status: tt.status}
			assert.Equal(t, tt.hostEnabled, snap.HostCableEnabled(), "HostCableEnabled")
			assert.Equal(t, tt.hostBlocked, snap.HostCableBlocked(), "HostCableBlocked")
			assert.Equal(t, tt.clientEnabled, snap.ClientCableEnabled(), "ClientCableEnabled")
			assert.Equal(t, tt.clientBlocked, snap.ClientCableBlocked(), "ClientCableBlocked")
		})
	}
}

func TestWhitelistMode(t *testing.T) {
	s := NewStore()
	g := s.Lock()
	defer g.Unlock()

	assert.Equal(t, WhitelistNone, s.Snapshot().WhitelistMode())
	s.SetWhitelist(g, WhitelistByID, true)
	assert.Equal(t, WhitelistID, s.Snapshot().WhitelistMode())
	s.SetWhitelist(g, WhitelistBySerial, true)
	assert.Equal(t, WhitelistIDAndSerial, s.Snapshot().WhitelistMode())
	s.SetWhitelist(g, WhitelistByID, false)
	assert.Equal(t, WhitelistSerial, s.Snapshot().WhitelistMode())
}

func TestLockSerializesTransitions(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	active := 0
	maxActive := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g := s.Lock()
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			s.BumpSecureGroup(g, GroupOther)

			mu.Lock()
			active--
			mu.Unlock()
			g.Unlock()
		}()
	}
	wg.Wait()

	require.Equal(t, 1, maxActive)
	assert.Equal(t, 8, s.Snapshot().SecureGroups[GroupOther])
}

func TestPeripheralBusStateWhileTransitionHeld(t *testing.T) {
	s := NewStore()
	g := s.Lock()
	defer g.Unlock()

	_, ok := s.SetPeripheralBusState(BusConfigured, true)
	assert.False(t, ok, "not in peripheral mode")

	s.SetMode(g, ModePeripheral)
	snap, ok := s.SetPeripheralBusState(BusConfigured, false)
	require.True(t, ok)
	assert.Equal(t, BusConfigured, snap.BusState)

	s.SetDrSwap(true)
	_, ok = s.SetPeripheralBusState(BusSuspended, false)
	assert.False(t, ok, "suspend ignored during a data-role swap")
	snap, ok = s.SetPeripheralBusState(BusUnconfigured, true)
	require.True(t, ok)
	assert.Equal(t, BusUnconfigured, snap.BusState)
	assert.True(t, s.SetCableConnected(true).CableConnected)
}

func TestSwapReverseBypass(t *testing.T) {
	s := NewStore()

	assert.False(t, s.SwapReverseBypass(ReverseBypassPrepare, ReverseBypassOn))
	assert.Equal(t, ReverseBypassOff, s.Snapshot().ReverseBypass)

	s.SetReverseBypass(ReverseBypassPrepare)
	assert.True(t, s.SwapReverseBypass(ReverseBypassPrepare, ReverseBypassOn))
	assert.False(t, s.SwapReverseBypass(ReverseBypassPrepare, ReverseBypassOn))
	assert.Equal(t, ReverseBypassOn, s.Snapshot().ReverseBypass)
}
