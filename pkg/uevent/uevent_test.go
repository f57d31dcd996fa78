package uevent

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usb-notify/usbnotify-go/pkg/usbdev"
)

func TestRestrictMessage(t *testing.T) {
	tests := []struct {
		r    Restrict
		want string
	}{
		{SecureRestricted, "WORDS=securerestrict"},
		{TimeSecureRestricted, "WORDS=timesecurerestrict"},
		{SecureRelease, "WORDS=securerelease"},
	}

	for _, tt := range tests {
		m, err := RestrictMessage(tt.r)
		require.NoError(t, err)
		assert.Equal(t, []string{"TYPE=usbrestrict", "STATE=ADD", tt.want}, m.Env())
	}

	_, err := RestrictMessage(Restrict(9))
	assert.Error(t, err)
}

func TestCertiMessage(t *testing.T) {
	m, err := CertiMessage(WarmReset)
	require.NoError(t, err)
	assert.Equal(t, "no_response", m.Words)

	m, err = CertiMessage(HubDepthExceed)
	require.NoError(t, err)
	assert.Equal(t, "TYPE=usbcerti STATE=ADD WORDS=hub_depth_exceed", m.String())

	_, err = CertiMessage(Certi(42))
	assert.Error(t, err)
}

func TestAbnormalResetMessage(t *testing.T) {
	assert.Equal(t, StateAdd, AbnormalResetMessage(true).State)
	assert.Equal(t, StateRemove, AbnormalResetMessage(false).State)
	assert.Equal(t, TypeErr, AbnormalResetMessage(true).Type)
}

func TestAudioMessage(t *testing.T) {
	dev := &usbdev.Device{VendorID: 0x04e8, ProductID: 0xa051, BusNum: 1, DevNum: 7}
	m := AudioMessage(dev, 2, true)

	assert.Equal(t, []string{
		"TYPE=usbaudio",
		"STATE=ADD",
		"ID=04E8/A051",
		"PATH=/dev/bus/usb/001/007",
		"CARDNUM=2",
	}, m.Env())
}

func TestEmitterNilSender(t *testing.T) {
	e := NewEmitter(nil, 0, nil)
	assert.NoError(t, e.Emit(MDMMessage()))
}

func TestEmitterReportsFailure(t *testing.T) {
	boom := errors.New("boom")
	e := NewEmitter(SenderFunc(func([]string) error { return boom }), 0, nil)
	assert.ErrorIs(t, e.Emit(RepeatCCIRQMessage()), boom)
}

func TestEmitterRateLimitsWarmReset(t *testing.T) {
	var sent [][]string
	e := NewEmitter(SenderFunc(func(env []string) error {
		sent = append(sent, env)
		return nil
	}), time.Hour, nil)

	_, err := e.EmitCerti(WarmReset)
	require.NoError(t, err)
	_, err = e.EmitCerti(WarmReset)
	assert.ErrorIs(t, err, ErrRateLimited)

	_, err = e.EmitCerti(NoResponse)
	require.NoError(t, err, "plain no_response is never limited")

	assert.Len(t, sent, 2)
}
