package gpio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosim"
)

func newSim(t *testing.T) *gpiosim.Simpleton {
	t.Helper()
	s, err := gpiosim.NewSimpleton(4)
	if err != nil {
		t.Skipf("gpio-sim unavailable: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestOutputDrivesLine(t *testing.T) {
	s := newSim(t)

	out, err := RequestOutput(s.DevPath(), 0, "")
	require.NoError(t, err)
	defer out.Close()

	level, err := s.Level(0)
	require.NoError(t, err)
	assert.Equal(t, 0, level, "requested low")

	require.NoError(t, out.SetValue(1))
	level, err = s.Level(0)
	require.NoError(t, err)
	assert.Equal(t, 1, level)
}

func TestInputReportsEdges(t *testing.T) {
	s := newSim(t)

	in, err := RequestInput(s.DevPath(), 1, "", 0)
	require.NoError(t, err)
	defer in.Close()

	levels := make(chan int, 4)
	require.NoError(t, in.Watch(func(level int) { levels <- level }))

	require.NoError(t, s.Pullup(1))
	select {
	case l := <-levels:
		assert.Equal(t, 1, l)
	case <-time.After(time.Second):
		t.Fatal("no rising edge")
	}

	v, err := in.Value()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, s.Pulldown(1))
	select {
	case l := <-levels:
		assert.Equal(t, 0, l)
	case <-time.After(time.Second):
		t.Fatal("no falling edge")
	}
}

func TestOpenAndClose(t *testing.T) {
	s := newSim(t)

	ls, err := Open(Config{Chip: s.DevPath(), RedriverEnable: 2, VbusDetect: 3})
	require.NoError(t, err)
	assert.NotNil(t, ls.RedriverLine())
	assert.NotNil(t, ls.VbusDetectLine())
	require.NoError(t, ls.Close())

	// Released lines can be requested again.
	ls, err = Open(Config{Chip: s.DevPath(), RedriverEnable: 2, VbusDetect: NoLine})
	require.NoError(t, err)
	assert.Nil(t, ls.VbusDetectLine())
	require.NoError(t, ls.Close())
}

func TestOpenUnwindsOnFailure(t *testing.T) {
	s := newSim(t)

	_, err := Open(Config{Chip: s.DevPath(), RedriverEnable: 99, VbusDetect: 1})
	require.Error(t, err)

	in, err := RequestInput(s.DevPath(), 1, "", 0)
	require.NoError(t, err, "vbus detect line was released")
	require.NoError(t, in.Close())
}

func TestOpenMissingChip(t *testing.T) {
	_, err := Open(Config{Chip: "/dev/gpiochip-missing", RedriverEnable: 0, VbusDetect: NoLine})
	assert.Error(t, err)
}
