package notify

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usb-notify/usbnotify-go/pkg/event"
	"github.com/usb-notify/usbnotify-go/pkg/log"
)

func TestTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usb.ulog")
	cfg := testConfig()
	cfg.TelemetryPath = path
	h := newHarness(t, cfg)

	h.request(t, event.Vbus, true)
	h.request(t, event.Vbus, false)

	events, err := h.n.Trace(log.Filter{SessionID: h.n.SessionID(), Event: "vbus"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "enabled", events[0].Cable.Status)
	assert.Equal(t, "disabled", events[1].Cable.Status)
	assert.Len(t, h.cableEvents(), 2, "collaborator sink still receives events")

	first := h.n.SessionID()
	require.NoError(t, h.n.Close())

	next := newHarness(t, cfg)
	next.request(t, event.Vbus, true)
	events, err = next.n.Trace(log.Filter{Event: "vbus"})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, first, events[0].SessionID)
	assert.Equal(t, next.n.SessionID(), events[2].SessionID)
}

func TestTraceWithoutFile(t *testing.T) {
	h := newHarness(t, testConfig())
	_, err := h.n.Trace(log.Filter{})
	assert.ErrorIs(t, err, ErrNoTraceFile)
}

func TestNewFailsOnUnopenableTrace(t *testing.T) {
	cfg := testConfig()
	cfg.TelemetryPath = filepath.Join(t.TempDir(), "missing", "usb.ulog")
	rec := &recorder{}

	_, err := New(cfg, Collaborators{Hooks: rec.hooks()})
	assert.ErrorContains(t, err, "telemetry trace")
}
