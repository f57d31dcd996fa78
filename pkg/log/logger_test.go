package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockLogger records events for testing
type mockLogger struct {
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestDiscard(t *testing.T) {
	Discard.Log(Event{Timestamp: time.Now()})
}

func TestFuncLogger(t *testing.T) {
	var got []string
	var l Logger = Func(func(e Event) { got = append(got, e.SessionID) })
	l.Log(Event{SessionID: "s1"})
	if len(got) != 1 || got[0] != "s1" {
		t.Errorf("got %v, want [s1]", got)
	}
}

func TestTeeCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}

	tee := Tee(mock1, nil, mock2)
	tee.Log(Event{SessionID: "s1", Category: CategoryControl})

	for i, mock := range []*mockLogger{mock1, mock2} {
		if len(mock.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(mock.events))
			continue
		}
		if mock.events[0].SessionID != "s1" {
			t.Errorf("logger %d: SessionID = %q, want %q", i, mock.events[0].SessionID, "s1")
		}
	}
}

func TestTeeCollapses(t *testing.T) {
	if got := Tee(); got != Discard {
		t.Errorf("Tee() = %T, want Discard", got)
	}
	if got := Tee(nil, nil); got != Discard {
		t.Errorf("Tee(nil, nil) = %T, want Discard", got)
	}
	only := &mockLogger{}
	if got := Tee(nil, only); got != Logger(only) {
		t.Errorf("Tee(nil, l) = %T, want l itself", got)
	}
}

func TestRingLoggerKeepsMostRecent(t *testing.T) {
	r := NewRingLogger(3)
	if got := len(r.Events()); got != 0 {
		t.Fatalf("empty ring has %d events", got)
	}

	for _, id := range []string{"1", "2"} {
		r.Log(Event{SessionID: id})
	}
	if got := r.Events(); len(got) != 2 || got[0].SessionID != "1" {
		t.Fatalf("Events() = %+v, want [1 2]", got)
	}

	for _, id := range []string{"3", "4", "5"} {
		r.Log(Event{SessionID: id})
	}
	got := r.Events()
	want := []string{"3", "4", "5"}
	if len(got) != len(want) {
		t.Fatalf("len(Events()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].SessionID != want[i] {
			t.Errorf("Events()[%d] = %q, want %q", i, got[i].SessionID, want[i])
		}
	}
}

func TestRingLoggerDefaultSize(t *testing.T) {
	r := NewRingLogger(0)
	for i := 0; i < DefaultRingSize+5; i++ {
		r.Log(Event{})
	}
	if got := len(r.Events()); got != DefaultRingSize {
		t.Errorf("len(Events()) = %d, want %d", got, DefaultRingSize)
	}
}

func TestSlogAdapterLogsCableEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Log(Event{
		Timestamp: time.Now(),
		SessionID: "s1",
		Category:  CategoryCable,
		Cable:     &CableEvent{Event: "host_id", Status: "blocked", Reason: "host_disabled"},
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["msg"] != "usblog" {
		t.Errorf("msg: got %v, want usblog", entry["msg"])
	}
	if entry["event"] != "host_id" {
		t.Errorf("event: got %v, want host_id", entry["event"])
	}
	if entry["reason"] != "host_disabled" {
		t.Errorf("reason: got %v, want host_disabled", entry["reason"])
	}
	if entry["category"] != "CABLE" {
		t.Errorf("category: got %v, want CABLE", entry["category"])
	}
}

func TestSlogAdapterLogsPortClassBlock(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Log(Event{Category: CategoryPortClassBlock, PortClassBlock: &PortClassBlockEvent{DeviceClass: 0, InterfaceClass: 8}})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["interface_class"] != float64(8) {
		t.Errorf("interface_class: got %v, want 8", entry["interface_class"])
	}
}

func TestZerologAdapterLogsExtraEvent(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))

	adapter.Log(Event{
		Timestamp: time.Now(),
		SessionID: "s2",
		Category:  CategoryExtra,
		Extra:     &ExtraEvent{Kind: ExtraOvercurrent, Detail: "vbus drop"},
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["component"] != "usblog" {
		t.Errorf("component: got %v, want usblog", entry["component"])
	}
	if entry["kind"] != "USBHOST_OVERCURRENT" {
		t.Errorf("kind: got %v, want USBHOST_OVERCURRENT", entry["kind"])
	}
	if entry["session"] != "s2" {
		t.Errorf("session: got %v, want s2", entry["session"])
	}
}

func TestZerologAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.InfoLevel))

	adapter.Log(Event{Category: CategoryCable, Cable: &CableEvent{Event: "vbus", Status: "enabled"}})

	if buf.Len() != 0 {
		t.Errorf("debug event written at info level: %s", buf.String())
	}
}
