package log

// Logger receives telemetry events. Implementations must be safe for
// concurrent use and must not block; Log is called while a cable
// transition holds the state lock.
type Logger interface {
	Log(event Event)
}

// Discard drops every event.
var Discard Logger = discard{}

type discard struct{}

func (discard) Log(Event) {}

// Func adapts a plain function to Logger.
type Func func(event Event)

// Log calls f.
func (f Func) Log(event Event) { f(event) }

// Tee returns a Logger handing each event to every non-nil logger in
// order. It returns Discard when no logger is left and the logger itself
// when only one is.
func Tee(loggers ...Logger) Logger {
	var t tee
	for _, l := range loggers {
		if l != nil {
			t = append(t, l)
		}
	}
	switch len(t) {
	case 0:
		return Discard
	case 1:
		return t[0]
	}
	return t
}

type tee []Logger

func (t tee) Log(event Event) {
	for _, l := range t {
		l.Log(event)
	}
}
