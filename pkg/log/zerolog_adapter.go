package log

import "github.com/rs/zerolog"

// ZerologAdapter writes telemetry events to a zerolog.Logger at Debug level.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates an adapter writing to logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger.With().Str("component", "usblog").Logger()}
}

// Log writes the event.
func (a *ZerologAdapter) Log(event Event) {
	e := a.logger.Debug().
		Time("ts", event.Timestamp).
		Str("session", event.SessionID).
		Str("category", event.Category.String())

	switch {
	case event.Cable != nil:
		e = e.Str("event", event.Cable.Event).
			Str("status", event.Cable.Status).
			Bool("virtual", event.Cable.Virtual)
		if event.Cable.Reason != "" {
			e = e.Str("reason", event.Cable.Reason)
		}
	case event.Extra != nil:
		e = e.Str("kind", event.Extra.Kind.String()).Str("detail", event.Extra.Detail)
	case event.PortClassBlock != nil:
		e = e.Uint8("device_class", event.PortClassBlock.DeviceClass).
			Uint8("interface_class", event.PortClassBlock.InterfaceClass)
	case event.Control != nil:
		e = e.Str("control", event.Control.Name).
			Str("value", event.Control.Value).
			Bool("rejected", event.Control.Rejected)
	case event.Error != nil:
		e = e.Str("error_msg", event.Error.Message).Str("error_context", event.Error.Context)
	}

	e.Msg("usblog")
}

var _ Logger = (*ZerologAdapter)(nil)
