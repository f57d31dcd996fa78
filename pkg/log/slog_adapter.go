package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes telemetry events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("category", event.Category.String()),
	}

	switch {
	case event.Cable != nil:
		attrs = append(attrs,
			slog.String("event", event.Cable.Event),
			slog.String("status", event.Cable.Status),
		)
		if event.Cable.Virtual {
			attrs = append(attrs, slog.Bool("virtual", true))
		}
		if event.Cable.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Cable.Reason))
		}
	case event.Extra != nil:
		attrs = append(attrs, slog.String("kind", event.Extra.Kind.String()))
		if event.Extra.Detail != "" {
			attrs = append(attrs, slog.String("detail", event.Extra.Detail))
		}
	case event.PortClassBlock != nil:
		attrs = append(attrs,
			slog.Int("device_class", int(event.PortClassBlock.DeviceClass)),
			slog.Int("interface_class", int(event.PortClassBlock.InterfaceClass)),
		)
	case event.Control != nil:
		attrs = append(attrs,
			slog.String("control", event.Control.Name),
			slog.String("value", event.Control.Value),
			slog.Bool("rejected", event.Control.Rejected),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "usblog", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
