// Package log records a machine-readable trace of the notifier: cable
// transitions, out-of-band conditions, refused devices and control requests.
//
// It is separate from operational logging (slog). Each record is an Event
// with one typed payload, stamped with the session of the notifier that
// produced it.
//
// # Sinks
//
//	ring := log.NewRingLogger(256)
//	file, _ := log.NewFileLogger("/data/log/usb.ulog", 1<<20)
//	console := log.NewSlogAdapter(slog.Default())
//
//	c.Telemetry = log.Tee(ring, file, console)
//
// ZerologAdapter serves hosts that already log through zerolog.
//
// # File Format
//
// A trace file is a sequence of CBOR items with integer keys. A size-capped
// FileLogger keeps the previous file next to the current one under
// RotatedSuffix; ReadFile and FileLogger.Read return both, oldest first.
package log
