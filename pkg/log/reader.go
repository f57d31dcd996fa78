package log

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects events. Zero fields match everything.
type Filter struct {
	// SessionID filters by exact session match.
	SessionID string

	// Category filters by event category.
	Category *Category

	// Event filters cable events by event name.
	Event string

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time
}

func (f *Filter) matches(event Event) bool {
	if f.SessionID != "" && event.SessionID != f.SessionID {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.Event != "" && (event.Cable == nil || event.Cable.Event != f.Event) {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// Reader streams events from a trace written by FileLogger.
type Reader struct {
	dec    *cbor.Decoder
	filter Filter
}

// NewReader reads the events matching filter from r.
func NewReader(r io.Reader, filter Filter) *Reader {
	return &Reader{dec: decMode.NewDecoder(r), filter: filter}
}

// Next returns the next matching event, or io.EOF at the end of the trace.
// A record cut short at the end counts as the end.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		err := r.dec.Decode(&event)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return Event{}, io.EOF
		case err != nil:
			return Event{}, err
		}
		if r.filter.matches(event) {
			return event, nil
		}
	}
}

// ReadFile returns the events matching filter from path+RotatedSuffix and
// path, oldest first. Missing files are skipped; if neither exists the
// error wraps fs.ErrNotExist.
func ReadFile(path string, filter Filter) ([]Event, error) {
	var (
		out   []Event
		found bool
	)
	for _, p := range []string{path + RotatedSuffix, path} {
		f, err := os.Open(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		found = true
		out, err = readAll(NewReader(f, filter), out)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return out, nil
}

func readAll(r *Reader, out []Event) ([]Event, error) {
	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, event)
	}
}
