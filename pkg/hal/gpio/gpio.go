package gpio

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
	"golang.org/x/sync/errgroup"

	"github.com/usb-notify/usbnotify-go/pkg/hal"
)

// DefaultConsumer labels the lines requested by this package.
const DefaultConsumer = "usb_notify"

// NoLine disables a line in Config.
const NoLine = -1

var (
	_ hal.OutputLine = (*Output)(nil)
	_ hal.InputLine  = (*Input)(nil)
)

// Output is a requested output line.
type Output struct {
	line *gpiocdev.Line
}

// RequestOutput requests offset on chip as an output driven low.
func RequestOutput(chip string, offset int, consumer string) (*Output, error) {
	if consumer == "" {
		consumer = DefaultConsumer
	}
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, errors.Wrapf(err, "request output %s:%d", chip, offset)
	}
	return &Output{line: l}, nil
}

// SetValue drives the line.
func (o *Output) SetValue(value int) error {
	return errors.Wrap(o.line.SetValue(value), "set output value")
}

// Close releases the line.
func (o *Output) Close() error {
	return errors.Wrap(o.line.Close(), "close output")
}

// Input is a requested input line reporting both edges.
type Input struct {
	line *gpiocdev.Line

	mu      sync.Mutex
	handler func(level int)
}

// RequestInput requests offset on chip as an input with edge detection on
// both edges. A non-zero debounce filters glitches shorter than it.
func RequestInput(chip string, offset int, consumer string, debounce time.Duration) (*Input, error) {
	if consumer == "" {
		consumer = DefaultConsumer
	}
	in := &Input{}
	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithConsumer(consumer),
		gpiocdev.WithEventHandler(in.onEvent),
	}
	if debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(debounce))
	}
	l, err := gpiocdev.RequestLine(chip, offset, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "request input %s:%d", chip, offset)
	}
	in.line = l
	return in, nil
}

// Value reads the current level.
func (i *Input) Value() (int, error) {
	v, err := i.line.Value()
	if err != nil {
		return 0, errors.Wrap(err, "read input value")
	}
	return v, nil
}

// Watch installs fn as the edge handler. Edges that arrive while no handler
// is installed are dropped.
func (i *Input) Watch(fn func(level int)) error {
	i.mu.Lock()
	i.handler = fn
	i.mu.Unlock()
	return nil
}

// Close releases the line. No handler runs after Close returns.
func (i *Input) Close() error {
	err := i.line.Close()
	i.mu.Lock()
	i.handler = nil
	i.mu.Unlock()
	return errors.Wrap(err, "close input")
}

func (i *Input) onEvent(evt gpiocdev.LineEvent) {
	level := 0
	if evt.Type == gpiocdev.LineEventRisingEdge {
		level = 1
	}
	i.mu.Lock()
	fn := i.handler
	i.mu.Unlock()
	if fn != nil {
		fn(level)
	}
}

// Config selects the lines of a port.
type Config struct {
	// Chip is the gpiochip name or device path.
	Chip string

	// RedriverEnable is the redriver enable output offset, or NoLine.
	RedriverEnable int

	// VbusDetect is the VBUS detect input offset, or NoLine.
	VbusDetect int

	// Debounce filters VBUS detect glitches. Zero disables debouncing.
	Debounce time.Duration

	// Consumer labels the requested lines. Empty selects DefaultConsumer.
	Consumer string
}

// Lines holds the lines of one port. Unconfigured lines are nil.
type Lines struct {
	Redriver   *Output
	VbusDetect *Input
}

// Open requests every configured line. On failure the lines already
// requested are released.
func Open(cfg Config) (*Lines, error) {
	ls := &Lines{}
	if cfg.VbusDetect != NoLine {
		in, err := RequestInput(cfg.Chip, cfg.VbusDetect, cfg.Consumer, cfg.Debounce)
		if err != nil {
			return nil, errors.WithMessage(err, "vbus detect")
		}
		ls.VbusDetect = in
	}
	if cfg.RedriverEnable != NoLine {
		out, err := RequestOutput(cfg.Chip, cfg.RedriverEnable, cfg.Consumer)
		if err != nil {
			if ls.VbusDetect != nil {
				_ = ls.VbusDetect.Close()
			}
			return nil, errors.WithMessage(err, "redriver enable")
		}
		ls.Redriver = out
	}
	return ls, nil
}

// RedriverLine returns the redriver line as a hal.OutputLine, or nil when
// it is not configured.
func (ls *Lines) RedriverLine() hal.OutputLine {
	if ls.Redriver == nil {
		return nil
	}
	return ls.Redriver
}

// VbusDetectLine returns the VBUS detect line as a hal.InputLine, or nil
// when it is not configured.
func (ls *Lines) VbusDetectLine() hal.InputLine {
	if ls.VbusDetect == nil {
		return nil
	}
	return ls.VbusDetect
}

// Close releases every line and returns the first error.
func (ls *Lines) Close() error {
	var g errgroup.Group
	if ls.Redriver != nil {
		g.Go(ls.Redriver.Close)
	}
	if ls.VbusDetect != nil {
		g.Go(ls.VbusDetect.Close)
	}
	return g.Wait()
}
