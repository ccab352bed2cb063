package capture

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/ironsheep/trace-shapes-mcp/internal/geometry"
)

// SerialOptions configures a pointer device attached to a serial port.
type SerialOptions struct {
	BaudRate int `json:"baud_rate"`
	DataBits int `json:"data_bits"`
}

// DefaultBaudRate is used when SerialOptions.BaudRate is zero.
const DefaultBaudRate = 115200

func (o SerialOptions) mode() (*serial.Mode, error) {
	if o.BaudRate == 0 {
		o.BaudRate = DefaultBaudRate
	}
	if o.DataBits == 0 {
		o.DataBits = 8
	}
	if o.BaudRate < 0 {
		return nil, fmt.Errorf("invalid baud rate %d", o.BaudRate)
	}
	if o.DataBits < 5 || o.DataBits > 8 {
		return nil, fmt.Errorf("invalid data bits %d", o.DataBits)
	}
	return &serial.Mode{
		BaudRate: o.BaudRate,
		DataBits: o.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}, nil
}

// OpenSerial opens a pointer device that reports one "x,y" line per
// movement on the serial port at path.
func OpenSerial(path string, opts SerialOptions) (*StreamSource, error) {
	mode, err := opts.mode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return NewStreamSource(port), nil
}

// StreamSource tracks the latest position reported on a line-oriented
// stream. Lines hold "x,y" or "x y"; blank lines and lines starting with
// '#' are ignored, malformed lines are counted and skipped.
//
// Position returns ErrSourceUnavailable until the first position arrives
// and after the stream ends.
type StreamSource struct {
	r io.Reader

	mu        sync.Mutex
	pos       geometry.Point
	have      bool
	err       error
	malformed int
	done      chan struct{}
}

// NewStreamSource starts reading r in the background.
func NewStreamSource(r io.Reader) *StreamSource {
	s := &StreamSource{r: r, done: make(chan struct{})}
	go s.read()
	return s
}

func (s *StreamSource) read() {
	defer close(s.done)

	scanner := bufio.NewScanner(s.r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := ParsePosition(line)
		s.mu.Lock()
		if err != nil {
			s.malformed++
		} else {
			s.pos, s.have = p, true
		}
		s.mu.Unlock()
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Position returns the most recent reported position.
func (s *StreamSource) Position() (geometry.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return geometry.Point{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, s.err)
	}
	if !s.have {
		return geometry.Point{}, fmt.Errorf("%w: no position reported yet", ErrSourceUnavailable)
	}
	return s.pos, nil
}

// Malformed returns the number of lines that could not be parsed.
func (s *StreamSource) Malformed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.malformed
}

// Done is closed when the stream ends.
func (s *StreamSource) Done() <-chan struct{} {
	return s.done
}

// Close closes the underlying stream if it is closable.
func (s *StreamSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ParsePosition parses "x,y" or "x y" into a point.
func ParsePosition(line string) (geometry.Point, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return geometry.Point{}, fmt.Errorf("position %q: want two coordinates", line)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return geometry.Point{}, fmt.Errorf("position %q: %w", line, err)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return geometry.Point{}, fmt.Errorf("position %q: %w", line, err)
	}
	return geometry.Pt(x, y), nil
}
