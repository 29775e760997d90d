package consult

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

const maxLineSize = 1 << 20

// Event is one dispatched server-sent event
type Event struct {
	ID    string
	Event string // "message" unless the server names it
	Data  string
	Retry int // reconnection time in milliseconds, 0 when not sent
}

// Done reports whether ev marks the end of a consultation
func (ev Event) Done() bool {
	switch ev.Event {
	case "done", "end":
		return true
	}
	return strings.TrimSpace(ev.Data) == "[DONE]"
}

// Reader reads server-sent events from a stream one at a time, so output
// can be rendered while the body is still arriving
type Reader struct {
	scanner *bufio.Scanner
	lastID  string
	current Event
	err     error
}

// NewReader creates a Reader over r
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Reader{scanner: s}
}

// Next advances to the next event. It returns false at the end of the
// stream or on a read error; see Err.
func (r *Reader) Next() bool {
	var (
		data      strings.Builder
		hasData   bool
		eventType string
		retry     int
	)

	dispatch := func() bool {
		if !hasData {
			return false
		}
		if eventType == "" {
			eventType = "message"
		}
		r.current = Event{ID: r.lastID, Event: eventType, Data: data.String(), Retry: retry}
		return true
	}

	for r.scanner.Scan() {
		line := strings.TrimSuffix(r.scanner.Text(), "\r")

		if line == "" {
			if dispatch() {
				return true
			}
			// blank line without data resets the pending event
			eventType, retry = "", 0
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			eventType = value
		case "id":
			if !strings.Contains(value, "\x00") {
				r.lastID = value
			}
		case "retry":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				retry = n
			}
		}
	}

	r.err = r.scanner.Err()
	// Servers often close without a trailing blank line
	return r.err == nil && dispatch()
}

// Event returns the event read by the last successful Next
func (r *Reader) Event() Event {
	return r.current
}

// Err returns the first read error, nil at a clean end of stream
func (r *Reader) Err() error {
	return r.err
}
