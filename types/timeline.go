package types

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"
)

// Event is a single protocol event. Timestamp is relative to the start of the
// trial.
type Event struct {
	Kind       EventKind
	Timestamp  time.Duration
	Middleware string
	Thing      string
	Scenario   string
	Function   string
	Value      float64
	ErrorCode  int
	Payload    string
}

// eventJSON is the wire form of an event. Timestamps are carried as seconds.
type eventJSON struct {
	Kind       EventKind `json:"kind"`
	Timestamp  float64   `json:"ts"`
	Middleware string    `json:"middleware,omitempty"`
	Thing      string    `json:"thing,omitempty"`
	Scenario   string    `json:"scenario,omitempty"`
	Function   string    `json:"function,omitempty"`
	Value      float64   `json:"value,omitempty"`
	ErrorCode  int       `json:"errorCode,omitempty"`
	Payload    string    `json:"payload,omitempty"`
}

func (this Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		Kind:       this.Kind,
		Timestamp:  this.Timestamp.Seconds(),
		Middleware: this.Middleware,
		Thing:      this.Thing,
		Scenario:   this.Scenario,
		Function:   this.Function,
		Value:      this.Value,
		ErrorCode:  this.ErrorCode,
		Payload:    this.Payload,
	})
}

func (this *Event) UnmarshalJSON(data []byte) error {
	var e eventJSON

	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}

	*this = Event{
		Kind:       e.Kind,
		Timestamp:  time.Duration(math.Round(e.Timestamp * float64(time.Second))),
		Middleware: e.Middleware,
		Thing:      e.Thing,
		Scenario:   e.Scenario,
		Function:   e.Function,
		Value:      e.Value,
		ErrorCode:  e.ErrorCode,
		Payload:    e.Payload,
	}

	return nil
}

// Timeline is the ordered sequence of events captured during a single trial.
// Order is kept exactly as produced.
type Timeline []Event

// ReadTimeline decodes a JSON lines event log. Blank lines are skipped; a
// malformed line fails the whole read.
func ReadTimeline(r io.Reader) (Timeline, error) {
	var (
		timeline Timeline
		scanner  = bufio.NewScanner(r)
		line     int
	)

	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line++

		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}

		var e Event

		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decoding event on line %d: %w", line, err)
		}

		timeline = append(timeline, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}

	return timeline, nil
}

// WriteTo encodes the timeline as JSON lines.
func (this Timeline) WriteTo(w io.Writer) (int64, error) {
	var n int64

	for _, e := range this {
		data, err := json.Marshal(e)
		if err != nil {
			return n, fmt.Errorf("encoding event: %w", err)
		}

		c, err := w.Write(append(data, '\n'))
		n += int64(c)

		if err != nil {
			return n, err
		}
	}

	return n, nil
}

// Filter returns the events of the given kinds, in timeline order.
func (this Timeline) Filter(kinds ...EventKind) Timeline {
	want := make(map[EventKind]struct{}, len(kinds))

	for _, k := range kinds {
		want[k] = struct{}{}
	}

	var filtered Timeline

	for _, e := range this {
		if _, ok := want[e.Kind]; ok {
			filtered = append(filtered, e)
		}
	}

	return filtered
}

// Window returns the events with a timestamp in [from, to], in timeline order.
func (this Timeline) Window(from, to time.Duration) Timeline {
	var windowed Timeline

	for _, e := range this {
		if e.Timestamp >= from && e.Timestamp <= to {
			windowed = append(windowed, e)
		}
	}

	return windowed
}

// Span returns the time between the earliest and latest event.
func (this Timeline) Span() time.Duration {
	if len(this) == 0 {
		return 0
	}

	min, max := this[0].Timestamp, this[0].Timestamp

	for _, e := range this[1:] {
		if e.Timestamp < min {
			min = e.Timestamp
		}

		if e.Timestamp > max {
			max = e.Timestamp
		}
	}

	return max - min
}
