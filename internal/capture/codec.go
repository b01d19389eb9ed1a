package capture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnknownKind is returned when a decoded envelope names no known kind.
var ErrUnknownKind = errors.New("unknown event kind")

// ErrMalformed is returned when a line cannot be decoded. The decoder stays
// usable: the next call reads the following line.
var ErrMalformed = errors.New("malformed event")

// envelope is one NDJSON line: the kind name, the sending producer for raw
// streams, and the event body.
type envelope struct {
	Kind       string              `json:"kind"`
	ProducerID uint64              `json:"producer_id,omitempty"`
	Event      jsoniter.RawMessage `json:"event"`
}

// Encoder writes events as newline-delimited JSON envelopes.
// It is not safe for concurrent use.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// EncodeClient writes a normalized event.
func (e *Encoder) EncodeClient(ev ClientEvent) error {
	if ev == nil {
		return fmt.Errorf("encoding client event: %s", KindUnset)
	}
	return e.encode(0, ev.Kind(), ev)
}

// EncodeProducer writes a raw event tagged with the producer that sent it.
func (e *Encoder) EncodeProducer(producerID uint64, ev ProducerEvent) error {
	if ev == nil {
		return fmt.Errorf("encoding producer event: %s", KindUnset)
	}
	return e.encode(producerID, ev.Kind(), ev)
}

func (e *Encoder) encode(producerID uint64, kind Kind, ev any) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", kind, err)
	}
	line, err := json.Marshal(envelope{Kind: kind.String(), ProducerID: producerID, Event: body})
	if err != nil {
		return fmt.Errorf("marshaling %s envelope: %w", kind, err)
	}
	if _, err := e.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing %s: %w", kind, err)
	}
	return nil
}

// Decoder reads events written by an Encoder. Blank lines are skipped.
type Decoder struct {
	r    *bufio.Reader
	line int
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 64<<10)}
}

// Line returns the number of the last line read.
func (d *Decoder) Line() int {
	return d.line
}

// DecodeProducer reads the next raw event. The returned producer id is zero
// when the envelope does not carry one. It returns io.EOF at end of input.
func (d *Decoder) DecodeProducer() (uint64, ProducerEvent, error) {
	env, kind, err := d.next()
	if err != nil {
		return 0, nil, err
	}
	ev, ok := NewProducerEvent(kind)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %s is not a producer event", ErrUnknownKind, env.Kind)
	}
	if err := json.Unmarshal(env.Event, ev); err != nil {
		return 0, nil, fmt.Errorf("%w: unmarshaling %s on line %d: %w", ErrMalformed, kind, d.line, err)
	}
	return env.ProducerID, ev, nil
}

// DecodeClient reads the next normalized event. It returns io.EOF at end of
// input.
func (d *Decoder) DecodeClient() (ClientEvent, error) {
	env, kind, err := d.next()
	if err != nil {
		return nil, err
	}
	ev, ok := NewClientEvent(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a client event", ErrUnknownKind, env.Kind)
	}
	if err := json.Unmarshal(env.Event, ev); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling %s on line %d: %w", ErrMalformed, kind, d.line, err)
	}
	return ev, nil
}

func (d *Decoder) next() (envelope, Kind, error) {
	var env envelope
	line, err := d.readLine()
	if err != nil {
		return env, KindUnset, err
	}
	if err := json.Unmarshal(line, &env); err != nil {
		return env, KindUnset, fmt.Errorf("%w: decoding envelope on line %d: %w", ErrMalformed, d.line, err)
	}
	kind, ok := ParseKind(env.Kind)
	if !ok {
		return env, KindUnset, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}
	return env, kind, nil
}

func (d *Decoder) readLine() ([]byte, error) {
	for {
		line, err := d.r.ReadBytes('\n')
		if len(line) > 0 {
			d.line++
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
				return trimmed, nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("reading line %d: %w", d.line+1, err)
		}
	}
}
