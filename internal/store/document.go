package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/papapumpkin/habitflow/internal/habit"
)

// wireHabit is one entry of the persisted document, keyed by habit name.
// completion_history only ever holds true values; a false value read from
// an older file is treated as absent.
type wireHabit struct {
	Description       string          `json:"description"`
	CreationDate      string          `json:"creation_date"`
	CompletionHistory map[string]bool `json:"completion_history"`
}

func toWire(rec habit.Record) wireHabit {
	dates := rec.History().Dates()
	w := wireHabit{
		Description:       rec.Description,
		CreationDate:      rec.Created.String(),
		CompletionHistory: make(map[string]bool, len(dates)),
	}
	for _, d := range dates {
		w.CompletionHistory[d.String()] = true
	}
	return w
}

func fromWire(name string, w wireHabit) (habit.Record, error) {
	created, err := habit.ParseDate(w.CreationDate)
	if err != nil {
		return habit.Record{}, fmt.Errorf("habit %q creation_date: %w", name, err)
	}
	h := habit.History{}
	for s, done := range w.CompletionHistory {
		if !done {
			continue
		}
		d, err := habit.ParseDate(s)
		if err != nil {
			return habit.Record{}, fmt.Errorf("habit %q completion_history: %w", name, err)
		}
		h[d] = struct{}{}
	}
	return habit.NewRecord(name, w.Description, created, h), nil
}

// EncodeDocument renders reg as the persisted JSON document. Object keys
// follow registry order so listing order survives a round trip.
func EncodeDocument(reg *habit.Registry) ([]byte, error) {
	var raw bytes.Buffer
	raw.WriteByte('{')
	for i, rec := range reg.List() {
		if i > 0 {
			raw.WriteByte(',')
		}
		key, err := json.Marshal(rec.Name)
		if err != nil {
			return nil, fmt.Errorf("encode name %q: %w", rec.Name, err)
		}
		val, err := json.Marshal(toWire(rec))
		if err != nil {
			return nil, fmt.Errorf("encode habit %q: %w", rec.Name, err)
		}
		raw.Write(key)
		raw.WriteByte(':')
		raw.Write(val)
	}
	raw.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "    "); err != nil {
		return nil, fmt.Errorf("indent document: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// DecodeDocument parses the persisted JSON document into a registry,
// keeping the key order of the file. Any malformed content is reported
// wrapped in habit.ErrCorruptState.
func DecodeDocument(data []byte, clock habit.Clock) (*habit.Registry, error) {
	reg, err := decodeDocument(data, clock)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", habit.ErrCorruptState, err)
	}
	return reg, nil
}

func decodeDocument(data []byte, clock habit.Clock) (*habit.Registry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("document must be a JSON object, got %v", tok)
	}

	reg := habit.NewRegistry(clock)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read habit name: %w", err)
		}
		name, _ := tok.(string)

		var w wireHabit
		if err := dec.Decode(&w); err != nil {
			return nil, fmt.Errorf("decode habit %q: %w", name, err)
		}
		rec, err := fromWire(name, w)
		if err != nil {
			return nil, err
		}
		if err := reg.Restore(rec); err != nil {
			return nil, err
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read document end: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after document")
	}
	return reg, nil
}
