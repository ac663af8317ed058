package store

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/habitflow/internal/habit"
)

// Format names an export/import encoding.
type Format string

// Supported export formats. FormatJSON is the persisted document layout.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatTOML, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, toml or yaml)", s)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return FormatJSON
}

// exportDoc is the TOML and YAML layout. Habits are a list so that
// registry order is preserved.
type exportDoc struct {
	Habits []exportHabit `toml:"habit" yaml:"habits"`
}

type exportHabit struct {
	Name         string   `toml:"name" yaml:"name"`
	Description  string   `toml:"description" yaml:"description"`
	CreationDate string   `toml:"creation_date" yaml:"creation_date"`
	Completed    []string `toml:"completed" yaml:"completed"`
}

func toExport(reg *habit.Registry) exportDoc {
	var doc exportDoc
	for _, rec := range reg.List() {
		dates := rec.History().Dates()
		completed := make([]string, len(dates))
		for i, d := range dates {
			completed[i] = d.String()
		}
		doc.Habits = append(doc.Habits, exportHabit{
			Name:         rec.Name,
			Description:  rec.Description,
			CreationDate: rec.Created.String(),
			Completed:    completed,
		})
	}
	return doc
}

func fromExport(doc exportDoc, clock habit.Clock) (*habit.Registry, error) {
	reg := habit.NewRegistry(clock)
	for _, eh := range doc.Habits {
		created, err := habit.ParseDate(eh.CreationDate)
		if err != nil {
			return nil, fmt.Errorf("habit %q creation_date: %w", eh.Name, err)
		}
		h := habit.History{}
		for _, s := range eh.Completed {
			d, err := habit.ParseDate(s)
			if err != nil {
				return nil, fmt.Errorf("habit %q completed: %w", eh.Name, err)
			}
			h[d] = struct{}{}
		}
		if err := reg.Restore(habit.NewRecord(strings.TrimSpace(eh.Name), eh.Description, created, h)); err != nil {
			return nil, fmt.Errorf("habit %q: %w", eh.Name, err)
		}
	}
	return reg, nil
}

// Encode writes reg to w in format f.
func Encode(w io.Writer, reg *habit.Registry, f Format) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = EncodeDocument(reg)
	case FormatTOML:
		data, err = toml.Marshal(toExport(reg))
	case FormatYAML:
		data, err = yaml.Marshal(toExport(reg))
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", f, err)
	}
	return nil
}

// Decode reads a registry in format f from r. Malformed input is reported
// wrapped in habit.ErrCorruptState.
func Decode(r io.Reader, f Format, clock habit.Clock) (*habit.Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f, err)
	}

	if f == FormatJSON {
		return DecodeDocument(data, clock)
	}

	var doc exportDoc
	switch f {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", habit.ErrCorruptState, f, err)
	}

	reg, err := fromExport(doc, clock)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", habit.ErrCorruptState, err)
	}
	return reg, nil
}
