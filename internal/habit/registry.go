// Package habit holds the habit record model: calendar dates, per-habit
// completion histories, and the Registry that owns every record.
package habit

import (
	"fmt"
	"slices"
	"strings"
)

// Registry owns the set of habits keyed by name. It keeps insertion order
// for listing. A Registry is not safe for concurrent use; the application
// serializes access to it.
type Registry struct {
	order   []string
	records map[string]*Record
	clock   Clock
}

// NewRegistry returns an empty registry that stamps new habits with the
// date reported by clock (time.Now when nil).
func NewRegistry(clock Clock) *Registry {
	return &Registry{
		records: make(map[string]*Record),
		clock:   clock,
	}
}

// AddHabit registers a new habit created today with an empty history.
func (r *Registry) AddHabit(name, description string) (Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, ErrInvalidName
	}
	if _, ok := r.records[name]; ok {
		return Record{}, fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	rec := &Record{
		Name:        name,
		Description: strings.TrimSpace(description),
		Created:     Today(r.clock),
		history:     History{},
	}
	r.insert(rec)
	return rec.clone(), nil
}

// Restore inserts a fully formed record, typically one read back from
// storage. The same name rules as AddHabit apply.
func (r *Registry) Restore(rec Record) error {
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.Name == "" {
		return ErrInvalidName
	}
	if _, ok := r.records[rec.Name]; ok {
		return fmt.Errorf("%q: %w", rec.Name, ErrDuplicateName)
	}
	c := rec.clone()
	r.insert(&c)
	return nil
}

// SetClock replaces the clock used to stamp new habits.
func (r *Registry) SetClock(c Clock) {
	r.clock = c
}

// Clone returns an independent copy of r sharing its clock.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		order:   slices.Clone(r.order),
		records: make(map[string]*Record, len(r.records)),
		clock:   r.clock,
	}
	for name, rec := range r.records {
		cp := rec.clone()
		c.records[name] = &cp
	}
	return c
}

// lookup finds a habit by name, ignoring surrounding whitespace the same
// way AddHabit does.
func (r *Registry) lookup(name string) (*Record, error) {
	name = strings.TrimSpace(name)
	rec, ok := r.records[name]
	if !ok {
		return nil, fmt.Errorf("habit %q: %w", name, ErrNotFound)
	}
	return rec, nil
}

func (r *Registry) insert(rec *Record) {
	r.records[rec.Name] = rec
	r.order = append(r.order, rec.Name)
}

// RemoveHabit deletes the named habit. Like every lookup by name, the
// name is trimmed first.
func (r *Registry) RemoveHabit(name string) error {
	rec, err := r.lookup(name)
	if err != nil {
		return err
	}
	delete(r.records, rec.Name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == rec.Name })
	return nil
}

// Get returns a snapshot of the named habit.
func (r *Registry) Get(name string) (Record, error) {
	rec, err := r.lookup(name)
	if err != nil {
		return Record{}, err
	}
	return rec.clone(), nil
}

// List returns snapshots of all habits in insertion order.
func (r *Registry) List() []Record {
	out := make([]Record, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.records[name].clone())
	}
	return out
}

// Names returns the registered names in insertion order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Len returns the number of registered habits.
func (r *Registry) Len() int {
	return len(r.order)
}

// SetCompletion marks or clears date d on the named habit.
func (r *Registry) SetCompletion(name string, d Date, done bool) error {
	rec, err := r.lookup(name)
	if err != nil {
		return err
	}
	rec.SetCompletion(d, done)
	return nil
}

// IsDone reports whether the named habit is marked done on d.
func (r *Registry) IsDone(name string, d Date) (bool, error) {
	rec, err := r.lookup(name)
	if err != nil {
		return false, err
	}
	return rec.IsDone(d), nil
}

// Merge folds other into r. Habits missing from r are appended in other's
// order; habits present in both keep r's description and creation date and
// gain the union of both histories. It returns the number of habits added.
func (r *Registry) Merge(other *Registry) int {
	added := 0
	for _, name := range other.order {
		src := other.records[name]
		dst, ok := r.records[name]
		if !ok {
			c := src.clone()
			r.insert(&c)
			added++
			continue
		}
		for d := range src.history {
			dst.SetCompletion(d, true)
		}
	}
	return added
}
