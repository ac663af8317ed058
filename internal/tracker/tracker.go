// Package tracker is the application service behind every display layer.
// It owns the habit registry, persists the full state after each successful
// mutation, and records each change in the telemetry stream.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/papapumpkin/habitflow/internal/habit"
	"github.com/papapumpkin/habitflow/internal/progress"
	"github.com/papapumpkin/habitflow/internal/store"
	"github.com/papapumpkin/habitflow/internal/telemetry"
)

// Options configures a Tracker.
type Options struct {
	Gateway store.Gateway
	Events  *telemetry.Emitter // nil disables telemetry
	Logger  *zap.Logger        // nil means no-op
	Clock   habit.Clock        // nil means time.Now
}

// Tracker serializes all operations on one registry. It is not safe for
// concurrent use.
type Tracker struct {
	reg     *habit.Registry
	gw      store.Gateway
	events  *telemetry.Emitter
	log     *zap.Logger
	clock   habit.Clock
	warning error
}

// DayStatus pairs a habit with whether it is marked done on a given day.
type DayStatus struct {
	Habit habit.Record
	Done  bool
}

// New loads the registry from opts.Gateway. Corrupt persisted state is not
// an error: the tracker starts empty and Warning reports the cause.
func New(ctx context.Context, opts Options) (*Tracker, error) {
	if opts.Gateway == nil {
		return nil, errors.New("tracker: no gateway configured")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	t := &Tracker{
		gw:     opts.Gateway,
		events: opts.Events,
		log:    log,
		clock:  opts.Clock,
	}
	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload replaces the in-memory registry with the persisted state.
func (t *Tracker) Reload(ctx context.Context) error {
	res, err := t.gw.Load(ctx)
	if err != nil {
		return fmt.Errorf("tracker: load: %w", err)
	}
	t.reg = res.Registry
	t.reg.SetClock(t.clock)
	t.warning = nil
	if res.Recovered {
		t.warning = res.Cause
		t.emit(telemetry.Event{Kind: telemetry.KindStateRecovered, Data: res.Cause.Error()})
		return nil
	}
	t.emit(telemetry.Event{Kind: telemetry.KindStateLoaded, Data: map[string]int{"habits": t.reg.Len()}})
	return nil
}

// Warning returns the cause of the last recovery from corrupt state, or
// nil when the last load was clean.
func (t *Tracker) Warning() error {
	return t.warning
}

// Today returns the current calendar date according to the tracker clock.
func (t *Tracker) Today() habit.Date {
	return habit.Today(t.clock)
}

// Add registers a new habit and persists the registry.
func (t *Tracker) Add(ctx context.Context, name, description string) (habit.Record, error) {
	var rec habit.Record
	err := t.commit(ctx, func(reg *habit.Registry) error {
		var err error
		rec, err = reg.AddHabit(name, description)
		return err
	})
	if err != nil {
		return habit.Record{}, err
	}
	t.emit(telemetry.Event{Kind: telemetry.KindHabitAdded, Habit: rec.Name})
	return rec, nil
}

// Remove deletes a habit and persists the registry.
func (t *Tracker) Remove(ctx context.Context, name string) error {
	err := t.commit(ctx, func(reg *habit.Registry) error {
		return reg.RemoveHabit(name)
	})
	if err != nil {
		return err
	}
	t.emit(telemetry.Event{Kind: telemetry.KindHabitRemoved, Habit: strings.TrimSpace(name)})
	return nil
}

// SetCompletion marks or clears d on the named habit and persists the
// registry. It is idempotent in both directions.
func (t *Tracker) SetCompletion(ctx context.Context, name string, d habit.Date, done bool) error {
	err := t.commit(ctx, func(reg *habit.Registry) error {
		return reg.SetCompletion(name, d, done)
	})
	if err != nil {
		return err
	}
	t.emit(telemetry.Event{
		Kind:  telemetry.KindCompletionSet,
		Habit: strings.TrimSpace(name),
		Data:  telemetry.CompletionData{Date: d.String(), Done: done},
	})
	return nil
}

// MarkDone marks d as done on the named habit.
func (t *Tracker) MarkDone(ctx context.Context, name string, d habit.Date) error {
	return t.SetCompletion(ctx, name, d, true)
}

// MarkUndone clears d on the named habit. Unlike SetCompletion it reports
// ErrNotFound when d was not marked, so callers can tell the user nothing
// changed.
func (t *Tracker) MarkUndone(ctx context.Context, name string, d habit.Date) error {
	done, err := t.reg.IsDone(name, d)
	if err != nil {
		return err
	}
	if !done {
		return fmt.Errorf("habit %q on %s: mark %w", name, d, habit.ErrNotFound)
	}
	return t.SetCompletion(ctx, name, d, false)
}

// Toggle flips the mark for d and returns the new state.
func (t *Tracker) Toggle(ctx context.Context, name string, d habit.Date) (bool, error) {
	done, err := t.reg.IsDone(name, d)
	if err != nil {
		return false, err
	}
	if err := t.SetCompletion(ctx, name, d, !done); err != nil {
		return done, err
	}
	return !done, nil
}

// List returns all habits in insertion order.
func (t *Tracker) List() []habit.Record {
	return t.reg.List()
}

// Get returns the named habit.
func (t *Tracker) Get(name string) (habit.Record, error) {
	return t.reg.Get(name)
}

// SortedNames returns habit names in alphabetical order, the order used
// when choosing a habit to report on.
func (t *Tracker) SortedNames() []string {
	names := t.reg.Names()
	slices.Sort(names)
	return names
}

// Dashboard returns every habit with its status for d.
func (t *Tracker) Dashboard(d habit.Date) []DayStatus {
	list := t.reg.List()
	out := make([]DayStatus, len(list))
	for i, rec := range list {
		out[i] = DayStatus{Habit: rec, Done: rec.IsDone(d)}
	}
	return out
}

// Progress builds the progress report for the named habit as of today.
func (t *Tracker) Progress(name string) (progress.Report, error) {
	return t.ProgressAt(name, t.Today())
}

// ProgressAt builds the progress report for the named habit as of ref.
func (t *Tracker) ProgressAt(name string, ref habit.Date) (progress.Report, error) {
	rec, err := t.reg.Get(name)
	if err != nil {
		return progress.Report{}, err
	}
	return progress.Build(rec, ref), nil
}

// Export writes the registry to w in format f.
func (t *Tracker) Export(w io.Writer, f store.Format) error {
	return store.Encode(w, t.reg, f)
}

// Import reads a registry in format f and merges it into the current one.
// With replace set the current registry is discarded instead. It returns
// the number of habits added.
func (t *Tracker) Import(ctx context.Context, r io.Reader, f store.Format, replace bool) (int, error) {
	incoming, err := store.Decode(r, f, t.clock)
	if err != nil {
		return 0, fmt.Errorf("tracker: import: %w", err)
	}

	var next *habit.Registry
	if replace {
		next = habit.NewRegistry(t.clock)
	} else {
		next = t.reg.Clone()
	}
	added := next.Merge(incoming)
	if err := t.swap(ctx, next); err != nil {
		return 0, err
	}
	t.emit(telemetry.Event{
		Kind: telemetry.KindHabitsImported,
		Data: map[string]any{"added": added, "replace": replace},
	})
	return added, nil
}

// Close releases the gateway and the telemetry stream.
func (t *Tracker) Close() error {
	return errors.Join(t.gw.Close(), t.events.Close())
}

// commit applies mutate to a copy of the registry and persists the copy.
// The copy replaces the live registry only once it is saved, so a failed
// mutation or save leaves the tracker exactly as it was.
func (t *Tracker) commit(ctx context.Context, mutate func(reg *habit.Registry) error) error {
	next := t.reg.Clone()
	if err := mutate(next); err != nil {
		return err
	}
	return t.swap(ctx, next)
}

// swap persists next and makes it the live registry.
func (t *Tracker) swap(ctx context.Context, next *habit.Registry) error {
	if err := t.gw.Save(ctx, next); err != nil {
		return fmt.Errorf("tracker: save: %w", err)
	}
	t.reg = next
	// A successful save supersedes any corrupt file we recovered from.
	t.warning = nil
	return nil
}

func (t *Tracker) emit(evt telemetry.Event) {
	if err := t.events.Emit(evt); err != nil {
		t.log.Warn("telemetry emit failed", zap.String("kind", evt.Kind), zap.Error(err))
	}
}
