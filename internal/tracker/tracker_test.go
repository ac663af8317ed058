package tracker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/habitflow/internal/habit"
	"github.com/papapumpkin/habitflow/internal/store"
	"github.com/papapumpkin/habitflow/internal/telemetry"
)

// memGateway is an in-memory store.Gateway that counts saves and can be
// told to fail.
type memGateway struct {
	doc     []byte
	saves   int
	saveErr error
	closed  bool
}

func (g *memGateway) Load(_ context.Context) (store.LoadResult, error) {
	if g.doc == nil {
		return store.LoadResult{Registry: habit.NewRegistry(clock)}, nil
	}
	reg, err := store.DecodeDocument(g.doc, clock)
	if err != nil {
		return store.LoadResult{Registry: habit.NewRegistry(clock), Recovered: true, Cause: err}, nil
	}
	return store.LoadResult{Registry: reg}, nil
}

func (g *memGateway) Save(_ context.Context, reg *habit.Registry) error {
	if g.saveErr != nil {
		return g.saveErr
	}
	doc, err := store.EncodeDocument(reg)
	if err != nil {
		return err
	}
	g.doc = doc
	g.saves++
	return nil
}

func (g *memGateway) Close() error {
	g.closed = true
	return nil
}

var today = habit.NewDate(2026, time.October, 17)

func clock() time.Time {
	return time.Date(2026, time.October, 17, 8, 0, 0, 0, time.Local)
}

func newTestTracker(t *testing.T, gw store.Gateway) *Tracker {
	t.Helper()
	tr, err := New(context.Background(), Options{Gateway: gw, Clock: clock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

func TestTracker_AddPersists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gw := &memGateway{}
	tr := newTestTracker(t, gw)

	rec, err := tr.Add(ctx, "Read", "20 pages")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.Created != today {
		t.Errorf("Created = %s, want %s", rec.Created, today)
	}
	if gw.saves != 1 {
		t.Errorf("saves = %d, want 1", gw.saves)
	}

	// A fresh tracker over the same gateway sees the habit.
	again := newTestTracker(t, gw)
	got, err := again.Get("Read")
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if !got.Equal(rec) {
		t.Errorf("reloaded = %+v, want %+v", got, rec)
	}
}

func TestTracker_FailedMutationsDoNotSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gw := &memGateway{}
	tr := newTestTracker(t, gw)
	if _, err := tr.Add(ctx, "Read", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tests := []struct {
		name    string
		op      func() error
		wantErr error
	}{
		{"duplicate add", func() error { _, err := tr.Add(ctx, "Read", "x"); return err }, habit.ErrDuplicateName},
		{"blank add", func() error { _, err := tr.Add(ctx, "  ", ""); return err }, habit.ErrInvalidName},
		{"remove unknown", func() error { return tr.Remove(ctx, "Ghost") }, habit.ErrNotFound},
		{"mark unknown", func() error { return tr.MarkDone(ctx, "Ghost", today) }, habit.ErrNotFound},
		{"undo unmarked", func() error { return tr.MarkUndone(ctx, "Read", today) }, habit.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if gw.saves != 1 {
				t.Errorf("saves = %d after failed op, want 1", gw.saves)
			}
		})
	}
}

func TestTracker_CompletionFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := newTestTracker(t, &memGateway{})
	tr.Add(ctx, "Walk", "")

	if err := tr.MarkDone(ctx, "Walk", today); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if err := tr.MarkDone(ctx, "Walk", today.AddDays(-1)); err != nil {
		t.Fatalf("MarkDone yesterday: %v", err)
	}

	dash := tr.Dashboard(today)
	if len(dash) != 1 || !dash[0].Done {
		t.Fatalf("Dashboard = %+v, want Walk done", dash)
	}

	done, err := tr.Toggle(ctx, "Walk", today)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if done {
		t.Error("Toggle on a marked day returned done=true")
	}
	if err := tr.MarkUndone(ctx, "Walk", today.AddDays(-1)); err != nil {
		t.Fatalf("MarkUndone: %v", err)
	}

	rec, _ := tr.Get("Walk")
	if rec.History().Len() != 0 {
		t.Errorf("history = %v, want empty", rec.History().Dates())
	}
}

func TestTracker_Progress(t *testing.T) {
	t.Parallel()

	gw := &memGateway{doc: []byte(`{
    "Stretch": {
        "description": "",
        "creation_date": "2026-10-13",
        "completion_history": {"2026-10-15": true, "2026-10-16": true, "2026-10-17": true}
    }
}`)}
	tr := newTestTracker(t, gw)

	r, err := tr.Progress("Stretch")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if r.CurrentStreak != 3 || r.LongestStreak != 3 {
		t.Errorf("streaks = %d/%d, want 3/3", r.CurrentStreak, r.LongestStreak)
	}
	if r.CompletionPercentage != 60 {
		t.Errorf("CompletionPercentage = %.2f, want 60.00", r.CompletionPercentage)
	}
	if len(r.Calendar) != 1 {
		t.Errorf("Calendar months = %d, want 1", len(r.Calendar))
	}

	if _, err := tr.Progress("Nope"); !errors.Is(err, habit.ErrNotFound) {
		t.Errorf("Progress(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestTracker_SortedNames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := newTestTracker(t, &memGateway{})
	for _, n := range []string{"walk", "Read", "meditate"} {
		tr.Add(ctx, n, "")
	}

	if diff := cmp.Diff([]string{"Read", "meditate", "walk"}, tr.SortedNames()); diff != "" {
		t.Errorf("SortedNames mismatch (-want +got):\n%s", diff)
	}
	var listed []string
	for _, rec := range tr.List() {
		listed = append(listed, rec.Name)
	}
	if diff := cmp.Diff([]string{"walk", "Read", "meditate"}, listed); diff != "" {
		t.Errorf("List order mismatch (-want +got):\n%s", diff)
	}
}

func TestTracker_RecoversFromCorruptState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gw := &memGateway{doc: []byte("{oops")}
	tr := newTestTracker(t, gw)

	if !errors.Is(tr.Warning(), habit.ErrCorruptState) {
		t.Fatalf("Warning() = %v, want ErrCorruptState", tr.Warning())
	}
	if len(tr.List()) != 0 {
		t.Error("want empty registry after recovery")
	}

	if _, err := tr.Add(ctx, "Fresh", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if tr.Warning() != nil {
		t.Errorf("Warning() = %v after successful save, want nil", tr.Warning())
	}
}

func TestTracker_SaveFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	tr := newTestTracker(t, &memGateway{saveErr: boom})

	_, err := tr.Add(context.Background(), "Read", "")
	if !errors.Is(err, boom) {
		t.Errorf("Add error = %v, want wrapped %v", err, boom)
	}
}

func TestTracker_FailedSaveKeepsLiveState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	toml := "[[habit]]\nname = 'Swim'\ndescription = ''\ncreation_date = '2026-02-01'\ncompleted = []\n"
	tests := []struct {
		name string
		op   func(tr *Tracker) error
	}{
		{"add", func(tr *Tracker) error { _, err := tr.Add(ctx, "Walk", ""); return err }},
		{"remove", func(tr *Tracker) error { return tr.Remove(ctx, "Read") }},
		{"mark", func(tr *Tracker) error { return tr.MarkDone(ctx, "Read", today.AddDays(-1)) }},
		{"undo", func(tr *Tracker) error { return tr.MarkUndone(ctx, "Read", today) }},
		{"toggle", func(tr *Tracker) error { _, err := tr.Toggle(ctx, "Read", today); return err }},
		{"import merge", func(tr *Tracker) error {
			_, err := tr.Import(ctx, strings.NewReader(toml), store.FormatTOML, false)
			return err
		}},
		{"import replace", func(tr *Tracker) error {
			_, err := tr.Import(ctx, strings.NewReader(toml), store.FormatTOML, true)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gw := &memGateway{}
			tr := newTestTracker(t, gw)
			tr.Add(ctx, "Read", "")
			tr.MarkDone(ctx, "Read", today)
			before := tr.List()
			saved := string(gw.doc)

			boom := errors.New("disk full")
			gw.saveErr = boom
			if err := tt.op(tr); !errors.Is(err, boom) {
				t.Fatalf("error = %v, want %v", err, boom)
			}
			if diff := cmp.Diff(before, tr.List()); diff != "" {
				t.Errorf("live registry changed after failed save (-want +got):\n%s", diff)
			}
			if string(gw.doc) != saved {
				t.Error("persisted document changed after failed save")
			}

			// The same operation goes through once the disk recovers.
			gw.saveErr = nil
			if err := tt.op(tr); err != nil {
				t.Errorf("retry after recovery: %v", err)
			}
		})
	}
}

func TestTracker_ClockStampsNewHabits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	past := func() time.Time { return time.Date(2020, time.January, 1, 12, 0, 0, 0, time.Local) }
	day := habit.NewDate(2020, time.January, 1)

	// The gateway builds its registries with a different clock.
	gw := &memGateway{}
	tr, err := New(ctx, Options{Gateway: gw, Clock: past})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Today() != day {
		t.Fatalf("Today() = %s, want %s", tr.Today(), day)
	}

	rec, err := tr.Add(ctx, "Read", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.Created != tr.Today() {
		t.Errorf("Created = %s, want %s", rec.Created, tr.Today())
	}

	if err := tr.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	rec, _ = tr.Add(ctx, "Walk", "")
	if rec.Created != day {
		t.Errorf("Created after Reload = %s, want %s", rec.Created, day)
	}

	if _, err := tr.Import(ctx, strings.NewReader("habit = []\n"), store.FormatTOML, true); err != nil {
		t.Fatalf("Import: %v", err)
	}
	rec, _ = tr.Add(ctx, "Swim", "")
	if rec.Created != day {
		t.Errorf("Created after Import = %s, want %s", rec.Created, day)
	}
}

func TestTracker_ImportMergeAndReplace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := newTestTracker(t, &memGateway{})
	tr.Add(ctx, "Read", "mine")
	tr.MarkDone(ctx, "Read", today)

	input := "[[habit]]\nname = 'Read'\ndescription = 'theirs'\ncreation_date = '2026-01-01'\ncompleted = ['2026-10-16']\n\n" +
		"[[habit]]\nname = 'Swim'\ndescription = ''\ncreation_date = '2026-02-01'\ncompleted = []\n"

	added, err := tr.Import(ctx, strings.NewReader(input), store.FormatTOML, false)
	if err != nil {
		t.Fatalf("Import merge: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	read, _ := tr.Get("Read")
	if read.Description != "mine" || read.History().Len() != 2 {
		t.Errorf("merged Read = %+v with %d dates", read, read.History().Len())
	}

	added, err = tr.Import(ctx, strings.NewReader(input), store.FormatTOML, true)
	if err != nil {
		t.Fatalf("Import replace: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
	read, _ = tr.Get("Read")
	if read.Description != "theirs" || read.History().Len() != 1 {
		t.Errorf("replaced Read = %+v with %d dates", read, read.History().Len())
	}

	if _, err := tr.Import(ctx, strings.NewReader("[[habit"), store.FormatTOML, false); !errors.Is(err, habit.ErrCorruptState) {
		t.Errorf("bad import error = %v, want ErrCorruptState", err)
	}
}

func TestTracker_ExportRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tr := newTestTracker(t, &memGateway{})
	tr.Add(ctx, "Read", "")
	tr.MarkDone(ctx, "Read", today)

	var buf bytes.Buffer
	if err := tr.Export(&buf, store.FormatYAML); err != nil {
		t.Fatalf("Export: %v", err)
	}

	other := newTestTracker(t, &memGateway{})
	if _, err := other.Import(ctx, &buf, store.FormatYAML, true); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if diff := cmp.Diff(tr.List(), other.List()); diff != "" {
		t.Errorf("export/import mismatch (-want +got):\n%s", diff)
	}
}

func TestTracker_EmitsTelemetry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	em, err := telemetry.NewEmitter(path)
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}

	gw := &memGateway{}
	tr, err := New(ctx, Options{Gateway: gw, Events: em, Clock: clock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tr.Add(ctx, "Read", "")
	tr.MarkDone(ctx, "Read", today)
	tr.Remove(ctx, "Read")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !gw.closed {
		t.Error("gateway not closed")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	for _, kind := range []string{
		telemetry.KindStateLoaded,
		telemetry.KindHabitAdded,
		telemetry.KindCompletionSet,
		telemetry.KindHabitRemoved,
	} {
		if !strings.Contains(out, `"kind":"`+kind+`"`) {
			t.Errorf("telemetry missing %s:\n%s", kind, out)
		}
	}
}

func TestNew_RequiresGateway(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Options{}); err == nil {
		t.Error("expected error without gateway")
	}
}
