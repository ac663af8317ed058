package habit

import (
	"maps"
	"slices"
)

// History is the sparse set of dates on which a habit was marked done. A
// date that is absent was not done; there is no explicit "not done" entry.
type History map[Date]struct{}

// NewHistory returns a history holding the given dates.
func NewHistory(dates ...Date) History {
	h := make(History, len(dates))
	for _, d := range dates {
		h[d] = struct{}{}
	}
	return h
}

// Has reports whether d is marked done.
func (h History) Has(d Date) bool {
	_, ok := h[d]
	return ok
}

// Len returns the number of marked dates.
func (h History) Len() int {
	return len(h)
}

// Dates returns the marked dates in chronological order.
func (h History) Dates() []Date {
	out := slices.Collect(maps.Keys(h))
	slices.SortFunc(out, func(a, b Date) int {
		return a.DaysSince(b)
	})
	return out
}

// Earliest returns the first marked date, or false when h is empty.
func (h History) Earliest() (Date, bool) {
	var first Date
	found := false
	for d := range h {
		if !found || d.Before(first) {
			first = d
			found = true
		}
	}
	return first, found
}

// Clone returns an independent copy of h.
func (h History) Clone() History {
	if h == nil {
		return History{}
	}
	return maps.Clone(h)
}

// Record holds one habit's identity and completion history. Values handed
// out by the Registry are snapshots; mutating them does not affect the
// registered habit.
type Record struct {
	Name        string
	Description string
	Created     Date

	history History
}

// NewRecord builds a record with the given history. It is used when
// restoring persisted state; new habits go through Registry.AddHabit.
func NewRecord(name, description string, created Date, history History) Record {
	return Record{
		Name:        name,
		Description: description,
		Created:     created,
		history:     history.Clone(),
	}
}

// History returns a read-only copy of the record's completion dates.
func (r Record) History() History {
	return r.history.Clone()
}

// SetCompletion marks d done when done is true and clears it otherwise.
// Both directions are idempotent.
func (r *Record) SetCompletion(d Date, done bool) {
	if r.history == nil {
		r.history = History{}
	}
	if done {
		r.history[d] = struct{}{}
		return
	}
	delete(r.history, d)
}

// IsDone reports whether d is marked done.
func (r Record) IsDone(d Date) bool {
	return r.history.Has(d)
}

// Equal reports whether r and o describe the same habit and history.
func (r Record) Equal(o Record) bool {
	if r.Name != o.Name || r.Description != o.Description || r.Created != o.Created {
		return false
	}
	if len(r.history) != len(o.history) {
		return false
	}
	for d := range r.history {
		if !o.history.Has(d) {
			return false
		}
	}
	return true
}

func (r Record) clone() Record {
	r.history = r.history.Clone()
	return r
}
