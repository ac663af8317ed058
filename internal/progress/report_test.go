package progress

import (
	"math"
	"testing"
	"time"

	"github.com/papapumpkin/habitflow/internal/habit"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	today := d(2024, time.March, 3)
	rec := habit.NewRecord("Stretch", "morning", d(2024, time.February, 23), habit.NewHistory(
		d(2024, 2, 24), d(2024, 2, 25), d(2024, 2, 26), d(2024, 2, 27),
		d(2024, 3, 2), d(2024, 3, 3),
	))

	r := Build(rec, today)

	if r.Name != "Stretch" || r.Description != "morning" {
		t.Errorf("identity = %q/%q", r.Name, r.Description)
	}
	if r.Created != d(2024, 2, 23) {
		t.Errorf("Created = %s", r.Created)
	}
	if r.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", r.CurrentStreak)
	}
	if r.LongestStreak != 4 {
		t.Errorf("LongestStreak = %d, want 4", r.LongestStreak)
	}
	// 6 of 10 days.
	if math.Abs(r.CompletionPercentage-60) > 1e-9 {
		t.Errorf("CompletionPercentage = %.2f, want 60.00", r.CompletionPercentage)
	}
	if len(r.Calendar) != 2 {
		t.Fatalf("Calendar has %d months, want 2", len(r.Calendar))
	}
	if r.Calendar[0].MarkedDays() != 4 || r.Calendar[1].MarkedDays() != 2 {
		t.Errorf("marked days = %d/%d, want 4/2", r.Calendar[0].MarkedDays(), r.Calendar[1].MarkedDays())
	}
}
