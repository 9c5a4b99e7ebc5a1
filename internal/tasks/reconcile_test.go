package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

type memoryOffsets struct {
	offsets map[string]int
}

func (m *memoryOffsets) Offset(issueID string) int { return m.offsets[issueID] }

func (m *memoryOffsets) SetOffset(issueID string, skip int) error {
	if m.offsets == nil {
		m.offsets = make(map[string]int)
	}
	m.offsets[issueID] = skip
	return nil
}

func TestReconcileEngine_Refresh(t *testing.T) {
	monday := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("full pass groups, validates and detects", func(t *testing.T) {
		me := &models.User{ID: "u1", Login: "tester", Name: "Tester"}
		toggl := &mockTimeTracker{
			entries: []models.TimeEntry{
				testEntry(1, "PROJ-1: review", monday, 1800),
				testEntry(2, "PROJ-1: review", monday.Add(2*time.Hour), 1800),
				testEntry(3, "PROJ-2: testing", monday.Add(4*time.Hour), 3600),
				testEntry(4, "lunch", monday.Add(5*time.Hour), 1800),
			},
		}
		youtrack := &mockIssueTracker{
			user: me,
			items: map[string][]models.WorkItem{
				// PROJ-1 already booked for the merged hour.
				"PROJ-1": {workItem("wi-1", "review", monday, 60, me)},
			},
		}
		engine := NewReconcileEngine(toggl, youtrack, &memoryOffsets{}, 100)

		progressCh := make(chan ProgressUpdate, 50)
		snapshot, err := engine.Refresh(ctx, monday, true, progressCh)
		close(progressCh)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The lunch entry is filtered, the two PROJ-1 entries merge.
		if len(snapshot.Units) != 2 {
			t.Fatalf("expected 2 units, got %d", len(snapshot.Units))
		}

		var merged *models.GroupedTimeEntry
		for i := range snapshot.Units {
			if snapshot.Units[i].ID == 1 {
				merged = &snapshot.Units[i]
			}
		}
		if merged == nil {
			t.Fatal("merged PROJ-1 unit not found")
		}
		if merged.Duration != 3600 {
			t.Errorf("merged duration = %d, want 3600", merged.Duration)
		}
		if len(merged.OriginalIDs) != 2 {
			t.Errorf("OriginalIDs = %v, want both source ids", merged.OriginalIDs)
		}

		if !snapshot.IsTransferred(merged.ID) {
			t.Error("booked PROJ-1 unit should be detected as transferred")
		}
		if snapshot.IsTransferred(3) {
			t.Error("unbooked PROJ-2 unit must not be transferred")
		}

		if result := snapshot.Report.Result(merged.ID); result == nil || !result.IsValid {
			t.Error("booked unit should validate cleanly")
		}

		if snapshot.User.ID != "u1" {
			t.Errorf("user = %+v", snapshot.User)
		}
		if !snapshot.Grouped {
			t.Error("snapshot should record grouping mode")
		}
	})

	t.Run("window spans seven days", func(t *testing.T) {
		toggl := &mockTimeTracker{}
		youtrack := &mockIssueTracker{}
		engine := NewReconcileEngine(toggl, youtrack, nil, 100)

		snapshot, err := engine.Refresh(ctx, monday, true, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantStart := shared.StartOfDay(monday)
		if !snapshot.Start.Equal(wantStart) {
			t.Errorf("start = %v, want %v", snapshot.Start, wantStart)
		}
		if got := snapshot.End.Sub(snapshot.Start); got != 7*24*time.Hour {
			t.Errorf("window length = %v, want 168h", got)
		}
	})

	t.Run("progress updates are emitted without blocking", func(t *testing.T) {
		toggl := &mockTimeTracker{
			entries: []models.TimeEntry{testEntry(1, "PROJ-1: review", monday, 1800)},
		}
		youtrack := &mockIssueTracker{}
		engine := NewReconcileEngine(toggl, youtrack, nil, 100)

		progressCh := make(chan ProgressUpdate, 50)
		if _, err := engine.Refresh(ctx, monday, true, progressCh); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progressCh)

		phases := make(map[Phase]bool)
		for update := range progressCh {
			phases[update.Phase] = true
		}
		for _, phase := range []Phase{FetchEntries, FetchUser, FetchWorkItems, Validate, Detect} {
			if !phases[phase] {
				t.Errorf("missing progress phase %s", phase)
			}
		}
	})

	t.Run("unbuffered progress channel does not deadlock", func(t *testing.T) {
		toggl := &mockTimeTracker{
			entries: []models.TimeEntry{testEntry(1, "PROJ-1: review", monday, 1800)},
		}
		engine := NewReconcileEngine(toggl, &mockIssueTracker{}, nil, 100)

		// No reader on the channel; sends must be dropped, not block.
		progressCh := make(chan ProgressUpdate)
		if _, err := engine.Refresh(ctx, monday, true, progressCh); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("fetch failure aborts the pass", func(t *testing.T) {
		toggl := &mockTimeTracker{fetchErr: errors.New("network down")}
		engine := NewReconcileEngine(toggl, &mockIssueTracker{}, nil, 100)

		_, err := engine.Refresh(ctx, monday, true, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("work item fetch failure aborts instead of producing partial data", func(t *testing.T) {
		toggl := &mockTimeTracker{
			entries: []models.TimeEntry{testEntry(1, "PROJ-1: review", monday, 1800)},
		}
		youtrack := &mockIssueTracker{fetchErr: errors.New("server error")}
		engine := NewReconcileEngine(toggl, youtrack, nil, 100)

		_, err := engine.Refresh(ctx, monday, true, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("nil services are rejected", func(t *testing.T) {
		engine := NewReconcileEngine(nil, nil, nil, 100)
		if _, err := engine.Refresh(ctx, monday, true, nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Fatalf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestSnapshotAggregates(t *testing.T) {
	monday := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	snapshot := &Snapshot{
		Units: []models.GroupedTimeEntry{
			groupedUnit(1, "PROJ-1: review", monday, 3600),
			groupedUnit(2, "PROJ-2: testing", tuesday, 1800),
		},
		Transferred: map[int64]bool{1: true},
	}

	if got := snapshot.TotalSeconds(); got != 5400 {
		t.Errorf("TotalSeconds = %d, want 5400", got)
	}
	if got := snapshot.AveragePerDay(); got != 2700 {
		t.Errorf("AveragePerDay = %d, want 2700", got)
	}
	if !snapshot.IsTransferred(1) || snapshot.IsTransferred(2) {
		t.Error("transferred lookup mismatch")
	}

	empty := &Snapshot{}
	if got := empty.AveragePerDay(); got != 0 {
		t.Errorf("empty AveragePerDay = %d, want 0", got)
	}
}
