package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

type mockTimeTracker struct {
	entries  []models.TimeEntry
	fetchErr error

	mu        sync.Mutex
	tagErrFor map[int64]error
	tagged    []int64
}

func (m *mockTimeTracker) Name() string { return "mock-toggl" }

func (m *mockTimeTracker) FetchEntries(ctx context.Context, start, end time.Time) ([]models.TimeEntry, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.entries, nil
}

func (m *mockTimeTracker) TagEntry(ctx context.Context, entryID int64, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.tagErrFor[entryID]; ok {
		return err
	}
	m.tagged = append(m.tagged, entryID)
	return nil
}

func (m *mockTimeTracker) taggedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tagged)
}

type mockIssueTracker struct {
	items     map[string][]models.WorkItem
	user      *models.User
	fetchErr  error
	createErr error
	deleteErr error

	mu         sync.Mutex
	fetchCalls int
	created    []models.WorkItem
	deleted    []string
}

func (m *mockIssueTracker) Name() string { return "mock-youtrack" }

func (m *mockIssueTracker) FetchWorkItems(ctx context.Context, issueID string, skip, top int) ([]models.WorkItem, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	items := m.items[issueID]
	if skip >= len(items) {
		return nil, nil
	}
	end := skip + top
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end], nil
}

func (m *mockIssueTracker) CreateWorkItem(ctx context.Context, issueID string, item models.WorkItem) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, item)
	return "wi-created", nil
}

func (m *mockIssueTracker) DeleteWorkItem(ctx context.Context, issueID, workItemID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, workItemID)
	return nil
}

func (m *mockIssueTracker) CurrentUser(ctx context.Context) (*models.User, error) {
	if m.user != nil {
		return m.user, nil
	}
	return &models.User{ID: "u1", Login: "tester", Name: "Tester"}, nil
}

func (m *mockIssueTracker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls + len(m.created) + len(m.deleted)
}

func TestTransferEngine_Transfer(t *testing.T) {
	monday := time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC)
	ctx := context.Background()

	mergedUnit := func() models.GroupedTimeEntry {
		return models.GroupedTimeEntry{
			TimeEntry:   testEntry(1, "PROJ-1: review", monday, 3900),
			OriginalIDs: []int64{1, 2, 3},
		}
	}

	t.Run("successful transfer", func(t *testing.T) {
		toggl := &mockTimeTracker{}
		youtrack := &mockIssueTracker{}
		engine := NewTransferEngine(toggl, youtrack, "transferred")

		result, err := engine.Transfer(ctx, mergedUnit(), BuildWorkItemIndex(nil), "u1", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.IssueID != "PROJ-1" {
			t.Errorf("IssueID = %q, want PROJ-1", result.IssueID)
		}
		if result.Minutes != 65 {
			t.Errorf("Minutes = %d, want 65 (3900s on the 5-minute grid)", result.Minutes)
		}
		if result.WorkItemID != "wi-created" {
			t.Errorf("WorkItemID = %q", result.WorkItemID)
		}

		if len(youtrack.created) != 1 {
			t.Fatalf("expected 1 created work item, got %d", len(youtrack.created))
		}
		item := youtrack.created[0]
		wantDate := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC).UnixMilli()
		if item.Date != wantDate {
			t.Errorf("work item date = %d, want start of day %d", item.Date, wantDate)
		}
		if item.Text != "review" {
			t.Errorf("work item text = %q, want %q", item.Text, "review")
		}

		if toggl.taggedCount() != 3 {
			t.Errorf("expected all 3 source entries tagged, got %d", toggl.taggedCount())
		}

		for _, id := range []int64{1, 2, 3} {
			if !engine.IsCommitted(id) {
				t.Errorf("entry %d not committed", id)
			}
		}
		if engine.State(1) != StateCommitted {
			t.Errorf("state = %s, want committed", engine.State(1))
		}
	})

	t.Run("already committed entry is rejected with zero remote calls", func(t *testing.T) {
		toggl := &mockTimeTracker{}
		youtrack := &mockIssueTracker{}
		engine := NewTransferEngine(toggl, youtrack, "transferred")
		engine.MarkCommitted(1)

		_, err := engine.Transfer(ctx, mergedUnit(), BuildWorkItemIndex(nil), "u1", true)
		if !errors.Is(err, shared.ErrAlreadyTransferred) {
			t.Fatalf("expected ErrAlreadyTransferred, got %v", err)
		}
		if youtrack.callCount() != 0 {
			t.Errorf("expected zero remote calls, got %d", youtrack.callCount())
		}
		if toggl.taggedCount() != 0 {
			t.Errorf("expected zero tag calls, got %d", toggl.taggedCount())
		}
	})

	t.Run("detected booking is rejected and marked committed", func(t *testing.T) {
		me := &models.User{ID: "u1"}
		index := BuildWorkItemIndex(map[string][]models.WorkItem{
			"PROJ-1": {workItem("wi-1", "review", monday, 65, me)},
		})
		toggl := &mockTimeTracker{}
		youtrack := &mockIssueTracker{}
		engine := NewTransferEngine(toggl, youtrack, "transferred")

		_, err := engine.Transfer(ctx, mergedUnit(), index, "u1", true)
		if !errors.Is(err, shared.ErrAlreadyTransferred) {
			t.Fatalf("expected ErrAlreadyTransferred, got %v", err)
		}
		if youtrack.callCount() != 0 {
			t.Errorf("expected zero remote calls, got %d", youtrack.callCount())
		}
		if !engine.IsCommitted(1) {
			t.Error("detected entry should be marked committed")
		}
	})

	t.Run("partial tag failure rolls back the work item", func(t *testing.T) {
		toggl := &mockTimeTracker{
			tagErrFor: map[int64]error{2: errors.New("api error")},
		}
		youtrack := &mockIssueTracker{}
		engine := NewTransferEngine(toggl, youtrack, "transferred")

		_, err := engine.Transfer(ctx, mergedUnit(), BuildWorkItemIndex(nil), "u1", true)
		if !errors.Is(err, shared.ErrTransferRolledBack) {
			t.Fatalf("expected ErrTransferRolledBack, got %v", err)
		}
		if !strings.Contains(err.Error(), "1 of 3 tags failed, changes rolled back") {
			t.Errorf("error message = %q", err.Error())
		}

		if len(youtrack.deleted) != 1 || youtrack.deleted[0] != "wi-created" {
			t.Errorf("expected exactly the created work item deleted, got %v", youtrack.deleted)
		}
		if engine.IsCommitted(1) {
			t.Error("rolled back entry must not be committed")
		}
		if engine.State(1) != StateFailed {
			t.Errorf("state = %s, want failed", engine.State(1))
		}
	})

	t.Run("failed rollback delete names the dangling work item", func(t *testing.T) {
		toggl := &mockTimeTracker{
			tagErrFor: map[int64]error{2: errors.New("api error")},
		}
		youtrack := &mockIssueTracker{deleteErr: errors.New("gone away")}
		engine := NewTransferEngine(toggl, youtrack, "transferred")

		_, err := engine.Transfer(ctx, mergedUnit(), BuildWorkItemIndex(nil), "u1", true)
		if !errors.Is(err, shared.ErrTransferRolledBack) {
			t.Fatalf("expected ErrTransferRolledBack, got %v", err)
		}
		if !strings.Contains(err.Error(), "wi-created") || !strings.Contains(err.Error(), "left dangling") {
			t.Errorf("error message = %q", err.Error())
		}
		if engine.State(1) != StateFailed {
			t.Errorf("state = %s, want failed", engine.State(1))
		}
	})

	t.Run("create failure marks the entry failed", func(t *testing.T) {
		toggl := &mockTimeTracker{}
		youtrack := &mockIssueTracker{createErr: errors.New("boom")}
		engine := NewTransferEngine(toggl, youtrack, "transferred")

		_, err := engine.Transfer(ctx, mergedUnit(), BuildWorkItemIndex(nil), "u1", true)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if engine.State(1) != StateFailed {
			t.Errorf("state = %s, want failed", engine.State(1))
		}
		if toggl.taggedCount() != 0 {
			t.Error("tagging must not run when creation failed")
		}
	})

	t.Run("label without issue reference is rejected", func(t *testing.T) {
		engine := NewTransferEngine(&mockTimeTracker{}, &mockIssueTracker{}, "transferred")
		unit := groupedUnit(1, "lunch", monday, 3600)

		_, err := engine.Transfer(ctx, unit, BuildWorkItemIndex(nil), "u1", true)
		if !errors.Is(err, shared.ErrNoIssueID) {
			t.Fatalf("expected ErrNoIssueID, got %v", err)
		}
	})

	t.Run("empty transfer tag skips tagging", func(t *testing.T) {
		toggl := &mockTimeTracker{tagErrFor: map[int64]error{1: errors.New("unreachable")}}
		youtrack := &mockIssueTracker{}
		engine := NewTransferEngine(toggl, youtrack, "")

		result, err := engine.Transfer(ctx, mergedUnit(), BuildWorkItemIndex(nil), "u1", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.TaggedIDs) != 0 {
			t.Errorf("expected no tagged ids, got %v", result.TaggedIDs)
		}
	})

	t.Run("retry after rollback succeeds", func(t *testing.T) {
		toggl := &mockTimeTracker{
			tagErrFor: map[int64]error{2: errors.New("api error")},
		}
		youtrack := &mockIssueTracker{}
		engine := NewTransferEngine(toggl, youtrack, "transferred")

		if _, err := engine.Transfer(ctx, mergedUnit(), BuildWorkItemIndex(nil), "u1", true); err == nil {
			t.Fatal("expected first transfer to fail")
		}

		toggl.mu.Lock()
		toggl.tagErrFor = nil
		toggl.mu.Unlock()

		result, err := engine.Transfer(ctx, mergedUnit(), BuildWorkItemIndex(nil), "u1", true)
		if err != nil {
			t.Fatalf("retry failed: %v", err)
		}
		if result.Minutes != 65 {
			t.Errorf("Minutes = %d, want 65", result.Minutes)
		}
		if engine.State(1) != StateCommitted {
			t.Errorf("state = %s, want committed after retry", engine.State(1))
		}
	})
}

func TestTransferEngine_StateTracking(t *testing.T) {
	engine := NewTransferEngine(&mockTimeTracker{}, &mockIssueTracker{}, "transferred")

	if engine.State(1) != StateIdle {
		t.Errorf("fresh engine state = %s, want idle", engine.State(1))
	}

	engine.MarkCommitted(1, 2)
	if !engine.IsCommitted(1) || !engine.IsCommitted(2) {
		t.Error("MarkCommitted did not commit both ids")
	}
	if got := engine.Committed(); len(got) != 2 {
		t.Errorf("Committed() = %v, want 2 ids", got)
	}

	engine.Reset()
	if engine.IsCommitted(1) {
		t.Error("Reset did not clear committed state")
	}
	if engine.State(1) != StateIdle {
		t.Errorf("state after reset = %s, want idle", engine.State(1))
	}
}

func TestTransferStateString(t *testing.T) {
	tests := []struct {
		state TransferState
		want  string
	}{
		{StateIdle, "idle"},
		{StatePending, "pending"},
		{StateCommitted, "committed"},
		{StateFailed, "failed"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
