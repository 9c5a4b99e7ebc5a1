package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/services"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

// Snapshot is one complete reconciliation pass over a week window.
//
// Everything in it is derived from a single full fetch: the validation
// report and the transferred set are only computed after every work item
// page for the window has been accumulated, so partial result sets can
// never decide transfer eligibility.
type Snapshot struct {
	Start time.Time
	End   time.Time

	Units       []models.GroupedTimeEntry
	Index       models.WorkItemIndex
	User        *models.User
	Report      *ValidationReport
	Transferred map[int64]bool
	Grouped     bool
}

// IsTransferred reports whether a unit was detected as already booked.
func (s *Snapshot) IsTransferred(entryID int64) bool {
	return s.Transferred[entryID]
}

// TotalSeconds sums the tracked duration of every unit in the window.
func (s *Snapshot) TotalSeconds() int64 {
	var total int64
	for _, unit := range s.Units {
		total += unit.Duration
	}
	return total
}

// AveragePerDay returns the mean tracked seconds per distinct day with at
// least one entry. Zero when the window is empty.
func (s *Snapshot) AveragePerDay() int64 {
	days := make(map[string]bool)
	for _, unit := range s.Units {
		days[shared.DayKey(unit.Start)] = true
	}
	if len(days) == 0 {
		return 0
	}
	return s.TotalSeconds() / int64(len(days))
}

// ReconcileEngine drives a full reconciliation pass: fetch, filter, group,
// index, validate, detect.
type ReconcileEngine struct {
	toggl    services.TimeTracker
	youtrack services.IssueTracker
	offsets  services.OffsetCache
	pageSize int
}

// NewReconcileEngine creates a reconcile engine. The offset cache may be nil
// to page every issue from zero.
func NewReconcileEngine(toggl services.TimeTracker, youtrack services.IssueTracker, offsets services.OffsetCache, pageSize int) *ReconcileEngine {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &ReconcileEngine{
		toggl:    toggl,
		youtrack: youtrack,
		offsets:  offsets,
		pageSize: pageSize,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ReconcileEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Refresh runs one complete pass over the week beginning at selected.
//
// The work item index is fully built before validation or detection run;
// a fetch failure for any issue aborts the refresh rather than producing a
// snapshot from partial data.
func (e *ReconcileEngine) Refresh(ctx context.Context, selected time.Time, grouped bool, progress chan<- ProgressUpdate) (*Snapshot, error) {
	if e.toggl == nil || e.youtrack == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	start, end := shared.WeekRange(selected)

	e.sendProgress(progress, fetchEntriesUpdate())
	raw, err := e.toggl.FetchEntries(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch time entries: %v", shared.ErrAPIRequest, err)
	}

	entries := SortByStart(FilterBookable(raw))
	units := GroupEntries(entries, grouped)

	e.sendProgress(progress, fetchUserUpdate())
	user, err := e.youtrack.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch current user: %v", shared.ErrAPIRequest, err)
	}

	issueIDs := distinctIssueIDs(units)
	itemsByIssue := make(map[string][]models.WorkItem, len(issueIDs))
	for i, issueID := range issueIDs {
		e.sendProgress(progress, fetchWorkItemsUpdate(i+1, len(issueIDs), issueID))
		items, err := services.FetchWorkItemsInWindow(ctx, e.youtrack, e.offsets, issueID, start, end, e.pageSize)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch work items for %s: %v", shared.ErrAPIRequest, issueID, err)
		}
		itemsByIssue[issueID] = items
	}
	index := BuildWorkItemIndex(itemsByIssue)

	e.sendProgress(progress, validateUpdate(len(units)))
	report := NewValidator(index, user.ID, grouped).Validate(units)

	e.sendProgress(progress, detectUpdate(len(units)))
	transferred := make(map[int64]bool, len(units))
	for _, unit := range units {
		if IsEntryTransferred(unit, index, user.ID, grouped) {
			transferred[unit.ID] = true
		}
	}

	return &Snapshot{
		Start:       start,
		End:         end,
		Units:       units,
		Index:       index,
		User:        user,
		Report:      report,
		Transferred: transferred,
		Grouped:     grouped,
	}, nil
}

// distinctIssueIDs collects the issue references of the given units,
// preserving first-seen order.
func distinctIssueIDs(units []models.GroupedTimeEntry) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, unit := range units {
		issueID := ExtractIssueID(unit.Description)
		if issueID == "" || seen[issueID] {
			continue
		}
		seen[issueID] = true
		ids = append(ids, issueID)
	}
	return ids
}
