package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/services"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

// TransferState is the per-entry booking state machine:
// Idle -> Pending -> Committed | Failed.
type TransferState int

const (
	StateIdle TransferState = iota
	StatePending
	StateCommitted
	StateFailed
)

func (s TransferState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	default:
		return ""
	}
}

// TransferResult describes a completed booking for notifications.
type TransferResult struct {
	IssueID     string    // Issue the time was booked against
	Description string    // Free-text description of the booking
	Date        time.Time // Calendar day of the booking
	WorkItemID  string    // Id of the created work item
	Minutes     int       // Booked minutes (5-minute grid)
	TaggedIDs   []int64   // Source entries tagged as transferred
}

// TransferEngine executes the multi-step booking protocol and tracks
// per-entry transfer state for presentation.
//
// State transitions happen only at well-defined points: an entry enters the
// pending set before the first network call and leaves it in a deferred
// cleanup regardless of outcome, so two in-flight transfers can never race
// on the same entry id. All state is in-memory and rebuilt on refresh.
type TransferEngine struct {
	toggl       services.TimeTracker
	youtrack    services.IssueTracker
	transferTag string

	mu        sync.Mutex
	committed map[int64]struct{}
	pending   map[int64]struct{}
	failed    map[int64]string
}

// NewTransferEngine creates a transfer engine. An empty transferTag disables
// the tagging step (and with it the rollback path).
func NewTransferEngine(toggl services.TimeTracker, youtrack services.IssueTracker, transferTag string) *TransferEngine {
	return &TransferEngine{
		toggl:       toggl,
		youtrack:    youtrack,
		transferTag: transferTag,
		committed:   make(map[int64]struct{}),
		pending:     make(map[int64]struct{}),
		failed:      make(map[int64]string),
	}
}

// State returns the transfer state of an entry id.
func (e *TransferEngine) State(entryID int64) TransferState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.pending[entryID]; ok {
		return StatePending
	}
	if _, ok := e.committed[entryID]; ok {
		return StateCommitted
	}
	if _, ok := e.failed[entryID]; ok {
		return StateFailed
	}
	return StateIdle
}

// IsCommitted reports whether an entry id is in the committed set.
func (e *TransferEngine) IsCommitted(entryID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.committed[entryID]
	return ok
}

// Committed returns a snapshot of all committed entry ids.
func (e *TransferEngine) Committed() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]int64, 0, len(e.committed))
	for id := range e.committed {
		ids = append(ids, id)
	}
	return ids
}

// Pending returns a snapshot of all mid-transfer entry ids.
func (e *TransferEngine) Pending() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]int64, 0, len(e.pending))
	for id := range e.pending {
		ids = append(ids, id)
	}
	return ids
}

// MarkCommitted seeds the committed set from a detection pass. Used on
// refresh to rebuild state from the remote truth.
func (e *TransferEngine) MarkCommitted(ids ...int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range ids {
		delete(e.failed, id)
		e.committed[id] = struct{}{}
	}
}

// Reset clears committed and failed state before a fresh detection pass.
// Pending entries are left alone; their transfers are still running.
func (e *TransferEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.committed = make(map[int64]struct{})
	e.failed = make(map[int64]string)
}

// begin runs the precondition checks and moves the unit into the pending
// set atomically, before any suspension point.
func (e *TransferEngine) begin(unit models.GroupedTimeEntry, index models.WorkItemIndex, userID string, grouped bool) (string, error) {
	issueID := ExtractIssueID(unit.Description)
	if issueID == "" {
		return "", shared.ErrNoIssueID
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.pending[unit.ID]; ok {
		return "", shared.ErrTransferInFlight
	}
	if _, ok := e.committed[unit.ID]; ok {
		return "", shared.ErrAlreadyTransferred
	}
	if IsEntryTransferred(unit, index, userID, grouped) {
		e.committed[unit.ID] = struct{}{}
		return "", shared.ErrAlreadyTransferred
	}

	e.pending[unit.ID] = struct{}{}
	return issueID, nil
}

// Transfer books one logical unit into the tracker:
//
//  1. create the remote work item (duration on the 5-minute grid, date at
//     the start of the entry's calendar day),
//  2. tag every source entry concurrently,
//  3. on any tag failure delete the created work item and report how many
//     tags failed,
//  4. on full success mark all source ids committed.
//
// Idempotence comes from the precondition check, never from the remote API:
// a unit already committed or already detected as booked is rejected with
// ErrAlreadyTransferred and zero remote calls.
func (e *TransferEngine) Transfer(ctx context.Context, unit models.GroupedTimeEntry, index models.WorkItemIndex, userID string, grouped bool) (*TransferResult, error) {
	issueID, err := e.begin(unit, index, userID, grouped)
	if err != nil {
		return nil, err
	}

	defer func() {
		e.mu.Lock()
		delete(e.pending, unit.ID)
		e.mu.Unlock()
	}()

	day := shared.StartOfDay(unit.Start)
	description := ExtractDescription(unit.Description)
	minutes := shared.RoundSecondsTo5Minutes(unit.Duration)

	item := models.WorkItem{
		Date:     day.UnixMilli(),
		Duration: models.WorkItemDuration{Minutes: minutes},
		Text:     description,
	}

	workItemID, err := e.youtrack.CreateWorkItem(ctx, issueID, item)
	if err != nil {
		e.fail(unit.ID, err.Error())
		return nil, fmt.Errorf("%w: failed to create work item: %v", shared.ErrAPIRequest, err)
	}

	tagged, err := e.tagSourceEntries(ctx, unit)
	if err != nil {
		// Compensating action: the work item must not be left dangling
		// when tagging partially fails.
		if delErr := e.youtrack.DeleteWorkItem(ctx, issueID, workItemID); delErr != nil {
			e.fail(unit.ID, err.Error())
			return nil, fmt.Errorf("%w; rollback delete failed, work item %s left dangling: %v", err, workItemID, delErr)
		}
		e.fail(unit.ID, err.Error())
		return nil, err
	}

	e.mu.Lock()
	delete(e.failed, unit.ID)
	e.committed[unit.ID] = struct{}{}
	for _, id := range unit.OriginalIDs {
		e.committed[id] = struct{}{}
	}
	e.mu.Unlock()

	return &TransferResult{
		IssueID:     issueID,
		Description: description,
		Date:        day,
		WorkItemID:  workItemID,
		Minutes:     minutes,
		TaggedIDs:   tagged,
	}, nil
}

func (e *TransferEngine) fail(entryID int64, reason string) {
	e.mu.Lock()
	e.failed[entryID] = reason
	e.mu.Unlock()
}

// tagSourceEntries tags every original source entry in parallel and joins
// the results. Any failure yields a single aggregated error naming the
// failure ratio.
func (e *TransferEngine) tagSourceEntries(ctx context.Context, unit models.GroupedTimeEntry) ([]int64, error) {
	if e.transferTag == "" {
		return nil, nil
	}

	ids := unit.OriginalIDs
	if len(ids) == 0 {
		ids = []int64{unit.ID}
	}

	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			errs[i] = e.toggl.TagEntry(ctx, id, []string{e.transferTag})
		}(i, id)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
		}
	}
	if failures > 0 {
		return nil, fmt.Errorf("%w: %d of %d tags failed, changes rolled back", shared.ErrTransferRolledBack, failures, len(ids))
	}

	return ids, nil
}
