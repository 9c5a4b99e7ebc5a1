// package services defines interfaces for the two remote collaborators
//
// Toggl Track (timer entries) and YouTrack (work item bookings)
package services

import (
	"context"
	"time"

	"github.com/geox55/youtrack-time-tracker/internal/models"
)

// TimeTracker is the timer side of the reconciliation (Toggl Track).
type TimeTracker interface {
	// FetchEntries retrieves all time entries started inside [start, end).
	FetchEntries(ctx context.Context, start, end time.Time) ([]models.TimeEntry, error)

	// TagEntry adds the given tags to a single time entry.
	// Used to mark source entries as transferred.
	TagEntry(ctx context.Context, entryID int64, tags []string) error

	// Name returns the service name (e.g. "Toggl Track")
	Name() string
}

// IssueTracker is the booking side of the reconciliation (YouTrack).
type IssueTracker interface {
	// FetchWorkItems retrieves one page of work items for an issue.
	// Returns an empty slice when the offset is past the end.
	FetchWorkItems(ctx context.Context, issueID string, skip, top int) ([]models.WorkItem, error)

	// CreateWorkItem books time against an issue and returns the id of the
	// created work item.
	CreateWorkItem(ctx context.Context, issueID string, item models.WorkItem) (string, error)

	// DeleteWorkItem removes a previously created work item. Used as the
	// compensating action when tagging partially fails.
	DeleteWorkItem(ctx context.Context, issueID, workItemID string) error

	// CurrentUser returns the authenticated tracker account.
	CurrentUser(ctx context.Context) (*models.User, error)

	// Name returns the service name (e.g. "YouTrack")
	Name() string
}

// OffsetCache remembers per-issue pagination offsets between refreshes so
// repeated scans of long work-item histories can resume near the relevant
// window instead of paging from zero.
//
// Implementations are owned by the caller and passed in explicitly; a nil
// cache disables resumption.
type OffsetCache interface {
	Offset(issueID string) int
	SetOffset(issueID string, skip int) error
}
