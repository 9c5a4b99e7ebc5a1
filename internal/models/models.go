// package models defines the data model for the time reconciliation service
package models

import (
	"time"
)

// TimeEntry represents a single tracked block of time fetched from Toggl.
//
// Entries are read-only inside the core: they are created by the remote
// timer API and discarded on every refresh. The Description field is the raw
// label and encodes both the issue id and the free-text description
// (e.g. "PROJ-12: fix bug").
type TimeEntry struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop"`
	Duration    int64      `json:"duration"` // seconds; negative means running
}

// GroupedTimeEntry is a TimeEntry merged from one or more source entries that
// share the same issue, description and calendar day.
//
// OriginalIDs is non-empty, ordered by start time, and always contains the
// representative entry's own ID.
type GroupedTimeEntry struct {
	TimeEntry
	OriginalIDs []int64 `json:"original_ids"`
}

// User identifies the authenticated issue tracker account.
type User struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

// WorkItemDuration wraps the minute value the tracker uses for booked time.
type WorkItemDuration struct {
	Minutes int `json:"minutes"`
}

// WorkItem is a booking record owned by the issue tracker.
//
// Date is a millisecond timestamp at day granularity. The core only reads
// work items and, through the transfer engine, creates and deletes them.
type WorkItem struct {
	ID       string           `json:"id,omitempty"`
	Date     int64            `json:"date"`
	Duration WorkItemDuration `json:"duration"`
	Text     string           `json:"text"`
	Author   *User            `json:"author,omitempty"`
}

// Day returns the work item's calendar day in UTC.
func (w WorkItem) Day() time.Time {
	return time.UnixMilli(w.Date).UTC().Truncate(24 * time.Hour)
}

// WorkItemIndex maps issue id -> composite group key -> work items.
//
// The index is derived data, rebuilt on every refresh; it is never the
// source of truth.
type WorkItemIndex map[string]map[string][]WorkItem

// Lookup returns the work items filed under the given issue and group key.
func (idx WorkItemIndex) Lookup(issueID, groupKey string) []WorkItem {
	groups, ok := idx[issueID]
	if !ok {
		return nil
	}
	return groups[groupKey]
}

// Groups returns the key -> work items mapping for one issue.
func (idx WorkItemIndex) Groups(issueID string) map[string][]WorkItem {
	return idx[issueID]
}

// Severity grades a validation error.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ValidationResult is the per-unit outcome of comparing tracked time against
// booked time.
//
// IsValid is true when no booked time was found (absence is not an error) or
// when the minute gap is within tolerance.
type ValidationResult struct {
	EntryID         int64      `json:"entry_id"`
	IssueID         string     `json:"issue_id"`
	TogglDuration   int64      `json:"toggl_duration"` // seconds
	TogglMinutes    int        `json:"toggl_minutes"`  // rounded to the 5-minute grid
	YouTrackMinutes int        `json:"youtrack_minutes"`
	IsValid         bool       `json:"is_valid"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	WorkItems       []WorkItem `json:"work_items"`
}

// ValidationError is emitted only when a ValidationResult is invalid.
type ValidationError struct {
	EntryID  int64    `json:"entry_id"`
	IssueID  string   `json:"issue_id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}
