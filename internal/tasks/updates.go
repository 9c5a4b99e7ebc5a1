package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchEntries Phase = iota
	FetchUser
	FetchWorkItems
	Validate
	Detect
	CreateBooking
	TagEntries
)

func (p Phase) String() string {
	switch p {
	case FetchEntries:
		return "fetch_entries"
	case FetchUser:
		return "fetch_user"
	case FetchWorkItems:
		return "fetch_work_items"
	case Validate:
		return "validate"
	case Detect:
		return "detect"
	case CreateBooking:
		return "create_booking"
	case TagEntries:
		return "tag_entries"
	default:
		return ""
	}
}

func fetchEntriesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEntries,
		Step:    1,
		Total:   1,
		Message: "Fetching time entries from Toggl...",
	}
}

func fetchUserUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchUser,
		Step:    1,
		Total:   1,
		Message: "Fetching current YouTrack user...",
	}
}

func fetchWorkItemsUpdate(step, total int, issueID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchWorkItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching work items for %s...", issueID),
		Data:    issueID,
	}
}

func validateUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Validate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Validating %d entries...", total),
	}
}

func detectUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Detect,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Checking %d entries for existing bookings...", total),
	}
}
