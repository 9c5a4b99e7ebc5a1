package tasks

import (
	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

// IsEntryTransferred answers "has this logical unit already been booked?"
// using the same key derivation as validation but the stricter match
// tolerance, since a positive answer suppresses a booking for good.
//
// Grouped mode: the primary-key candidate set (authored by the user) must be
// non-empty and its summed minutes within the match tolerance of the unit's
// rounded duration. Ungrouped mode: primary lookup first, then the fallback
// scan, and some single candidate must individually sit within tolerance.
func IsEntryTransferred(unit models.GroupedTimeEntry, index models.WorkItemIndex, userID string, grouped bool) bool {
	issueID := ExtractIssueID(unit.Description)
	if issueID == "" {
		return false
	}

	togglMinutes := shared.RoundSecondsTo5Minutes(unit.Duration)
	candidates := authoredBy(index.Lookup(issueID, EntryGroupKey(unit.TimeEntry, grouped)), userID)

	if grouped {
		if len(candidates) == 0 {
			return false
		}
		total := 0
		for _, item := range candidates {
			total += item.Duration.Minutes
		}
		return abs(total-togglMinutes) <= matchTolerance
	}

	if len(candidates) == 0 {
		day := shared.DayKey(unit.Start)
		description := ExtractDescription(unit.Description)
		candidates = fallbackCandidates(index, issueID, day, description, userID)
	}

	for _, item := range candidates {
		if abs(item.Duration.Minutes-togglMinutes) <= matchTolerance {
			return true
		}
	}
	return false
}
