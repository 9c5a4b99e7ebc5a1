package tasks

import (
	"fmt"

	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

const (
	// validTolerance is the soft limit: booked time may drift this many
	// minutes from tracked time before a unit is flagged invalid.
	validTolerance = 5

	// matchTolerance is the strict limit used when deciding whether a
	// booking corresponds to an entry at all. Stricter than validTolerance
	// because it gates skipping an irreversible transfer.
	matchTolerance = 2

	// errorThreshold separates warnings from errors on invalid units.
	errorThreshold = 10
)

// ValidationReport holds the outcome of one validation pass, with lookup
// accessors keyed by entry id.
type ValidationReport struct {
	Results []models.ValidationResult
	Errors  []models.ValidationError

	resultsByEntry map[int64]*models.ValidationResult
	errorsByEntry  map[int64]*models.ValidationError
}

// Result returns the validation result for an entry id, or nil when the
// entry was not validated (e.g. its label had no issue reference).
func (r *ValidationReport) Result(entryID int64) *models.ValidationResult {
	return r.resultsByEntry[entryID]
}

// Error returns the validation error for an entry id, or nil when the entry
// is valid.
func (r *ValidationReport) Error(entryID int64) *models.ValidationError {
	return r.errorsByEntry[entryID]
}

// HasError reports whether an entry id failed validation.
func (r *ValidationReport) HasError(entryID int64) bool {
	_, ok := r.errorsByEntry[entryID]
	return ok
}

// Validator compares logical units against the work item index.
//
// Validation is pure computation over its inputs; the two matching
// strategies (exact composite key, fallback by day and user) are selected by
// the grouping mode.
type Validator struct {
	index   models.WorkItemIndex
	userID  string
	grouped bool
}

// NewValidator creates a validator over a fully built work item index.
func NewValidator(index models.WorkItemIndex, userID string, grouped bool) *Validator {
	return &Validator{index: index, userID: userID, grouped: grouped}
}

// candidates resolves the work items that correspond to a unit: primary
// composite key first, then the fallback scan when an ungrouped key misses.
func (v *Validator) candidates(unit models.GroupedTimeEntry, issueID string) []models.WorkItem {
	primary := authoredBy(v.index.Lookup(issueID, EntryGroupKey(unit.TimeEntry, v.grouped)), v.userID)
	if len(primary) > 0 || v.grouped {
		return primary
	}

	day := shared.DayKey(unit.Start)
	description := ExtractDescription(unit.Description)
	return fallbackCandidates(v.index, issueID, day, description, v.userID)
}

// bookedMinutes resolves the remote duration for a unit. Grouped mode sums
// every candidate; ungrouped mode picks the first candidate within the
// match tolerance of the tracked duration, or zero when none matches.
func (v *Validator) bookedMinutes(candidates []models.WorkItem, togglMinutes int) int {
	if v.grouped {
		total := 0
		for _, item := range candidates {
			total += item.Duration.Minutes
		}
		return total
	}

	for _, item := range candidates {
		if abs(item.Duration.Minutes-togglMinutes) <= matchTolerance {
			return item.Duration.Minutes
		}
	}
	return 0
}

// Validate produces a result for every unit whose label parses to an issue
// reference, and an error for every invalid result. Absence of booked time
// is never an error.
func (v *Validator) Validate(units []models.GroupedTimeEntry) *ValidationReport {
	report := &ValidationReport{
		resultsByEntry: make(map[int64]*models.ValidationResult),
		errorsByEntry:  make(map[int64]*models.ValidationError),
	}

	for _, unit := range units {
		issueID := ExtractIssueID(unit.Description)
		if issueID == "" {
			continue
		}

		candidates := v.candidates(unit, issueID)
		togglMinutes := shared.RoundSecondsTo5Minutes(unit.Duration)
		bookedMinutes := v.bookedMinutes(candidates, togglMinutes)
		gap := abs(togglMinutes - bookedMinutes)

		result := models.ValidationResult{
			EntryID:         unit.ID,
			IssueID:         issueID,
			TogglDuration:   unit.Duration,
			TogglMinutes:    togglMinutes,
			YouTrackMinutes: bookedMinutes,
			IsValid:         bookedMinutes == 0 || gap <= validTolerance,
			WorkItems:       candidates,
		}

		if !result.IsValid {
			day := shared.DayKey(unit.Start)
			message := fmt.Sprintf("time mismatch on %s: Toggl %dm, YouTrack %dm", day, togglMinutes, bookedMinutes)
			result.ErrorMessage = message

			severity := models.SeverityWarning
			if gap > errorThreshold {
				severity = models.SeverityError
			}
			validationErr := models.ValidationError{
				EntryID:  unit.ID,
				IssueID:  issueID,
				Message:  message,
				Severity: severity,
			}
			report.Errors = append(report.Errors, validationErr)
		}

		report.Results = append(report.Results, result)
	}

	// Index after both slices stop growing so the pointers stay stable.
	for i := range report.Results {
		report.resultsByEntry[report.Results[i].EntryID] = &report.Results[i]
	}
	for i := range report.Errors {
		report.errorsByEntry[report.Errors[i].EntryID] = &report.Errors[i]
	}

	return report
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
