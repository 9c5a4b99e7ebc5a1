package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/geox55/youtrack-time-tracker/internal/tasks"
)

var (
	_ list.Item = entryItem{}
)

// entryItem wraps a logical unit plus its reconciliation status to
// implement [list.Item].
type entryItem struct {
	unit     models.GroupedTimeEntry
	snapshot *tasks.Snapshot
}

func (i entryItem) FilterValue() string { return i.unit.Description }
func (i entryItem) Title() string       { return i.unit.Description }
func (i entryItem) Description() string {
	desc := fmt.Sprintf("%s • %s", shared.DayKey(i.unit.Start), shared.FormatDuration(i.unit.Duration))
	if len(i.unit.OriginalIDs) > 1 {
		desc = fmt.Sprintf("%s • %d merged", desc, len(i.unit.OriginalIDs))
	}
	return fmt.Sprintf("%s • %s", desc, i.status())
}

// status renders the reconciliation verdict for the unit.
func (i entryItem) status() string {
	if i.snapshot == nil {
		return ""
	}
	if i.snapshot.IsTransferred(i.unit.ID) {
		return styles.ok.Render("transferred")
	}
	if validationErr := i.snapshot.Report.Error(i.unit.ID); validationErr != nil {
		if validationErr.Severity == models.SeverityError {
			return styles.err.Render(validationErr.Message)
		}
		return styles.warn.Render(validationErr.Message)
	}
	return "not booked"
}
