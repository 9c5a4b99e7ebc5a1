package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/geox55/youtrack-time-tracker/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TransferRun books a single logical unit into YouTrack by its Toggl id.
func (r *Runner) TransferRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}
	selected, err := selectedDate(cmd)
	if err != nil {
		return err
	}
	grouped := r.groupedSetting(cmd)
	entryID := cmd.Int64("entry")

	r.logger.Info("starting transfer", "entry", entryID, "week_of", shared.DayKey(selected))

	snapshot, err := r.refreshWithProgress(ctx, selected, grouped, true)
	if err != nil {
		return err
	}

	var unit *models.GroupedTimeEntry
	for i := range snapshot.Units {
		if snapshot.Units[i].ID == entryID {
			unit = &snapshot.Units[i]
			break
		}
	}
	if unit == nil {
		return fmt.Errorf("%w: entry %d not in the selected week", shared.ErrEntryNotFound, entryID)
	}

	result, err := r.transfer.Transfer(ctx, *unit, snapshot.Index, snapshot.User.ID, snapshot.Grouped)
	if err != nil {
		return err
	}

	r.writeResult(result)
	return nil
}

// TransferAll books every valid, unbooked unit in the week, continuing past
// entries that are already transferred and stopping on the first hard failure.
func (r *Runner) TransferAll(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}
	selected, err := selectedDate(cmd)
	if err != nil {
		return err
	}
	grouped := r.groupedSetting(cmd)

	r.logger.Info("starting bulk transfer", "week_of", shared.DayKey(selected), "grouped", grouped)

	snapshot, err := r.refreshWithProgress(ctx, selected, grouped, true)
	if err != nil {
		return err
	}

	var booked, skipped int
	for _, unit := range snapshot.Units {
		if snapshot.IsTransferred(unit.ID) {
			skipped++
			continue
		}
		if validationErr := snapshot.Report.Error(unit.ID); validationErr != nil && validationErr.Severity == models.SeverityError {
			r.writePlain("✗ skipping %d (%s): %s\n", unit.ID, unit.Description, validationErr.Message)
			skipped++
			continue
		}

		result, err := r.transfer.Transfer(ctx, unit, snapshot.Index, snapshot.User.ID, snapshot.Grouped)
		if err != nil {
			if errors.Is(err, shared.ErrAlreadyTransferred) {
				skipped++
				continue
			}
			return fmt.Errorf("transfer of entry %d failed: %w", unit.ID, err)
		}
		booked++
		r.writePlain("✓ booked %dm on %s (%s)\n", result.Minutes, result.IssueID, shared.DayKey(result.Date))
	}

	r.writePlain("\n")
	r.writePlainHeader("Bulk Transfer Complete")
	r.writePlain("Booked: %d\n", booked)
	r.writePlain("Skipped: %d\n", skipped)
	return nil
}

func (r *Runner) writeResult(result *tasks.TransferResult) {
	r.writePlain("\n")
	r.writePlainHeader("Transfer Complete!")
	r.writePlain("Issue: %s\n", result.IssueID)
	r.writePlain("Description: %s\n", result.Description)
	r.writePlain("Day: %s\n", shared.FormatDay(result.Date))
	r.writePlain("Booked: %dm (work item %s)\n", result.Minutes, result.WorkItemID)
	r.writePlain("Tagged source entries: %d\n", len(result.TaggedIDs))
}
