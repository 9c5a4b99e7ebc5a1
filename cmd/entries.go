package main

import (
	"context"
	"time"

	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/geox55/youtrack-time-tracker/internal/tasks"
	"github.com/urfave/cli/v3"
)

// entryRow is the JSON shape for a single reconciled unit.
type entryRow struct {
	ID          int64  `json:"id"`
	IssueID     string `json:"issue_id"`
	Description string `json:"description"`
	Day         string `json:"day"`
	Seconds     int64  `json:"seconds"`
	Merged      int    `json:"merged"`
	Transferred bool   `json:"transferred"`
	Valid       bool   `json:"valid"`
	Message     string `json:"message,omitempty"`
}

// EntriesList fetches and reconciles a week of entries, printing each unit
// with its booking status.
func (r *Runner) EntriesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}
	selected, err := selectedDate(cmd)
	if err != nil {
		return err
	}
	grouped := r.groupedSetting(cmd)

	r.logger.Info("listing entries", "week_of", shared.DayKey(selected), "grouped", grouped)

	snapshot, err := r.refreshWithProgress(ctx, selected, grouped, !cmd.Bool("json"))
	if err != nil {
		return err
	}

	rows := make([]entryRow, len(snapshot.Units))
	for i, unit := range snapshot.Units {
		row := entryRow{
			ID:          unit.ID,
			IssueID:     tasks.ExtractIssueID(unit.Description),
			Description: unit.Description,
			Day:         shared.DayKey(unit.Start),
			Seconds:     unit.Duration,
			Merged:      len(unit.OriginalIDs),
			Transferred: snapshot.IsTransferred(unit.ID),
			Valid:       !snapshot.Report.HasError(unit.ID),
		}
		if validationErr := snapshot.Report.Error(unit.ID); validationErr != nil {
			row.Message = validationErr.Message
		}
		rows[i] = row
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Entries " + shared.DayKey(snapshot.Start) + " — " + shared.DayKey(snapshot.End.AddDate(0, 0, -1)))
	if len(rows) == 0 {
		r.writePlain("No bookable entries in this week.\n")
		return nil
	}

	for _, row := range rows {
		status := "not booked"
		switch {
		case row.Transferred:
			status = "transferred"
		case row.Message != "":
			status = row.Message
		}
		r.writePlain("%-12d %-12s %s  %s  %s", row.ID, row.IssueID, row.Day, shared.FormatDuration(row.Seconds), row.Description)
		if row.Merged > 1 {
			r.writePlain(" (%d merged)", row.Merged)
		}
		r.writePlain(" [%s]\n", status)
	}

	r.writePlain("\nTotal: %s, average per day: %s\n",
		shared.FormatDuration(snapshot.TotalSeconds()),
		shared.FormatDuration(snapshot.AveragePerDay()),
	)
	return nil
}

// refreshWithProgress runs a reconciliation pass, optionally echoing phase
// updates to the output writer.
func (r *Runner) refreshWithProgress(ctx context.Context, selected time.Time, grouped, verbose bool) (*tasks.Snapshot, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if !verbose {
				continue
			}
			switch update.Phase {
			case tasks.FetchWorkItems:
				r.writePlain("  %s\n", update.Message)
			default:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	snapshot, err := r.reconcile.Refresh(ctx, selected, grouped, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return nil, err
	}
	if verbose {
		r.writePlain("\n")
	}
	return snapshot, nil
}
