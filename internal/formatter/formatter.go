// package formatter renders reconciliation reports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/geox55/youtrack-time-tracker/internal/tasks"
)

// ExportToCSV converts a snapshot's validation results to CSV with columns:
// EntryID, IssueID, Day, TogglMinutes, YouTrackMinutes, Valid, Transferred, Message
func ExportToCSV(snapshot *tasks.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"EntryID", "IssueID", "Day", "TogglMinutes", "YouTrackMinutes", "Valid", "Transferred", "Message"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, unit := range snapshot.Units {
		result := snapshot.Report.Result(unit.ID)
		if result == nil {
			continue
		}
		record := []string{
			strconv.FormatInt(result.EntryID, 10),
			result.IssueID,
			shared.DayKey(unit.Start),
			strconv.Itoa(result.TogglMinutes),
			strconv.Itoa(result.YouTrackMinutes),
			strconv.FormatBool(result.IsValid),
			strconv.FormatBool(snapshot.IsTransferred(unit.ID)),
			result.ErrorMessage,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a snapshot to a Markdown report.
func ExportToMarkdown(snapshot *tasks.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Reconciliation %s — %s\n\n", shared.DayKey(snapshot.Start), shared.DayKey(snapshot.End.AddDate(0, 0, -1))))
	if snapshot.User != nil {
		buf.WriteString(fmt.Sprintf("**User**: %s (%s)\n", snapshot.User.Name, snapshot.User.Login))
	}
	buf.WriteString(fmt.Sprintf("**Entries**: %d\n", len(snapshot.Units)))
	buf.WriteString(fmt.Sprintf("**Tracked**: %s\n", shared.FormatDuration(snapshot.TotalSeconds())))
	buf.WriteString(fmt.Sprintf("**Average per day**: %s\n\n", shared.FormatDuration(snapshot.AveragePerDay())))

	buf.WriteString("| Entry | Issue | Day | Toggl | YouTrack | Status |\n")
	buf.WriteString("|---|---|---|---|---|---|\n")
	for _, unit := range snapshot.Units {
		result := snapshot.Report.Result(unit.ID)
		if result == nil {
			continue
		}
		status := "ok"
		switch {
		case snapshot.IsTransferred(unit.ID):
			status = "transferred"
		case !result.IsValid:
			status = string(snapshot.Report.Error(unit.ID).Severity)
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %dm | %dm | %s |\n",
			result.EntryID, result.IssueID, shared.DayKey(unit.Start),
			result.TogglMinutes, result.YouTrackMinutes, status))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a snapshot to a plain text report.
func ExportToText(snapshot *tasks.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Week: %s — %s\n", shared.DayKey(snapshot.Start), shared.DayKey(snapshot.End.AddDate(0, 0, -1))))
	buf.WriteString(fmt.Sprintf("Entries: %d, tracked %s\n\n", len(snapshot.Units), shared.FormatDuration(snapshot.TotalSeconds())))

	for _, unit := range snapshot.Units {
		result := snapshot.Report.Result(unit.ID)
		if result == nil {
			continue
		}
		line := fmt.Sprintf("%s %s: Toggl %dm, YouTrack %dm", result.IssueID, shared.DayKey(unit.Start), result.TogglMinutes, result.YouTrackMinutes)
		if snapshot.IsTransferred(unit.ID) {
			line += " [transferred]"
		} else if !result.IsValid {
			line += fmt.Sprintf(" [%s] %s", snapshot.Report.Error(unit.ID).Severity, result.ErrorMessage)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// WriteReport renders a snapshot in the given format ("csv", "markdown" or
// "text") and writes it to path.
func WriteReport(snapshot *tasks.Snapshot, format, path string) error {
	var data []byte
	var err error

	switch format {
	case "csv":
		data, err = ExportToCSV(snapshot)
	case "markdown", "md":
		data, err = ExportToMarkdown(snapshot)
	case "text", "txt":
		data, err = ExportToText(snapshot)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}
