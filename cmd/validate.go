package main

import (
	"context"
	"fmt"

	"github.com/geox55/youtrack-time-tracker/internal/formatter"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/urfave/cli/v3"
)

// ValidateRun reconciles a week and renders the validation report.
func (r *Runner) ValidateRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}
	selected, err := selectedDate(cmd)
	if err != nil {
		return err
	}
	grouped := r.groupedSetting(cmd)
	format := cmd.String("format")
	outputPath := cmd.String("output")

	r.logger.Info("validating week", "week_of", shared.DayKey(selected), "grouped", grouped, "format", format)

	snapshot, err := r.refreshWithProgress(ctx, selected, grouped, outputPath != "")
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := formatter.WriteReport(snapshot, format, outputPath); err != nil {
			return err
		}
		r.writePlain("Report written to %s\n", outputPath)
		return nil
	}

	var data []byte
	switch format {
	case "csv":
		data, err = formatter.ExportToCSV(snapshot)
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(snapshot)
	case "text", "txt":
		data, err = formatter.ExportToText(snapshot)
	default:
		return fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	_, err = r.output.Write(data)
	return err
}
