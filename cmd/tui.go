package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/geox55/youtrack-time-tracker/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for weekly reconciliation.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}
	selected, err := selectedDate(cmd)
	if err != nil {
		return err
	}
	grouped := r.groupedSetting(cmd)

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join(os.TempDir(), "ytt-tui.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	r.SetLogger(shared.NewLogger(logFile))

	model := ui.NewModel(ctx, r.reconcile, r.transfer, selected, grouped)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
