package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/geox55/youtrack-time-tracker/internal/services"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/geox55/youtrack-time-tracker/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	toggl     services.TimeTracker
	youtrack  services.IssueTracker
	offsets   services.OffsetCache
	db        *sql.DB
	logger    *log.Logger
	output    io.Writer
	reconcile *tasks.ReconcileEngine
	transfer  *tasks.TransferEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Toggl    services.TimeTracker
	YouTrack services.IssueTracker
	Offsets  services.OffsetCache
	DB       *sql.DB
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	reconcile := tasks.NewReconcileEngine(opts.Toggl, opts.YouTrack, opts.Offsets, opts.Config.Reconcile.PageSize)
	transfer := tasks.NewTransferEngine(opts.Toggl, opts.YouTrack, opts.Config.Credentials.Toggl.TransferTag)

	return &Runner{
		config:    opts.Config,
		toggl:     opts.Toggl,
		youtrack:  opts.YouTrack,
		offsets:   opts.Offsets,
		db:        opts.DB,
		logger:    opts.Logger,
		output:    opts.Output,
		reconcile: reconcile,
		transfer:  transfer,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, entriesCommand, validateCommand, transferCommand, userCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// requireServices guards actions that talk to both remotes.
func (r *Runner) requireServices() error {
	if r.toggl == nil {
		return fmt.Errorf("%w: Toggl service not initialized (check credentials.toggl in config)", shared.ErrServiceUnavailable)
	}
	if r.youtrack == nil {
		return fmt.Errorf("%w: YouTrack service not initialized (check credentials.youtrack in config)", shared.ErrServiceUnavailable)
	}
	return nil
}

// selectedDate parses the --date flag, defaulting to today.
func selectedDate(cmd *cli.Command) (time.Time, error) {
	raw := cmd.String("date")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", shared.ErrInvalidArgument, raw)
	}
	return t, nil
}

// groupedSetting resolves whether entries should be merged, letting the
// --ungrouped flag override the config default.
func (r *Runner) groupedSetting(cmd *cli.Command) bool {
	if cmd.Bool("ungrouped") {
		return false
	}
	return r.config.Reconcile.GroupEntries
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
