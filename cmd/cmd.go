// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func dateFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "date",
		Aliases: []string{"d"},
		Usage:   "Any day inside the target week (YYYY-MM-DD, default today)",
	}
}

func ungroupedFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "ungrouped",
		Usage: "Treat every entry individually instead of merging same-day duplicates",
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the local database schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Create a configuration file from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the new configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// entriesCommand handles Toggl time entry operations.
func entriesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "entries",
		Aliases: []string{"e"},
		Usage:   "Toggl time entry operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List bookable entries for a week with reconciliation status",
				Flags: []cli.Flag{
					dateFlag(),
					ungroupedFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.EntriesList,
			},
		},
	}
}

// validateCommand handles duration validation reporting.
func validateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validation commands",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Compare tracked durations against booked work items",
				Flags: []cli.Flag{
					dateFlag(),
					ungroupedFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Report format: text, csv or markdown",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the report to a file instead of stdout",
					},
				},
				Action: r.ValidateRun,
			},
		},
	}
}

// transferCommand handles booking time into YouTrack.
func transferCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "transfer",
		Aliases: []string{"t"},
		Usage:   "Transfer tracked time to YouTrack",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Transfer a single entry by its Toggl id",
				Flags: []cli.Flag{
					dateFlag(),
					ungroupedFlag(),
					&cli.Int64Flag{
						Name:     "entry",
						Aliases:  []string{"e"},
						Usage:    "Toggl entry id to transfer",
						Required: true,
					},
				},
				Action: r.TransferRun,
			},
			{
				Name:  "all",
				Usage: "Transfer every valid, unbooked entry in the week",
				Flags: []cli.Flag{
					dateFlag(),
					ungroupedFlag(),
				},
				Action: r.TransferAll,
			},
		},
	}
}

// userCommand shows the authenticated YouTrack user.
func userCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Show the authenticated YouTrack user",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.User,
	}
}

// tuiCommand launches the interactive terminal interface.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Interactive weekly reconciliation",
		Flags: []cli.Flag{
			dateFlag(),
			ungroupedFlag(),
		},
		Action: r.TUI,
	}
}
