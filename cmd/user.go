package main

import (
	"context"
	"fmt"

	"github.com/geox55/youtrack-time-tracker/internal/shared"
	"github.com/urfave/cli/v3"
)

// User fetches and prints the authenticated YouTrack user.
func (r *Runner) User(ctx context.Context, cmd *cli.Command) error {
	if r.youtrack == nil {
		return fmt.Errorf("%w: YouTrack service not initialized (check credentials.youtrack in config)", shared.ErrServiceUnavailable)
	}

	user, err := r.youtrack.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch current user: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlain("Logged in as %s (%s, id %s)\n", user.Name, user.Login, user.ID)
	return nil
}
