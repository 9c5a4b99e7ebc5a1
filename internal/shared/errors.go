package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig       = fmt.Errorf("configuration not found")
	ErrInvalidConfig       = fmt.Errorf("invalid configuration")
	ErrMissingTogglToken   = fmt.Errorf("missing Toggl API token")
	ErrMissingTrackerToken = fmt.Errorf("missing YouTrack API token")
	ErrMissingWorkspace    = fmt.Errorf("missing Toggl workspace id")

	// Parse errors
	ErrNoIssueID = fmt.Errorf("no issue id found in entry description")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrEntryNotFound      = fmt.Errorf("time entry not found")

	// Transfer errors
	ErrAlreadyTransferred = fmt.Errorf("entry already booked in YouTrack")
	ErrTransferInFlight   = fmt.Errorf("entry transfer already in progress")
	ErrTransferRolledBack = fmt.Errorf("transfer rolled back")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
