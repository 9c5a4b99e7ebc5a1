// Toggl Track API v9 [TimeTracker] implementation
package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/geox55/youtrack-time-tracker/internal/models"
)

const defaultTogglBaseURL = "https://api.track.toggl.com/api/v9"

// TogglService implements TimeTracker against the Toggl Track API v9.
type TogglService struct {
	baseURL     string
	apiToken    string
	workspaceID int64
	httpClient  *http.Client
}

// NewTogglService creates a Toggl client. The workspace id scopes tag
// updates; it is not needed for reads.
func NewTogglService(baseURL, apiToken string, workspaceID int64) *TogglService {
	if baseURL == "" {
		baseURL = defaultTogglBaseURL
	}

	return &TogglService{
		baseURL:     baseURL,
		apiToken:    apiToken,
		workspaceID: workspaceID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the service name.
func (t *TogglService) Name() string {
	return "Toggl Track"
}

func (t *TogglService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Toggl basic auth: token:api_token
	auth := base64.StdEncoding.EncodeToString([]byte(t.apiToken + ":api_token"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("toggl API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// rawTimeEntry mirrors the JSON shape of Toggl v9 time entries.
type rawTimeEntry struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop"`
	Duration    int64      `json:"duration"`
}

// FetchEntries retrieves time entries inside [start, end).
//
// Calls GET /me/time_entries with RFC 3339 bounds.
func (t *TogglService) FetchEntries(ctx context.Context, start, end time.Time) ([]models.TimeEntry, error) {
	q := url.Values{}
	q.Set("start_date", start.UTC().Format(time.RFC3339))
	q.Set("end_date", end.UTC().Format(time.RFC3339))

	var raw []rawTimeEntry
	if err := t.doRequest(ctx, http.MethodGet, "/me/time_entries?"+q.Encode(), nil, &raw); err != nil {
		return nil, err
	}

	entries := make([]models.TimeEntry, len(raw))
	for i, r := range raw {
		entries[i] = models.TimeEntry{
			ID:          r.ID,
			Description: r.Description,
			Start:       r.Start,
			Stop:        r.Stop,
			Duration:    r.Duration,
		}
	}

	return entries, nil
}

// TagEntry adds tags to a time entry without touching its other fields.
//
// Calls PUT /workspaces/{workspace_id}/time_entries/{id} with tag_action=add.
func (t *TogglService) TagEntry(ctx context.Context, entryID int64, tags []string) error {
	if t.workspaceID == 0 {
		return fmt.Errorf("workspace id required for tagging")
	}

	body := struct {
		Tags      []string `json:"tags"`
		TagAction string   `json:"tag_action"`
	}{Tags: tags, TagAction: "add"}

	endpoint := fmt.Sprintf("/workspaces/%d/time_entries/%d", t.workspaceID, entryID)
	return t.doRequest(ctx, http.MethodPut, endpoint, body, nil)
}
