// YouTrack REST API [IssueTracker] implementation
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

// workItemFields selects the work item projection used by every read.
const workItemFields = "id,date,duration(minutes),text,author(id,login,name)"

// YouTrackService implements IssueTracker against the YouTrack REST API.
//
// All requests pass through a client-side rate limiter so that deep
// pagination over long work-item histories does not hammer the instance.
type YouTrackService struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTrackService creates a YouTrack client for the given instance base
// URL (".../api") and permanent token.
func NewYouTrackService(baseURL, token string) *YouTrackService {
	return &YouTrackService{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
	}
}

// Name returns the service name.
func (y *YouTrackService) Name() string {
	return "YouTrack"
}

func (y *YouTrackService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if y.token == "" {
		return shared.ErrMissingTrackerToken
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

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

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+y.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("youtrack API error (status %d): %s %s", resp.StatusCode, errResp.Error, errResp.Description)
		}
		return fmt.Errorf("youtrack API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// FetchWorkItems retrieves one page of work items for an issue.
//
// Calls GET /issues/{id}/timeTracking/workItems with $skip/$top paging.
func (y *YouTrackService) FetchWorkItems(ctx context.Context, issueID string, skip, top int) ([]models.WorkItem, error) {
	q := url.Values{}
	q.Set("fields", workItemFields)
	q.Set("$skip", fmt.Sprint(skip))
	q.Set("$top", fmt.Sprint(top))

	var items []models.WorkItem
	endpoint := fmt.Sprintf("/issues/%s/timeTracking/workItems?%s", issueID, q.Encode())
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// CreateWorkItem books time against an issue and returns the created id.
//
// Calls POST /issues/{id}/timeTracking/workItems?fields=id.
func (y *YouTrackService) CreateWorkItem(ctx context.Context, issueID string, item models.WorkItem) (string, error) {
	var created struct {
		ID string `json:"id"`
	}

	endpoint := fmt.Sprintf("/issues/%s/timeTracking/workItems?fields=id", issueID)
	if err := y.doRequest(ctx, http.MethodPost, endpoint, item, &created); err != nil {
		return "", err
	}

	return created.ID, nil
}

// DeleteWorkItem removes a work item from an issue.
//
// Calls DELETE /issues/{id}/timeTracking/workItems/{workItemID}.
func (y *YouTrackService) DeleteWorkItem(ctx context.Context, issueID, workItemID string) error {
	endpoint := fmt.Sprintf("/issues/%s/timeTracking/workItems/%s", issueID, workItemID)
	return y.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// CurrentUser returns the authenticated account.
//
// Calls GET /users/me.
func (y *YouTrackService) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := y.doRequest(ctx, http.MethodGet, "/users/me?fields=id,login,name", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchWorkItemsInWindow accumulates every work item for an issue that falls
// inside the [start, end) window. Work items come back in creation order,
// oldest first, so the scan rewinds until it reaches a page that begins
// before the window (a cached offset may point past it after a more recent
// week was refreshed), then pages forward until a page lies entirely beyond
// the window.
//
// A non-nil cache supplies the starting offset and records the rewound
// position for the next scan. Partial pages must never leak to callers
// deciding transfer eligibility, so the function only returns once
// pagination has terminated.
func FetchWorkItemsInWindow(ctx context.Context, tracker IssueTracker, cache OffsetCache, issueID string, start, end time.Time, pageSize int) ([]models.WorkItem, error) {
	if pageSize <= 0 {
		pageSize = 100
	}

	skip := 0
	if cache != nil {
		skip = cache.Offset(issueID)
	}

	page, err := tracker.FetchWorkItems(ctx, issueID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	// Rewind while the page is empty or starts at or after the window.
	// Lower pages only hold older items, so once a page begins before the
	// window nothing below it can fall inside.
	for skip > 0 && (len(page) == 0 || !oldestDay(page).Before(start)) {
		skip -= pageSize
		if skip < 0 {
			skip = 0
		}
		if page, err = tracker.FetchWorkItems(ctx, issueID, skip, pageSize); err != nil {
			return nil, err
		}
	}

	if cache != nil {
		if err := cache.SetOffset(issueID, skip); err != nil {
			return nil, err
		}
	}

	var collected []models.WorkItem
	for len(page) > 0 {
		relevant := 0
		beyond := true
		for _, item := range page {
			day := item.Day()
			if shared.InWindow(day, start, end) {
				collected = append(collected, item)
				relevant++
			}
			if day.Before(end) {
				beyond = false
			}
		}
		if relevant == 0 && beyond {
			break
		}

		skip += pageSize
		if page, err = tracker.FetchWorkItems(ctx, issueID, skip, pageSize); err != nil {
			return nil, err
		}
	}

	return collected, nil
}

func oldestDay(page []models.WorkItem) time.Time {
	oldest := page[0].Day()
	for _, item := range page[1:] {
		if day := item.Day(); day.Before(oldest) {
			oldest = day
		}
	}
	return oldest
}
