// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/geox55/youtrack-time-tracker/internal/models"
)

// MockTimeTracker is a test double for [services.TimeTracker]
type MockTimeTracker struct {
	Entries    []models.TimeEntry
	FetchErr   error
	TagErr     error
	mu         sync.Mutex
	TaggedIDs  []int64
	TaggedTags [][]string
}

func (m *MockTimeTracker) FetchEntries(ctx context.Context, start, end time.Time) ([]models.TimeEntry, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Entries, nil
}

func (m *MockTimeTracker) TagEntry(ctx context.Context, entryID int64, tags []string) error {
	if m.TagErr != nil {
		return m.TagErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TaggedIDs = append(m.TaggedIDs, entryID)
	m.TaggedTags = append(m.TaggedTags, tags)
	return nil
}

func (m *MockTimeTracker) Name() string { return "mock-toggl" }

// MockIssueTracker is a test double for [services.IssueTracker]
type MockIssueTracker struct {
	Items     map[string][]models.WorkItem
	User      *models.User
	FetchErr  error
	CreateErr error
	DeleteErr error
	UserErr   error

	mu         sync.Mutex
	Created    []models.WorkItem
	Deleted    []string
	FetchCalls int
}

func (m *MockIssueTracker) FetchWorkItems(ctx context.Context, issueID string, skip, top int) ([]models.WorkItem, error) {
	m.mu.Lock()
	m.FetchCalls++
	m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	items := m.Items[issueID]
	if skip >= len(items) {
		return nil, nil
	}
	end := skip + top
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end], nil
}

func (m *MockIssueTracker) CreateWorkItem(ctx context.Context, issueID string, item models.WorkItem) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, item)
	return "wi-created", nil
}

func (m *MockIssueTracker) DeleteWorkItem(ctx context.Context, issueID, workItemID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, workItemID)
	return nil
}

func (m *MockIssueTracker) CurrentUser(ctx context.Context) (*models.User, error) {
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	if m.User != nil {
		return m.User, nil
	}
	return &models.User{ID: "u1", Login: "tester", Name: "Tester"}, nil
}

func (m *MockIssueTracker) Name() string { return "mock-youtrack" }

// MemoryOffsets is an in-memory [services.OffsetCache]
type MemoryOffsets struct {
	mu      sync.Mutex
	Offsets map[string]int
}

func (m *MemoryOffsets) Offset(issueID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Offsets[issueID]
}

func (m *MemoryOffsets) SetOffset(issueID string, skip int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Offsets == nil {
		m.Offsets = make(map[string]int)
	}
	m.Offsets[issueID] = skip
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
