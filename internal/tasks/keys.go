package tasks

import (
	"fmt"
	"strings"

	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

// EntryGroupKey derives the composite lookup key for a logical unit.
//
// Grouped mode:   "<description>-<day>"
// Ungrouped mode: "<description>-<entry id>-<day>"
//
// The grouped form must match WorkItemGroupKey byte for byte for a booking
// made from the same entry; that exact-string identity is the entire basis
// of matching.
func EntryGroupKey(entry models.TimeEntry, grouped bool) string {
	description := ExtractDescription(entry.Description)
	day := shared.DayKey(entry.Start)
	if grouped {
		return description + "-" + day
	}
	return fmt.Sprintf("%s-%d-%s", description, entry.ID, day)
}

// WorkItemGroupKey derives the composite key a work item is indexed under:
// "<text>-<day>".
//
// Work items carry no source-entry identity, so the key never includes an
// entry id; ungrouped entry keys therefore miss the primary index by
// construction and are resolved through the fallback scan instead.
func WorkItemGroupKey(item models.WorkItem) string {
	return item.Text + "-" + shared.DayKey(item.Day())
}

// BuildWorkItemIndex arranges fetched work items into the issue -> group key
// -> items mapping used by the validator and the transfer detector.
func BuildWorkItemIndex(itemsByIssue map[string][]models.WorkItem) models.WorkItemIndex {
	index := make(models.WorkItemIndex, len(itemsByIssue))
	for issueID, items := range itemsByIssue {
		groups := make(map[string][]models.WorkItem)
		for _, item := range items {
			key := WorkItemGroupKey(item)
			groups[key] = append(groups[key], item)
		}
		index[issueID] = groups
	}
	return index
}

// authoredBy keeps only work items authored by the given user. An empty
// user id disables the filter.
func authoredBy(items []models.WorkItem, userID string) []models.WorkItem {
	if userID == "" {
		return items
	}
	filtered := make([]models.WorkItem, 0, len(items))
	for _, item := range items {
		if item.Author != nil && item.Author.ID == userID {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// fallbackCandidates is the secondary, looser matching pass used when an
// ungrouped primary key finds nothing: scan every group of the issue whose
// key ends in the entry's day, then require the same author and exact
// description equality.
func fallbackCandidates(index models.WorkItemIndex, issueID, day, description, userID string) []models.WorkItem {
	var matches []models.WorkItem
	for key, items := range index.Groups(issueID) {
		if !strings.HasSuffix(key, "-"+day) {
			continue
		}
		for _, item := range authoredBy(items, userID) {
			if item.Text == description {
				matches = append(matches, item)
			}
		}
	}
	return matches
}
