package tasks

import (
	"regexp"
	"sort"
	"strings"

	"github.com/geox55/youtrack-time-tracker/internal/models"
)

// NoDescription is the placeholder used when a label carries no free text.
const NoDescription = "no description"

// issueIDPattern matches a leading issue reference such as "PROJ-12" or
// "#PROJ-12". Lowercase project codes are not valid issue references.
var issueIDPattern = regexp.MustCompile(`^#?([A-Z]+-\d+)`)

// descriptionPattern strips the issue reference plus any separating colon
// and whitespace from a label.
var descriptionPattern = regexp.MustCompile(`^#?[A-Z]+-\d+\s*:?\s*`)

// ExtractIssueID returns the issue reference a label starts with, or the
// empty string when the label has none. Pure and total.
func ExtractIssueID(label string) string {
	m := issueIDPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractDescription returns the free-text part of a label with the issue
// reference and separator removed.
//
// A label without an issue reference is returned trimmed as-is; an empty
// remainder yields the NoDescription placeholder. Agrees with ExtractIssueID
// on what counts as a valid prefix.
func ExtractDescription(label string) string {
	trimmed := strings.TrimSpace(label)
	if ExtractIssueID(trimmed) == "" {
		if trimmed == "" {
			return NoDescription
		}
		return trimmed
	}

	rest := strings.TrimSpace(descriptionPattern.ReplaceAllString(trimmed, ""))
	if rest == "" {
		return NoDescription
	}
	return rest
}

// bookablePattern matches labels that can enter the reconciliation: an
// issue reference followed by the colon separator.
var bookablePattern = regexp.MustCompile(`^#?[A-Z]+-\d+\s*:`)

// FilterBookable keeps only entries whose label starts with an issue
// reference followed by a colon. Everything else has no entry point into
// the reconciliation and is dropped before grouping.
func FilterBookable(entries []models.TimeEntry) []models.TimeEntry {
	bookable := make([]models.TimeEntry, 0, len(entries))
	for _, entry := range entries {
		if bookablePattern.MatchString(strings.TrimSpace(entry.Description)) {
			bookable = append(bookable, entry)
		}
	}
	return bookable
}

// SortByStart orders entries newest first for display.
func SortByStart(entries []models.TimeEntry) []models.TimeEntry {
	sorted := make([]models.TimeEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.After(sorted[j].Start)
	})
	return sorted
}
