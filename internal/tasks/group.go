package tasks

import (
	"fmt"
	"sort"
	"time"

	"github.com/geox55/youtrack-time-tracker/internal/models"
	"github.com/geox55/youtrack-time-tracker/internal/shared"
)

// GroupEntries collapses raw time entries into logical units.
//
// In grouped mode, entries sharing the same issue, description and calendar
// day merge into one unit: the representative id comes from the
// earliest-starting entry, the duration is the sum of all member durations
// (conservation law), start is the earliest start, stop the latest stop, and
// OriginalIDs lists every member id in start order.
//
// In ungrouped mode every entry stays its own unit with OriginalIDs holding
// just its own id, so both modes expose the same shape downstream.
//
// Entries without a parseable issue reference are excluded upstream by
// FilterBookable; grouping itself never fails.
func GroupEntries(entries []models.TimeEntry, grouped bool) []models.GroupedTimeEntry {
	if !grouped {
		units := make([]models.GroupedTimeEntry, 0, len(entries))
		for _, entry := range entries {
			if ExtractIssueID(entry.Description) == "" {
				continue
			}
			units = append(units, models.GroupedTimeEntry{
				TimeEntry:   entry,
				OriginalIDs: []int64{entry.ID},
			})
		}
		return units
	}

	partitions := make(map[string][]models.TimeEntry)
	order := make([]string, 0)

	for _, entry := range entries {
		issueID := ExtractIssueID(entry.Description)
		if issueID == "" {
			continue
		}
		key := fmt.Sprintf("%s|%s|%s", issueID, ExtractDescription(entry.Description), shared.DayKey(entry.Start))
		if _, ok := partitions[key]; !ok {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], entry)
	}

	units := make([]models.GroupedTimeEntry, 0, len(partitions))
	for _, key := range order {
		units = append(units, mergePartition(partitions[key]))
	}

	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Start.After(units[j].Start)
	})

	return units
}

// mergePartition folds one partition into its representative unit.
func mergePartition(members []models.TimeEntry) models.GroupedTimeEntry {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Start.Before(members[j].Start)
	})

	first := members[0]

	var total int64
	ids := make([]int64, len(members))
	earliest := first.Start
	latest := first.Stop

	for i, member := range members {
		total += member.Duration
		ids[i] = member.ID

		if member.Start.Before(earliest) {
			earliest = member.Start
		}

		stop := member.Stop
		if stop == nil && member.Duration >= 0 {
			// Running entries have no stop; derive one from the duration.
			derived := member.Start.Add(time.Duration(member.Duration) * time.Second)
			stop = &derived
		}
		if stop != nil && (latest == nil || stop.After(*latest)) {
			latest = stop
		}
	}

	return models.GroupedTimeEntry{
		TimeEntry: models.TimeEntry{
			ID:          first.ID,
			Description: first.Description,
			Start:       earliest,
			Stop:        latest,
			Duration:    total,
		},
		OriginalIDs: ids,
	}
}
