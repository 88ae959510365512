package services

import (
	"strings"

	"finance-admin/internal/models"
)

// ConsolidateGroups merges entries of the same type whose names are equal once
// surrounding whitespace is trimmed. Totals and counts are summed and percentages are
// recomputed against the merged total, so they add up to 100 whenever the
// total is positive.
func ConsolidateGroups(groups []models.GroupTotal) []models.GroupTotal {
	index := make(map[groupKey]int, len(groups))
	merged := make([]models.GroupTotal, 0, len(groups))

	for _, g := range groups {
		key := groupKey{txType: g.Type, name: strings.TrimSpace(g.Name)}

		i, exists := index[key]
		if !exists {
			index[key] = len(merged)
			merged = append(merged, models.GroupTotal{
				Name:  key.name,
				Type:  g.Type,
				Total: g.Total,
				Count: g.Count,
			})
			continue
		}

		merged[i].Total = merged[i].Total.Add(g.Total)
		merged[i].Count += g.Count
	}

	applyPercentages(merged)
	sortGroups(merged)
	return merged
}

// ConsolidateView consolidates both grouping lists of a filtered view
func ConsolidateView(view models.FilteredFinancialView) models.FilteredFinancialView {
	view.ByConcept = ConsolidateGroups(view.ByConcept)
	view.ByProvider = ConsolidateGroups(view.ByProvider)
	return view
}
