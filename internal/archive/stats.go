package archive

import (
	"sort"

	"golfref/archival/internal/models"
)

// BuildStats derives the career summary from the merged year-keyed maps.
// It is a pure function: same input, same output, no clock reads. Callers
// must regenerate stats after every mutation of the underlying maps.
func BuildStats(
	tournaments map[int][]models.TournamentSnapshot,
	assignments map[int][]models.AssignmentSnapshot,
	availabilities map[int][]models.AvailabilitySnapshot,
) models.CareerStats {
	stats := models.CareerStats{
		RolesSummary: make(map[string]int),
	}

	// Years and the most-active pick iterate in sorted order so ties
	// resolve to the lowest year.
	years := make([]int, 0, len(tournaments))
	for y := range tournaments {
		years = append(years, y)
	}
	sort.Ints(years)

	bestCount := 0
	for _, y := range years {
		n := len(tournaments[y])
		if n == 0 {
			continue
		}
		stats.TotalYears++
		stats.TotalTournaments += n
		if n > bestCount {
			bestCount = n
			stats.MostActiveYear = y
		}
	}

	for _, entries := range assignments {
		stats.TotalAssignments += len(entries)
		for _, a := range entries {
			stats.RolesSummary[a.Role]++
		}
	}

	for _, entries := range availabilities {
		stats.TotalAvailabilities += len(entries)
	}

	if stats.TotalYears > 0 {
		stats.AvgTournamentsPerYear = float64(stats.TotalTournaments) / float64(stats.TotalYears)
	}

	return stats
}
