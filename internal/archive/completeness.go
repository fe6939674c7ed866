package archive

import (
	"math"

	"golfref/archival/internal/models"
)

// CompletenessScore measures what fraction of the (year, kind) slots in the
// probed inventory actually hold data for the referee. Only years with at
// least one available kind are considered; each considered year contributes
// three slots. The score belongs to the archival run that produced it and is
// recomputed, never accumulated.
func CompletenessScore(inv Inventory, rec *models.CareerRecord) float64 {
	years := inv.AvailableYears()
	if len(years) == 0 {
		return 0.0
	}

	points := 0
	for _, y := range years {
		if len(rec.TournamentsByYear[y]) > 0 {
			points++
		}
		if len(rec.AssignmentsByYear[y]) > 0 {
			points++
		}
		if len(rec.AvailabilitiesByYear[y]) > 0 {
			points++
		}
	}

	score := float64(points) / float64(3*len(years))
	return math.Round(score*100) / 100
}
