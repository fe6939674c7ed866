package archive

import (
	"testing"

	"golfref/archival/internal/models"

	"github.com/stretchr/testify/assert"
)

func available(rows int64) SlotStatus {
	return SlotStatus{Available: true, Rows: rows}
}

func TestCompletenessScore_EmptyInventory(t *testing.T) {
	rec := models.NewCareerRecord(1)
	assert.Equal(t, 0.0, CompletenessScore(Inventory{}, rec))
}

func TestCompletenessScore_NoAvailableYears(t *testing.T) {
	inv := Inventory{
		2016: {},
		2017: {},
	}
	rec := models.NewCareerRecord(1)
	assert.Equal(t, 0.0, CompletenessScore(inv, rec))
}

func TestCompletenessScore_FullyPopulated(t *testing.T) {
	inv := Inventory{
		2020: {Tournaments: available(5), Assignments: available(5), Availabilities: available(5)},
	}
	rec := models.NewCareerRecord(1)
	rec.TournamentsByYear[2020] = []models.TournamentSnapshot{tournament(1, "A", 2020)}
	rec.AssignmentsByYear[2020] = []models.AssignmentSnapshot{assignment(1, "Referee", 2020)}
	rec.AvailabilitiesByYear[2020] = []models.AvailabilitySnapshot{{TournamentID: 1}}

	assert.Equal(t, 1.0, CompletenessScore(inv, rec))
}

func TestCompletenessScore_PartialAndRounded(t *testing.T) {
	inv := Inventory{
		2020: {Tournaments: available(5), Assignments: available(5), Availabilities: available(5)},
	}
	rec := models.NewCareerRecord(1)
	rec.TournamentsByYear[2020] = []models.TournamentSnapshot{tournament(1, "A", 2020)}

	// 1 of 3 slots populated, rounded to two decimals.
	assert.Equal(t, 0.33, CompletenessScore(inv, rec))
}

func TestCompletenessScore_UnavailableYearStillCounts(t *testing.T) {
	// A year available for one kind contributes three slots; its
	// unavailable kinds stay unpopulated and pull the score down.
	inv := Inventory{
		2019: {Assignments: available(2)},
		2020: {Tournaments: available(1), Assignments: available(1), Availabilities: available(1)},
	}
	rec := models.NewCareerRecord(1)
	rec.AssignmentsByYear[2019] = []models.AssignmentSnapshot{assignment(1, "Referee", 2019)}
	rec.TournamentsByYear[2020] = []models.TournamentSnapshot{tournament(2, "B", 2020)}
	rec.AssignmentsByYear[2020] = []models.AssignmentSnapshot{assignment(2, "Referee", 2020)}
	rec.AvailabilitiesByYear[2020] = []models.AvailabilitySnapshot{{TournamentID: 2}}

	// 4 of 6 slots populated.
	assert.Equal(t, 0.67, CompletenessScore(inv, rec))
}

func TestCompletenessScore_Bounds(t *testing.T) {
	inv := Inventory{
		2015: {Tournaments: available(0)},
		2016: {Tournaments: available(3), Assignments: available(3), Availabilities: available(3)},
		2017: {},
	}
	rec := models.NewCareerRecord(1)
	rec.TournamentsByYear[2016] = []models.TournamentSnapshot{tournament(1, "A", 2016)}

	score := CompletenessScore(inv, rec)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
