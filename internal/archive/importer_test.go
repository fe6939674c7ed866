package archive

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golfref/archival/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImporter(refs ...models.Referee) (*Importer, *fakeCareerStore, *fakeSource) {
	careers := newFakeCareerStore()
	legacy := newFakeSource()
	return NewImporter(careers, newFakeDirectory(refs...), legacy), careers, legacy
}

func legacyYear(legacy *fakeSource, year int, kinds ...Kind) {
	yi := legacy.inventory[year]
	for _, k := range kinds {
		switch k {
		case KindTournaments:
			yi.Tournaments = SlotStatus{Available: true}
		case KindAssignments:
			yi.Assignments = SlotStatus{Available: true}
		case KindAvailabilities:
			yi.Availabilities = SlotStatus{Available: true}
		}
	}
	legacy.inventory[year] = yi
}

func TestImporter_MigratesAvailableYears(t *testing.T) {
	importer, careers, legacy := newTestImporter(
		models.Referee{ID: 1, Name: "Ada Marsh", Level: "National"},
	)
	ctx := context.Background()

	legacyYear(legacy, 2016, KindTournaments, KindAssignments, KindAvailabilities)
	legacyYear(legacy, 2018, KindTournaments, KindAssignments)
	// 2017 has no tables at all.

	legacy.tournaments[srcKey{1, 2016}] = []models.TournamentSnapshot{tournament(10, "Heritage Cup", 2016)}
	legacy.assignments[srcKey{1, 2016}] = []models.AssignmentSnapshot{assignment(10, "Referee", 2016)}
	legacy.availabilities[srcKey{1, 2016}] = []models.AvailabilitySnapshot{{TournamentID: 10, SubmittedAt: time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC)}}
	legacy.tournaments[srcKey{1, 2018}] = []models.TournamentSnapshot{tournament(20, "Links Trophy", 2018)}
	legacy.assignments[srcKey{1, 2018}] = []models.AssignmentSnapshot{assignment(20, "Observer", 2018)}

	res, err := importer.Run(ctx, ImportOptions{YearStart: 2016, YearEnd: 2018})
	require.NoError(t, err)

	assert.Equal(t, 1, res.RefereesProcessed)
	assert.Equal(t, 2, res.TournamentsMigrated)
	assert.Equal(t, 2, res.AssignmentsMigrated)
	assert.Equal(t, 1, res.AvailabilitiesMigrated)
	assert.Equal(t, 0, res.SkippedSlots)
	assert.Empty(t, res.Errors)

	rec, err := careers.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Len(t, rec.TournamentsByYear[2016], 1)
	assert.Len(t, rec.TournamentsByYear[2018], 1)
	assert.NotContains(t, rec.TournamentsByYear, 2017)
	assert.Equal(t, 2018, rec.LastUpdatedYear)
	assert.Equal(t, 2, rec.CareerStats.TotalYears)
}

func TestImporter_LevelBackfillUsesCurrentLevel(t *testing.T) {
	importer, careers, legacy := newTestImporter(
		models.Referee{ID: 1, Name: "Ada Marsh", Level: "National"},
	)
	ctx := context.Background()

	legacyYear(legacy, 2016, KindAssignments)
	legacyYear(legacy, 2017, KindAssignments)

	_, err := importer.Run(ctx, ImportOptions{YearStart: 2016, YearEnd: 2017})
	require.NoError(t, err)

	rec, _ := careers.Get(ctx, 1)
	require.NotNil(t, rec)
	for _, year := range []int{2016, 2017} {
		change, ok := rec.LevelChangesByYear[year]
		require.True(t, ok, "year %d should carry a level change", year)
		assert.Equal(t, "National", change.Level)
		assert.Equal(t, time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), change.EffectiveDate)
	}
}

func TestImporter_SkipsFailedExtractions(t *testing.T) {
	importer, careers, legacy := newTestImporter(
		models.Referee{ID: 1, Name: "Ada Marsh", Level: "National"},
	)
	ctx := context.Background()

	legacyYear(legacy, 2016, KindTournaments, KindAssignments, KindAvailabilities)
	legacy.tournaments[srcKey{1, 2016}] = []models.TournamentSnapshot{tournament(10, "Heritage Cup", 2016)}
	legacy.failOn(1, 2016, KindAssignments)

	res, err := importer.Run(ctx, ImportOptions{YearStart: 2016, YearEnd: 2016})
	require.NoError(t, err)

	assert.Equal(t, 1, res.RefereesProcessed, "extraction failure does not fail the referee")
	assert.Equal(t, 1, res.SkippedSlots)
	assert.Empty(t, res.Errors)

	rec, _ := careers.Get(ctx, 1)
	assert.Len(t, rec.TournamentsByYear[2016], 1)
	assert.Empty(t, rec.AssignmentsByYear[2016])
}

func TestImporter_IsolatesPersistenceFailures(t *testing.T) {
	importer, careers, legacy := newTestImporter(
		models.Referee{ID: 1, Name: "Ada Marsh", Level: "National"},
		models.Referee{ID: 2, Name: "Ben Cole", Level: "Regional"},
		models.Referee{ID: 3, Name: "Cleo Fox", Level: "Club"},
	)
	ctx := context.Background()

	legacyYear(legacy, 2016, KindTournaments, KindAssignments)
	careers.upsertErr[2] = fmt.Errorf("connection reset")

	res, err := importer.Run(ctx, ImportOptions{YearStart: 2016, YearEnd: 2016, BatchSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, res.RefereesProcessed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "referee 2")
}

func TestImporter_DryRunPersistsNothing(t *testing.T) {
	importer, careers, legacy := newTestImporter(
		models.Referee{ID: 1, Name: "Ada Marsh", Level: "National"},
	)
	ctx := context.Background()

	legacyYear(legacy, 2016, KindTournaments, KindAssignments)
	legacy.tournaments[srcKey{1, 2016}] = []models.TournamentSnapshot{tournament(10, "Heritage Cup", 2016)}

	res, err := importer.Run(ctx, ImportOptions{YearStart: 2016, YearEnd: 2016, DryRun: true, DebugLimit: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, res.RefereesProcessed)
	assert.Equal(t, 1, res.TournamentsMigrated)
	assert.Equal(t, 0, careers.upserts, "dry run must not write")
}

func TestImporter_NoAvailableYears(t *testing.T) {
	importer, careers, _ := newTestImporter(
		models.Referee{ID: 1, Name: "Ada Marsh", Level: "National"},
	)

	res, err := importer.Run(context.Background(), ImportOptions{YearStart: 2016, YearEnd: 2018})
	require.NoError(t, err)

	assert.Equal(t, 0, res.RefereesProcessed)
	assert.Equal(t, 0, careers.upserts)
}

func TestImporter_ValidatesRange(t *testing.T) {
	importer, _, _ := newTestImporter()

	_, err := importer.Run(context.Background(), ImportOptions{YearStart: 2020, YearEnd: 2016})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestImporter_CompletenessFromInventory(t *testing.T) {
	importer, careers, legacy := newTestImporter(
		models.Referee{ID: 1, Name: "Ada Marsh", Level: "National"},
	)
	ctx := context.Background()

	legacyYear(legacy, 2016, KindTournaments, KindAssignments, KindAvailabilities)
	legacy.tournaments[srcKey{1, 2016}] = []models.TournamentSnapshot{tournament(10, "Heritage Cup", 2016)}
	legacy.assignments[srcKey{1, 2016}] = []models.AssignmentSnapshot{assignment(10, "Referee", 2016)}

	_, err := importer.Run(ctx, ImportOptions{YearStart: 2016, YearEnd: 2016})
	require.NoError(t, err)

	rec, _ := careers.Get(ctx, 1)
	// 2 of 3 slots populated for the single considered year.
	assert.Equal(t, 0.67, rec.DataCompletenessScore)
}
