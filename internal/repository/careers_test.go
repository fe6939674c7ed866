//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"golfref/archival/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests for database operations
// Run with: go test -v -tags=integration ./internal/repository/...

func setupTestDB(t *testing.T) (*Database, context.Context) {
	ctx := context.Background()

	cfg := Config{
		Host:     "localhost",
		Port:     "5432",
		Database: "refarchive_test",
		User:     "refarchive_user",
		Password: "refarchive_password",
		SSLMode:  "disable",
	}

	db, err := NewDatabase(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")

	return db, ctx
}

func teardownTestDB(t *testing.T, db *Database) {
	db.Close()
}

func TestDatabaseConnection(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Health(ctx)
	assert.NoError(t, err, "Database health check should pass")

	stats := db.PoolStats()
	assert.NotNil(t, stats, "Should return connection pool stats")
	assert.GreaterOrEqual(t, stats["max_conns"].(int32), int32(1), "Should have at least 1 max connection")
}

func TestCareerRepository_UpsertAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	rec := models.NewCareerRecord(900001)
	rec.TournamentsByYear[2022] = []models.TournamentSnapshot{
		{ID: 500, Name: "Spring Open", ClubID: 7, ClubName: "Fairway GC",
			StartDate: time.Date(2022, 4, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2022, 4, 12, 0, 0, 0, 0, time.UTC)},
	}
	rec.AssignmentsByYear[2022] = []models.AssignmentSnapshot{
		{TournamentID: 500, TournamentName: "Spring Open", Role: "Referee",
			AssignedAt: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), Status: "confirmed"},
	}
	rec.CareerStats = models.CareerStats{
		TotalYears:            1,
		TotalTournaments:      1,
		TotalAssignments:      1,
		RolesSummary:          map[string]int{"Referee": 1},
		MostActiveYear:        2022,
		AvgTournamentsPerYear: 1,
	}
	rec.LastUpdatedYear = 2022
	rec.DataCompletenessScore = 0.67

	err := db.Careers.Upsert(ctx, rec)
	require.NoError(t, err, "Should insert career record")
	assert.False(t, rec.UpdatedAt.IsZero(), "Upsert should return timestamps")

	retrieved, err := db.Careers.Get(ctx, 900001)
	require.NoError(t, err, "Should retrieve career record")
	require.NotNil(t, retrieved)
	assert.Len(t, retrieved.TournamentsByYear[2022], 1)
	assert.Equal(t, "Spring Open", retrieved.TournamentsByYear[2022][0].Name)
	assert.Equal(t, 1, retrieved.CareerStats.RolesSummary["Referee"])
	assert.Equal(t, 0.67, retrieved.DataCompletenessScore)

	// Update and verify the conflict path
	rec.LastUpdatedYear = 2023
	rec.TournamentsByYear[2023] = []models.TournamentSnapshot{{ID: 501, Name: "Autumn Cup"}}
	require.NoError(t, db.Careers.Upsert(ctx, rec), "Should update career record")

	updated, err := db.Careers.Get(ctx, 900001)
	require.NoError(t, err)
	assert.Equal(t, 2023, updated.LastUpdatedYear)
	assert.Len(t, updated.TournamentsByYear, 2)
}

func TestCareerRepository_GetMissingReturnsNil(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	rec, err := db.Careers.Get(ctx, -42)
	require.NoError(t, err, "Missing record is not an error")
	assert.Nil(t, rec)
}
