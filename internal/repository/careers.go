package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"golfref/archival/internal/metrics"
	"golfref/archival/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// CareerRepository handles consolidated career record operations. The four
// year-keyed maps and the derived stats live in jsonb columns; they are
// (de)serialized only here, at the storage boundary.
type CareerRepository struct {
	db *Database
}

// Get retrieves a referee's career record. Returns (nil, nil) when the
// referee has no record yet.
func (r *CareerRepository) Get(ctx context.Context, refereeID int64) (*models.CareerRecord, error) {
	query := `
		SELECT referee_id, tournaments_by_year, assignments_by_year, availabilities_by_year,
		       level_changes_by_year, career_stats, last_updated_year, data_completeness_score,
		       created_at, updated_at
		FROM referee_career_records
		WHERE referee_id = $1
	`

	var (
		rec            models.CareerRecord
		tournaments    []byte
		assignments    []byte
		availabilities []byte
		levels         []byte
		stats          []byte
	)
	err := r.db.Pool.QueryRow(ctx, query, refereeID).Scan(
		&rec.RefereeID, &tournaments, &assignments, &availabilities,
		&levels, &stats, &rec.LastUpdatedYear, &rec.DataCompletenessScore,
		&rec.CreatedAt, &rec.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		metrics.RecordDBQuery("get", "referee_career_records", "miss")
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBQuery("get", "referee_career_records", "error")
		return nil, fmt.Errorf("failed to get career record: %w", err)
	}
	metrics.RecordDBQuery("get", "referee_career_records", "success")

	if err := json.Unmarshal(tournaments, &rec.TournamentsByYear); err != nil {
		return nil, fmt.Errorf("failed to decode tournaments_by_year: %w", err)
	}
	if err := json.Unmarshal(assignments, &rec.AssignmentsByYear); err != nil {
		return nil, fmt.Errorf("failed to decode assignments_by_year: %w", err)
	}
	if err := json.Unmarshal(availabilities, &rec.AvailabilitiesByYear); err != nil {
		return nil, fmt.Errorf("failed to decode availabilities_by_year: %w", err)
	}
	if err := json.Unmarshal(levels, &rec.LevelChangesByYear); err != nil {
		return nil, fmt.Errorf("failed to decode level_changes_by_year: %w", err)
	}
	if err := json.Unmarshal(stats, &rec.CareerStats); err != nil {
		return nil, fmt.Errorf("failed to decode career_stats: %w", err)
	}
	rec.EnsureMaps()

	return &rec, nil
}

// Upsert inserts or updates a career record as a whole. All jsonb columns
// and scalars are written in one statement, so derived stats can never land
// without the maps they were computed from.
func (r *CareerRepository) Upsert(ctx context.Context, rec *models.CareerRecord) error {
	tournaments, err := json.Marshal(rec.TournamentsByYear)
	if err != nil {
		return fmt.Errorf("failed to encode tournaments_by_year: %w", err)
	}
	assignments, err := json.Marshal(rec.AssignmentsByYear)
	if err != nil {
		return fmt.Errorf("failed to encode assignments_by_year: %w", err)
	}
	availabilities, err := json.Marshal(rec.AvailabilitiesByYear)
	if err != nil {
		return fmt.Errorf("failed to encode availabilities_by_year: %w", err)
	}
	levels, err := json.Marshal(rec.LevelChangesByYear)
	if err != nil {
		return fmt.Errorf("failed to encode level_changes_by_year: %w", err)
	}
	stats, err := json.Marshal(rec.CareerStats)
	if err != nil {
		return fmt.Errorf("failed to encode career_stats: %w", err)
	}

	query := `
		INSERT INTO referee_career_records (
			referee_id, tournaments_by_year, assignments_by_year, availabilities_by_year,
			level_changes_by_year, career_stats, last_updated_year, data_completeness_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (referee_id) DO UPDATE SET
			tournaments_by_year = EXCLUDED.tournaments_by_year,
			assignments_by_year = EXCLUDED.assignments_by_year,
			availabilities_by_year = EXCLUDED.availabilities_by_year,
			level_changes_by_year = EXCLUDED.level_changes_by_year,
			career_stats = EXCLUDED.career_stats,
			last_updated_year = EXCLUDED.last_updated_year,
			data_completeness_score = EXCLUDED.data_completeness_score,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err = r.db.Pool.QueryRow(
		ctx, query,
		rec.RefereeID, tournaments, assignments, availabilities,
		levels, stats, rec.LastUpdatedYear, rec.DataCompletenessScore,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		metrics.RecordDBQuery("upsert", "referee_career_records", "error")
		return fmt.Errorf("failed to upsert career record: %w", err)
	}
	metrics.RecordDBQuery("upsert", "referee_career_records", "success")

	log.Debug().
		Int64("referee_id", rec.RefereeID).
		Int("last_updated_year", rec.LastUpdatedYear).
		Float64("completeness", rec.DataCompletenessScore).
		Msg("Career record upserted")

	return nil
}

// Count returns the total number of career records
func (r *CareerRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM referee_career_records`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count career records: %w", err)
	}

	return count, nil
}
