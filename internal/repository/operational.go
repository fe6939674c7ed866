package repository

import (
	"context"
	"fmt"

	"golfref/archival/internal/archive"
	"golfref/archival/internal/models"

	"github.com/rs/zerolog/log"
)

// OperationalRepository extracts from the current (live, normalized) schema:
// tournaments, assignments and availabilities keyed by referee and year. It
// implements archive.OperationalSource. A tournament belongs to a year by
// its start date.
type OperationalRepository struct {
	db *Database
}

// Tournaments returns the tournaments the referee actually officiated in the
// given year, joined through their assignments.
func (r *OperationalRepository) Tournaments(ctx context.Context, refereeID int64, year int) ([]models.TournamentSnapshot, error) {
	query := `
		SELECT DISTINCT t.id, t.name, t.club_id, COALESCE(c.name, ''), t.start_date, t.end_date
		FROM tournaments t
		JOIN assignments a ON a.tournament_id = t.id
		LEFT JOIN clubs c ON c.id = t.club_id
		WHERE a.referee_id = $1
		  AND t.start_date >= make_date($2, 1, 1)
		  AND t.start_date < make_date($2 + 1, 1, 1)
		ORDER BY t.start_date, t.id
	`

	rows, err := r.db.Pool.Query(ctx, query, refereeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournaments: %w", err)
	}
	defer rows.Close()

	var snapshots []models.TournamentSnapshot
	for rows.Next() {
		var s models.TournamentSnapshot
		if err := rows.Scan(&s.ID, &s.Name, &s.ClubID, &s.ClubName, &s.StartDate, &s.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournaments: %w", err)
	}

	return snapshots, nil
}

// Assignments returns the referee's assignments for the given year.
func (r *OperationalRepository) Assignments(ctx context.Context, refereeID int64, year int) ([]models.AssignmentSnapshot, error) {
	query := `
		SELECT a.tournament_id, t.name, a.role, a.assigned_at, a.status, COALESCE(a.notes, '')
		FROM assignments a
		JOIN tournaments t ON t.id = a.tournament_id
		WHERE a.referee_id = $1
		  AND t.start_date >= make_date($2, 1, 1)
		  AND t.start_date < make_date($2 + 1, 1, 1)
		ORDER BY a.assigned_at, a.tournament_id
	`

	rows, err := r.db.Pool.Query(ctx, query, refereeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer rows.Close()

	var snapshots []models.AssignmentSnapshot
	for rows.Next() {
		var s models.AssignmentSnapshot
		if err := rows.Scan(&s.TournamentID, &s.TournamentName, &s.Role, &s.AssignedAt, &s.Status, &s.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return snapshots, nil
}

// Availabilities returns the referee's availability declarations for the year.
func (r *OperationalRepository) Availabilities(ctx context.Context, refereeID int64, year int) ([]models.AvailabilitySnapshot, error) {
	query := `
		SELECT av.tournament_id, av.submitted_at, COALESCE(av.notes, '')
		FROM availabilities av
		JOIN tournaments t ON t.id = av.tournament_id
		WHERE av.referee_id = $1
		  AND t.start_date >= make_date($2, 1, 1)
		  AND t.start_date < make_date($2 + 1, 1, 1)
		ORDER BY av.submitted_at, av.tournament_id
	`

	rows, err := r.db.Pool.Query(ctx, query, refereeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get availabilities: %w", err)
	}
	defer rows.Close()

	var snapshots []models.AvailabilitySnapshot
	for rows.Next() {
		var s models.AvailabilitySnapshot
		if err := rows.Scan(&s.TournamentID, &s.SubmittedAt, &s.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availabilities: %w", err)
	}

	return snapshots, nil
}

// RefereesActiveIn returns the ids of referees with any assignment or
// availability in the given year, ascending.
func (r *OperationalRepository) RefereesActiveIn(ctx context.Context, year int) ([]int64, error) {
	query := `
		SELECT DISTINCT a.referee_id
		FROM assignments a
		JOIN tournaments t ON t.id = a.tournament_id
		WHERE t.start_date >= make_date($1, 1, 1)
		  AND t.start_date < make_date($1 + 1, 1, 1)
		UNION
		SELECT DISTINCT av.referee_id
		FROM availabilities av
		JOIN tournaments t ON t.id = av.tournament_id
		WHERE t.start_date >= make_date($1, 1, 1)
		  AND t.start_date < make_date($1 + 1, 1, 1)
		ORDER BY 1
	`

	rows, err := r.db.Pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list active referees: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan referee id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating referee ids: %w", err)
	}

	log.Debug().Int("year", year).Int("count", len(ids)).Msg("Retrieved referees active in year")
	return ids, nil
}

// CountsForYear returns row counts per kind for the year, for dry-run
// previews and for scoring single-year runs.
func (r *OperationalRepository) CountsForYear(ctx context.Context, year int) (archive.YearInventory, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM tournaments t
			 WHERE t.start_date >= make_date($1, 1, 1) AND t.start_date < make_date($1 + 1, 1, 1)),
			(SELECT COUNT(*) FROM assignments a JOIN tournaments t ON t.id = a.tournament_id
			 WHERE t.start_date >= make_date($1, 1, 1) AND t.start_date < make_date($1 + 1, 1, 1)),
			(SELECT COUNT(*) FROM availabilities av JOIN tournaments t ON t.id = av.tournament_id
			 WHERE t.start_date >= make_date($1, 1, 1) AND t.start_date < make_date($1 + 1, 1, 1))
	`

	var tournaments, assignments, availabilities int64
	if err := r.db.Pool.QueryRow(ctx, query, year).Scan(&tournaments, &assignments, &availabilities); err != nil {
		return archive.YearInventory{}, fmt.Errorf("failed to count year %d: %w", year, err)
	}

	return archive.YearInventory{
		Tournaments:    archive.SlotStatus{Available: true, Rows: tournaments},
		Assignments:    archive.SlotStatus{Available: true, Rows: assignments},
		Availabilities: archive.SlotStatus{Available: true, Rows: availabilities},
	}, nil
}

// DeleteYear removes the year's rows from the operational tables in one
// transaction. Destructive; run only after an error-free archive of the
// same year. Children go first to satisfy foreign keys.
func (r *OperationalRepository) DeleteYear(ctx context.Context, year int) (archive.PurgeResult, error) {
	var purge archive.PurgeResult

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return purge, fmt.Errorf("failed to begin purge transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	availabilities, err := tx.Exec(ctx, `
		DELETE FROM availabilities av
		USING tournaments t
		WHERE t.id = av.tournament_id
		  AND t.start_date >= make_date($1, 1, 1)
		  AND t.start_date < make_date($1 + 1, 1, 1)
	`, year)
	if err != nil {
		return purge, fmt.Errorf("failed to delete availabilities for %d: %w", year, err)
	}

	assignments, err := tx.Exec(ctx, `
		DELETE FROM assignments a
		USING tournaments t
		WHERE t.id = a.tournament_id
		  AND t.start_date >= make_date($1, 1, 1)
		  AND t.start_date < make_date($1 + 1, 1, 1)
	`, year)
	if err != nil {
		return purge, fmt.Errorf("failed to delete assignments for %d: %w", year, err)
	}

	tournaments, err := tx.Exec(ctx, `
		DELETE FROM tournaments t
		WHERE t.start_date >= make_date($1, 1, 1)
		  AND t.start_date < make_date($1 + 1, 1, 1)
	`, year)
	if err != nil {
		return purge, fmt.Errorf("failed to delete tournaments for %d: %w", year, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return purge, fmt.Errorf("failed to commit purge transaction: %w", err)
	}

	purge.AvailabilitiesDeleted = availabilities.RowsAffected()
	purge.AssignmentsDeleted = assignments.RowsAffected()
	purge.TournamentsDeleted = tournaments.RowsAffected()

	return purge, nil
}
