package repository

import (
	"context"
	"fmt"

	"golfref/archival/internal/archive"
	"golfref/archival/internal/models"

	"github.com/rs/zerolog/log"
)

// LegacyRepository reads the year-sharded historical tables
// (tournaments_2015, assignments_2015, ... potentially 40+ years). Which
// years exist varies per deployment, so availability is probed, never
// assumed. It implements archive.LegacySource.
//
// Table identifiers are produced only by legacyTable, which validates the
// year; queries interpolate nothing else.
type LegacyRepository struct {
	db *Database
}

const (
	legacyYearMin = 1950
	legacyYearMax = 2100
)

// legacyTable resolves the identifier of a per-year table.
func legacyTable(kind archive.Kind, year int) (string, error) {
	if year < legacyYearMin || year > legacyYearMax {
		return "", fmt.Errorf("year %d outside supported legacy range [%d, %d]", year, legacyYearMin, legacyYearMax)
	}
	switch kind {
	case archive.KindTournaments, archive.KindAssignments, archive.KindAvailabilities:
		return fmt.Sprintf("%s_%d", kind, year), nil
	default:
		return "", fmt.Errorf("unknown legacy kind %q", kind)
	}
}

// Probe inspects the legacy schema for each year in [startYear, endYear] and
// reports, per kind, whether a table exists and how many rows it holds. A
// missing or failing (year, kind) is recorded as unavailable; the probe
// itself never fails once the range is accepted.
func (r *LegacyRepository) Probe(ctx context.Context, startYear, endYear int) (archive.Inventory, error) {
	if startYear > endYear {
		return nil, fmt.Errorf("invalid probe range [%d, %d]", startYear, endYear)
	}

	inv := make(archive.Inventory, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		var yi archive.YearInventory
		yi.Tournaments = r.probeSlot(ctx, archive.KindTournaments, year)
		yi.Assignments = r.probeSlot(ctx, archive.KindAssignments, year)
		yi.Availabilities = r.probeSlot(ctx, archive.KindAvailabilities, year)
		inv[year] = yi
	}

	return inv, nil
}

// probeSlot checks one (kind, year) table. to_regclass returns NULL for
// missing relations without erroring, which keeps the probe quiet.
func (r *LegacyRepository) probeSlot(ctx context.Context, kind archive.Kind, year int) archive.SlotStatus {
	table, err := legacyTable(kind, year)
	if err != nil {
		return archive.SlotStatus{}
	}

	var regclass *string
	if err := r.db.Pool.QueryRow(ctx, `SELECT to_regclass($1)::text`, table).Scan(&regclass); err != nil || regclass == nil {
		return archive.SlotStatus{}
	}

	var rows int64
	if err := r.db.Pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&rows); err != nil {
		log.Debug().Err(err).Str("table", table).Msg("Legacy count failed, slot marked unavailable")
		return archive.SlotStatus{}
	}

	return archive.SlotStatus{Available: true, Rows: rows}
}

// Tournaments returns the tournaments the referee officiated in the year,
// joined through the year's assignment shard.
func (r *LegacyRepository) Tournaments(ctx context.Context, refereeID int64, year int) ([]models.TournamentSnapshot, error) {
	tournamentsTable, err := legacyTable(archive.KindTournaments, year)
	if err != nil {
		return nil, err
	}
	assignmentsTable, err := legacyTable(archive.KindAssignments, year)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT t.id, t.name, t.club_id, COALESCE(t.club_name, ''), t.start_date, t.end_date
		FROM %s t
		JOIN %s a ON a.tournament_id = t.id
		WHERE a.referee_id = $1
		ORDER BY t.start_date, t.id
	`, tournamentsTable, assignmentsTable)

	rows, err := r.db.Pool.Query(ctx, query, refereeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get legacy tournaments for %d: %w", year, err)
	}
	defer rows.Close()

	var snapshots []models.TournamentSnapshot
	for rows.Next() {
		var s models.TournamentSnapshot
		if err := rows.Scan(&s.ID, &s.Name, &s.ClubID, &s.ClubName, &s.StartDate, &s.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan legacy tournament: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legacy tournaments: %w", err)
	}

	return snapshots, nil
}

// Assignments returns the referee's assignments from the year's shard.
func (r *LegacyRepository) Assignments(ctx context.Context, refereeID int64, year int) ([]models.AssignmentSnapshot, error) {
	table, err := legacyTable(archive.KindAssignments, year)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT tournament_id, COALESCE(tournament_name, ''), role, assigned_at, COALESCE(status, ''), COALESCE(notes, '')
		FROM %s
		WHERE referee_id = $1
		ORDER BY assigned_at, tournament_id
	`, table)

	rows, err := r.db.Pool.Query(ctx, query, refereeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get legacy assignments for %d: %w", year, err)
	}
	defer rows.Close()

	var snapshots []models.AssignmentSnapshot
	for rows.Next() {
		var s models.AssignmentSnapshot
		if err := rows.Scan(&s.TournamentID, &s.TournamentName, &s.Role, &s.AssignedAt, &s.Status, &s.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan legacy assignment: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legacy assignments: %w", err)
	}

	return snapshots, nil
}

// Availabilities returns the referee's availability declarations from the
// year's shard.
func (r *LegacyRepository) Availabilities(ctx context.Context, refereeID int64, year int) ([]models.AvailabilitySnapshot, error) {
	table, err := legacyTable(archive.KindAvailabilities, year)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT tournament_id, submitted_at, COALESCE(notes, '')
		FROM %s
		WHERE referee_id = $1
		ORDER BY submitted_at, tournament_id
	`, table)

	rows, err := r.db.Pool.Query(ctx, query, refereeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get legacy availabilities for %d: %w", year, err)
	}
	defer rows.Close()

	var snapshots []models.AvailabilitySnapshot
	for rows.Next() {
		var s models.AvailabilitySnapshot
		if err := rows.Scan(&s.TournamentID, &s.SubmittedAt, &s.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan legacy availability: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legacy availabilities: %w", err)
	}

	return snapshots, nil
}
