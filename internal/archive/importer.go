package archive

import (
	"context"
	"fmt"
	"time"

	"golfref/archival/internal/metrics"
	"golfref/archival/internal/models"

	"github.com/rs/zerolog/log"
)

// LegacySource is the year-sharded historical schema. Availability varies
// per year and kind, so it must be probed before extraction.
type LegacySource interface {
	YearSource
	Probe(ctx context.Context, startYear, endYear int) (Inventory, error)
}

// ImportOptions configures a historical migration run.
type ImportOptions struct {
	YearStart  int
	YearEnd    int
	BatchSize  int
	DryRun     bool
	DebugLimit int // log the first N computed records in full
}

// ImportResult accumulates a migration run. SkippedSlots counts (referee,
// year, kind) extractions that failed against an available source and fell
// back to empty; unavailable years never reach extraction and are visible in
// the inventory instead.
type ImportResult struct {
	RefereesProcessed      int      `json:"referees_processed"`
	TournamentsMigrated    int      `json:"tournaments_migrated"`
	AssignmentsMigrated    int      `json:"assignments_migrated"`
	AvailabilitiesMigrated int      `json:"availabilities_migrated"`
	SkippedSlots           int      `json:"skipped_slots"`
	Errors                 []string `json:"errors"`
}

// Importer drives the career consolidation across the legacy multi-year
// tables, chunked by referee, with per-referee error isolation.
type Importer struct {
	careers  CareerStore
	referees RefereeDirectory
	legacy   LegacySource
}

// NewImporter creates a historical batch importer.
func NewImporter(careers CareerStore, referees RefereeDirectory, legacy LegacySource) *Importer {
	return &Importer{
		careers:  careers,
		referees: referees,
		legacy:   legacy,
	}
}

// Run migrates every referee's legacy history in the given year range into
// their career record. Years missing from the legacy schema are skipped via
// the probe; extraction failures degrade to empty slots and are counted.
func (im *Importer) Run(ctx context.Context, opts ImportOptions) (ImportResult, error) {
	var res ImportResult

	if opts.YearStart <= 0 || opts.YearEnd < opts.YearStart {
		return res, &ValidationError{Field: "year range", Msg: fmt.Sprintf("invalid range [%d, %d]", opts.YearStart, opts.YearEnd)}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}

	inv, err := im.legacy.Probe(ctx, opts.YearStart, opts.YearEnd)
	if err != nil {
		return res, fmt.Errorf("failed to probe legacy tables: %w", err)
	}
	years := inv.AvailableYears()
	log.Info().
		Int("year_start", opts.YearStart).
		Int("year_end", opts.YearEnd).
		Int("years_available", len(years)).
		Int64("rows", inv.TotalRows()).
		Bool("dry_run", opts.DryRun).
		Msg("Legacy inventory probed")

	if len(years) == 0 {
		log.Warn().Msg("No legacy tables available in range, nothing to migrate")
		return res, nil
	}

	referees, err := im.referees.List(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list referees: %w", err)
	}

	start := time.Now()
	debugged := 0
	for offset := 0; offset < len(referees); offset += opts.BatchSize {
		end := offset + opts.BatchSize
		if end > len(referees) {
			end = len(referees)
		}

		for _, ref := range referees[offset:end] {
			if ctx.Err() != nil {
				log.Warn().Int("processed", res.RefereesProcessed).
					Msg("Migration interrupted between referees")
				return res, ctx.Err()
			}

			rec, skipped, err := im.migrateReferee(ctx, ref, inv, years)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("referee %d: %v", ref.ID, err))
				metrics.RecordError("importer", "referee")
				continue
			}
			res.SkippedSlots += skipped

			if opts.DebugLimit > 0 && debugged < opts.DebugLimit {
				log.Info().
					Int64("referee_id", ref.ID).
					Interface("career_stats", rec.CareerStats).
					Float64("completeness", rec.DataCompletenessScore).
					Int("last_updated_year", rec.LastUpdatedYear).
					Msg("Computed career record")
				debugged++
			}

			if !opts.DryRun {
				if err := im.careers.Upsert(ctx, rec); err != nil {
					res.Errors = append(res.Errors, fmt.Sprintf("referee %d: failed to upsert career record: %v", ref.ID, err))
					metrics.RecordError("importer", "persistence")
					continue
				}
			}

			res.RefereesProcessed++
			for _, y := range years {
				res.TournamentsMigrated += len(rec.TournamentsByYear[y])
				res.AssignmentsMigrated += len(rec.AssignmentsByYear[y])
				res.AvailabilitiesMigrated += len(rec.AvailabilitiesByYear[y])
			}
		}

		log.Info().
			Int("processed", res.RefereesProcessed).
			Int("total", len(referees)).
			Int("errors", len(res.Errors)).
			Msg("Migration batch complete")
		metrics.ImportProgress.Set(float64(res.RefereesProcessed))
	}

	status := "success"
	if len(res.Errors) > 0 {
		status = "partial"
	}
	metrics.RecordArchival("migration", status, time.Since(start).Seconds())

	log.Info().
		Int("referees", res.RefereesProcessed).
		Int("tournaments", res.TournamentsMigrated).
		Int("assignments", res.AssignmentsMigrated).
		Int("availabilities", res.AvailabilitiesMigrated).
		Int("skipped_slots", res.SkippedSlots).
		Int("errors", len(res.Errors)).
		Msg("Historical migration complete")

	return res, nil
}

// migrateReferee merges all available legacy years into the referee's
// record. Only kinds the probe found queryable are extracted; a failing
// extraction falls back to an empty slot and is counted as skipped.
func (im *Importer) migrateReferee(ctx context.Context, ref models.Referee, inv Inventory, years []int) (*models.CareerRecord, int, error) {
	rec, err := im.careers.Get(ctx, ref.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load career record: %w", err)
	}
	if rec == nil {
		rec = models.NewCareerRecord(ref.ID)
	}
	rec.EnsureMaps()

	skipped := 0
	for _, year := range years {
		yi := inv[year]
		snap := YearSnapshot{Year: year}

		if yi.Tournaments.Available {
			if tournaments, err := im.legacy.Tournaments(ctx, ref.ID, year); err != nil {
				skipped++
			} else {
				snap.Tournaments = tournaments
			}
		}
		if yi.Assignments.Available {
			if assignments, err := im.legacy.Assignments(ctx, ref.ID, year); err != nil {
				skipped++
			} else {
				snap.Assignments = assignments
			}
		}
		if yi.Availabilities.Available {
			if availabilities, err := im.legacy.Availabilities(ctx, ref.ID, year); err != nil {
				skipped++
			} else {
				snap.Availabilities = availabilities
			}
		}

		mergeYear(rec, snap)

		// Placeholder policy: no historical level data survives in the
		// legacy tables, so the referee's current level is carried
		// backward for every migrated year.
		rec.LevelChangesByYear[year] = models.LevelChange{
			Level:         ref.Level,
			EffectiveDate: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		}

		if year > rec.LastUpdatedYear {
			rec.LastUpdatedYear = year
		}
	}

	rec.CareerStats = BuildStats(rec.TournamentsByYear, rec.AssignmentsByYear, rec.AvailabilitiesByYear)
	rec.DataCompletenessScore = CompletenessScore(inv, rec)

	return rec, skipped, nil
}
