package archive

import (
	"context"
	"fmt"
	"time"

	"golfref/archival/internal/metrics"
	"golfref/archival/internal/models"

	"github.com/rs/zerolog/log"
)

// CareerStore persists consolidated career records. Get returns (nil, nil)
// when no record exists yet; Upsert writes the whole record at once so stats
// can never desynchronize from the year maps.
type CareerStore interface {
	Get(ctx context.Context, refereeID int64) (*models.CareerRecord, error)
	Upsert(ctx context.Context, rec *models.CareerRecord) error
}

// RefereeDirectory resolves referee accounts.
type RefereeDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.Referee, error)
	List(ctx context.Context) ([]models.Referee, error)
}

// PurgeResult reports what the destructive source cleanup removed.
type PurgeResult struct {
	TournamentsDeleted    int64 `json:"tournaments_deleted"`
	AssignmentsDeleted    int64 `json:"assignments_deleted"`
	AvailabilitiesDeleted int64 `json:"availabilities_deleted"`
}

// OperationalSource is the current (non-legacy) schema: extraction plus the
// referee roster for a year, row counts for dry-run previews, and the
// explicit destructive purge.
type OperationalSource interface {
	YearSource
	RefereesActiveIn(ctx context.Context, year int) ([]int64, error)
	CountsForYear(ctx context.Context, year int) (YearInventory, error)
	DeleteYear(ctx context.Context, year int) (PurgeResult, error)
}

// Invalidator drops cached career records after an upsert. Optional.
type Invalidator interface {
	Invalidate(ctx context.Context, refereeID int64) error
}

// UserArchiveResult reports what one single-referee archival run captured.
type UserArchiveResult struct {
	TournamentsCount    int `json:"tournaments_count"`
	AssignmentsCount    int `json:"assignments_count"`
	AvailabilitiesCount int `json:"availabilities_count"`
}

// YearArchiveResult reports an all-referees archival run. Errors holds one
// entry per failed referee; the batch itself always completes.
type YearArchiveResult struct {
	RefereesProcessed      int          `json:"referees_processed"`
	TournamentsArchived    int          `json:"tournaments_archived"`
	AssignmentsArchived    int          `json:"assignments_archived"`
	AvailabilitiesArchived int          `json:"availabilities_archived"`
	Errors                 []string     `json:"errors"`
	Purge                  *PurgeResult `json:"purge,omitempty"`
}

// Engine consolidates a referee's operational activity into their career
// record. Records are upserted whole; re-running a year replaces only that
// year's slots, so the operation is idempotent against unchanged sources.
type Engine struct {
	careers  CareerStore
	referees RefereeDirectory
	current  OperationalSource
	cache    Invalidator
}

// NewEngine creates an archival engine over the given stores.
func NewEngine(careers CareerStore, referees RefereeDirectory, current OperationalSource) *Engine {
	return &Engine{
		careers:  careers,
		referees: referees,
		current:  current,
	}
}

// WithCache attaches a career record cache to invalidate after upserts.
func (e *Engine) WithCache(c Invalidator) *Engine {
	e.cache = c
	return e
}

// ArchiveYearForUser archives one past year of one referee from the current
// operational source. refYear is the caller's reference year (wall clock is
// read only at the CLI boundary); year must be strictly before it.
func (e *Engine) ArchiveYearForUser(ctx context.Context, refereeID int64, year, refYear int) (UserArchiveResult, error) {
	var res UserArchiveResult

	if year >= refYear {
		return res, &ValidationError{Field: "year", Msg: fmt.Sprintf("%d is not a past year (reference year %d)", year, refYear)}
	}
	if refereeID <= 0 {
		return res, &ValidationError{Field: "referee_id", Msg: "must be a positive id"}
	}

	if _, err := e.referees.GetByID(ctx, refereeID); err != nil {
		return res, fmt.Errorf("referee %d: %w", refereeID, ErrRefereeNotFound)
	}

	start := time.Now()
	snap := ExtractYear(ctx, e.current, refereeID, year)

	rec, err := e.careers.Get(ctx, refereeID)
	if err != nil {
		return res, fmt.Errorf("failed to load career record: %w", err)
	}
	if rec == nil {
		rec = models.NewCareerRecord(refereeID)
	}
	rec.EnsureMaps()

	mergeYear(rec, snap)
	rec.CareerStats = BuildStats(rec.TournamentsByYear, rec.AssignmentsByYear, rec.AvailabilitiesByYear)
	if year > rec.LastUpdatedYear {
		rec.LastUpdatedYear = year
	}
	rec.DataCompletenessScore = CompletenessScore(e.runInventory(ctx, year, snap), rec)

	if err := e.careers.Upsert(ctx, rec); err != nil {
		metrics.RecordError("engine", "persistence")
		return res, fmt.Errorf("failed to upsert career record: %w", err)
	}
	e.invalidate(ctx, refereeID)

	res.TournamentsCount = len(snap.Tournaments)
	res.AssignmentsCount = len(snap.Assignments)
	res.AvailabilitiesCount = len(snap.Availabilities)

	metrics.RecordArchival("user", "success", time.Since(start).Seconds())
	metrics.RecordEntriesArchived(res.TournamentsCount, res.AssignmentsCount, res.AvailabilitiesCount)

	log.Info().
		Int64("referee_id", refereeID).
		Int("year", year).
		Int("tournaments", res.TournamentsCount).
		Int("assignments", res.AssignmentsCount).
		Int("availabilities", res.AvailabilitiesCount).
		Msg("Year archived for referee")

	return res, nil
}

// ArchiveYear archives one past year for every referee with activity in it.
// Per-referee failures land in the result's Errors list; the loop keeps
// going. The destructive purge runs only when requested and only after a
// zero-error pass, as its own storage transaction.
func (e *Engine) ArchiveYear(ctx context.Context, year int, clearSource bool, refYear int) (YearArchiveResult, error) {
	var res YearArchiveResult

	if year >= refYear {
		return res, &ValidationError{Field: "year", Msg: fmt.Sprintf("%d is not a past year (reference year %d)", year, refYear)}
	}

	ids, err := e.current.RefereesActiveIn(ctx, year)
	if err != nil {
		return res, fmt.Errorf("failed to list referees active in %d: %w", year, err)
	}

	start := time.Now()
	for _, id := range ids {
		if ctx.Err() != nil {
			log.Warn().Int("year", year).Int("processed", res.RefereesProcessed).
				Msg("Archival run interrupted between referees")
			return res, ctx.Err()
		}

		userRes, err := e.ArchiveYearForUser(ctx, id, year, refYear)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("referee %d: %v", id, err))
			log.Error().Err(err).Int64("referee_id", id).Int("year", year).
				Msg("Referee archival failed, continuing batch")
			continue
		}

		res.RefereesProcessed++
		res.TournamentsArchived += userRes.TournamentsCount
		res.AssignmentsArchived += userRes.AssignmentsCount
		res.AvailabilitiesArchived += userRes.AvailabilitiesCount
	}

	status := "success"
	if len(res.Errors) > 0 {
		status = "partial"
	}
	metrics.RecordArchival("year", status, time.Since(start).Seconds())

	if clearSource {
		if len(res.Errors) > 0 {
			log.Warn().Int("year", year).Int("errors", len(res.Errors)).
				Msg("Source purge skipped: run reported errors")
			res.Errors = append(res.Errors, fmt.Sprintf("purge year %d: %v", year, ErrPurgeBlocked))
		} else {
			purge, err := e.ClearSourceData(ctx, year)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("purge year %d: %v", year, err))
			} else {
				res.Purge = &purge
			}
		}
	}

	log.Info().
		Int("year", year).
		Int("referees", res.RefereesProcessed).
		Int("tournaments", res.TournamentsArchived).
		Int("assignments", res.AssignmentsArchived).
		Int("availabilities", res.AvailabilitiesArchived).
		Int("errors", len(res.Errors)).
		Msg("Year archival complete")

	return res, nil
}

// ClearSourceData deletes the archived year's rows from the operational
// tables. Destructive; callers confirm explicitly and only invoke it after
// an error-free archive of the same year.
func (e *Engine) ClearSourceData(ctx context.Context, year int) (PurgeResult, error) {
	purge, err := e.current.DeleteYear(ctx, year)
	if err != nil {
		metrics.RecordError("engine", "purge")
		return purge, fmt.Errorf("failed to clear source data for %d: %w", year, err)
	}

	log.Warn().
		Int("year", year).
		Int64("tournaments_deleted", purge.TournamentsDeleted).
		Int64("assignments_deleted", purge.AssignmentsDeleted).
		Int64("availabilities_deleted", purge.AvailabilitiesDeleted).
		Msg("Source data cleared for archived year")

	return purge, nil
}

// mergeYear replaces the snapshot year's slots in the record. Empty slots
// drop the year key so records stay compact; other years are untouched.
func mergeYear(rec *models.CareerRecord, snap YearSnapshot) {
	if len(snap.Tournaments) > 0 {
		rec.TournamentsByYear[snap.Year] = snap.Tournaments
	} else {
		delete(rec.TournamentsByYear, snap.Year)
	}
	if len(snap.Assignments) > 0 {
		rec.AssignmentsByYear[snap.Year] = snap.Assignments
	} else {
		delete(rec.AssignmentsByYear, snap.Year)
	}
	if len(snap.Availabilities) > 0 {
		rec.AvailabilitiesByYear[snap.Year] = snap.Availabilities
	} else {
		delete(rec.AvailabilitiesByYear, snap.Year)
	}
}

// runInventory builds the single-year inventory for a current-source run.
// The operational schema is always queryable; when the count query fails the
// extracted snapshot itself stands in for the row counts.
func (e *Engine) runInventory(ctx context.Context, year int, snap YearSnapshot) Inventory {
	yi, err := e.current.CountsForYear(ctx, year)
	if err != nil {
		log.Debug().Err(err).Int("year", year).Msg("Count query failed, using extracted counts")
		yi = YearInventory{
			Tournaments:    SlotStatus{Available: true, Rows: int64(len(snap.Tournaments))},
			Assignments:    SlotStatus{Available: true, Rows: int64(len(snap.Assignments))},
			Availabilities: SlotStatus{Available: true, Rows: int64(len(snap.Availabilities))},
		}
	}
	return Inventory{year: yi}
}

func (e *Engine) invalidate(ctx context.Context, refereeID int64) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Invalidate(ctx, refereeID); err != nil {
		log.Debug().Err(err).Int64("referee_id", refereeID).Msg("Cache invalidation failed")
	}
}
