package archive

import (
	"context"
	"fmt"
	"time"

	"golfref/archival/internal/models"

	"github.com/rs/zerolog/log"
)

// Editor applies operator corrections to a career record: adding or removing
// a single tournament entry for one referee and year. Every mutation
// regenerates stats and saves the record whole.
type Editor struct {
	careers  CareerStore
	referees RefereeDirectory
	cache    Invalidator

	now func() time.Time
}

// NewEditor creates a manual entry editor.
func NewEditor(careers CareerStore, referees RefereeDirectory) *Editor {
	return &Editor{
		careers:  careers,
		referees: referees,
		now:      time.Now,
	}
}

// WithCache attaches a career record cache to invalidate after saves.
func (ed *Editor) WithCache(c Invalidator) *Editor {
	ed.cache = c
	return ed
}

// AddTournamentEntry appends the tournament to the referee's record for the
// given year, creating the record if absent. Duplicate tournament ids within
// the year are ignored. When role is non-empty a matching assignment entry is
// added with status "manual_entry" so operator-entered history stays
// distinguishable from archived history.
func (ed *Editor) AddTournamentEntry(ctx context.Context, refereeID int64, year int, snap models.TournamentSnapshot, role string) error {
	if year <= 0 {
		return &ValidationError{Field: "year", Msg: "must be a positive year"}
	}
	if snap.ID <= 0 {
		return &ValidationError{Field: "tournament_id", Msg: "must be a positive id"}
	}
	if _, err := ed.referees.GetByID(ctx, refereeID); err != nil {
		return fmt.Errorf("referee %d: %w", refereeID, ErrRefereeNotFound)
	}

	rec, err := ed.careers.Get(ctx, refereeID)
	if err != nil {
		return fmt.Errorf("failed to load career record: %w", err)
	}
	if rec == nil {
		rec = models.NewCareerRecord(refereeID)
	}
	rec.EnsureMaps()

	for _, existing := range rec.TournamentsByYear[year] {
		if existing.ID == snap.ID {
			log.Debug().Int64("referee_id", refereeID).Int("year", year).Int64("tournament_id", snap.ID).
				Msg("Tournament already present, entry not duplicated")
			return nil
		}
	}

	rec.TournamentsByYear[year] = append(rec.TournamentsByYear[year], snap)
	if role != "" {
		rec.AssignmentsByYear[year] = append(rec.AssignmentsByYear[year], models.AssignmentSnapshot{
			TournamentID:   snap.ID,
			TournamentName: snap.Name,
			Role:           role,
			AssignedAt:     ed.now().UTC(),
			Status:         models.StatusManualEntry,
		})
	}
	if year > rec.LastUpdatedYear {
		rec.LastUpdatedYear = year
	}

	return ed.save(ctx, rec)
}

// RemoveTournamentEntry removes the tournament (and its manual assignment,
// if any) from the referee's record for the given year. It reports whether a
// removal actually occurred.
func (ed *Editor) RemoveTournamentEntry(ctx context.Context, refereeID int64, year int, tournamentID int64) (bool, error) {
	if year <= 0 {
		return false, &ValidationError{Field: "year", Msg: "must be a positive year"}
	}
	if tournamentID <= 0 {
		return false, &ValidationError{Field: "tournament_id", Msg: "must be a positive id"}
	}

	rec, err := ed.careers.Get(ctx, refereeID)
	if err != nil {
		return false, fmt.Errorf("failed to load career record: %w", err)
	}
	if rec == nil {
		return false, nil
	}
	rec.EnsureMaps()

	tournaments := rec.TournamentsByYear[year]
	kept := tournaments[:0:0]
	for _, t := range tournaments {
		if t.ID != tournamentID {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tournaments) {
		return false, nil
	}
	if len(kept) > 0 {
		rec.TournamentsByYear[year] = kept
	} else {
		delete(rec.TournamentsByYear, year)
	}

	assignments := rec.AssignmentsByYear[year]
	keptAssignments := assignments[:0:0]
	for _, a := range assignments {
		if a.TournamentID == tournamentID && a.Status == models.StatusManualEntry {
			continue
		}
		keptAssignments = append(keptAssignments, a)
	}
	if len(keptAssignments) > 0 {
		rec.AssignmentsByYear[year] = keptAssignments
	} else {
		delete(rec.AssignmentsByYear, year)
	}

	if err := ed.save(ctx, rec); err != nil {
		return false, err
	}

	log.Info().Int64("referee_id", refereeID).Int("year", year).Int64("tournament_id", tournamentID).
		Msg("Tournament entry removed")
	return true, nil
}

// save regenerates the derived stats and upserts the whole record.
func (ed *Editor) save(ctx context.Context, rec *models.CareerRecord) error {
	rec.CareerStats = BuildStats(rec.TournamentsByYear, rec.AssignmentsByYear, rec.AvailabilitiesByYear)

	if err := ed.careers.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("failed to upsert career record: %w", err)
	}
	if ed.cache != nil {
		if err := ed.cache.Invalidate(ctx, rec.RefereeID); err != nil {
			log.Debug().Err(err).Int64("referee_id", rec.RefereeID).Msg("Cache invalidation failed")
		}
	}
	return nil
}
