package archive

import (
	"context"

	"golfref/archival/internal/models"

	"github.com/rs/zerolog/log"
)

// YearSource provides the three data kinds for a (referee, year) pair. Both
// the current operational schema and the legacy per-year tables implement
// it, so the engine never cares which side the data came from.
type YearSource interface {
	Tournaments(ctx context.Context, refereeID int64, year int) ([]models.TournamentSnapshot, error)
	Assignments(ctx context.Context, refereeID int64, year int) ([]models.AssignmentSnapshot, error)
	Availabilities(ctx context.Context, refereeID int64, year int) ([]models.AvailabilitySnapshot, error)
}

// YearSnapshot is the uniform per-year extraction result. It lives only for
// the duration of one archival pass.
type YearSnapshot struct {
	Year           int
	Tournaments    []models.TournamentSnapshot
	Assignments    []models.AssignmentSnapshot
	Availabilities []models.AvailabilitySnapshot

	// SkippedKinds counts kinds whose extraction failed and fell back to
	// an empty result. The run keeps going; the batch layer reports it.
	SkippedKinds int
}

// ExtractYear pulls all three kinds for one referee and year. A failing kind
// is logged at debug level and yields an empty slot; the snapshot is always
// returned.
func ExtractYear(ctx context.Context, src YearSource, refereeID int64, year int) YearSnapshot {
	snap := YearSnapshot{Year: year}

	tournaments, err := src.Tournaments(ctx, refereeID, year)
	if err != nil {
		log.Debug().Err(err).Int64("referee_id", refereeID).Int("year", year).
			Str("kind", string(KindTournaments)).Msg("Extraction failed, slot left empty")
		snap.SkippedKinds++
	} else {
		snap.Tournaments = tournaments
	}

	assignments, err := src.Assignments(ctx, refereeID, year)
	if err != nil {
		log.Debug().Err(err).Int64("referee_id", refereeID).Int("year", year).
			Str("kind", string(KindAssignments)).Msg("Extraction failed, slot left empty")
		snap.SkippedKinds++
	} else {
		snap.Assignments = assignments
	}

	availabilities, err := src.Availabilities(ctx, refereeID, year)
	if err != nil {
		log.Debug().Err(err).Int64("referee_id", refereeID).Int("year", year).
			Str("kind", string(KindAvailabilities)).Msg("Extraction failed, slot left empty")
		snap.SkippedKinds++
	} else {
		snap.Availabilities = availabilities
	}

	return snap
}
