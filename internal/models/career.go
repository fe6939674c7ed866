package models

import "time"

// TournamentSnapshot is one tournament a referee officiated in a given year.
// Snapshots are plain records; they carry everything the consolidated history
// needs so the career record stays readable after source rows are purged.
type TournamentSnapshot struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ClubID    int64     `json:"club_id"`
	ClubName  string    `json:"club_name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// AssignmentSnapshot is one refereeing assignment within a year.
type AssignmentSnapshot struct {
	TournamentID   int64     `json:"tournament_id"`
	TournamentName string    `json:"tournament_name"`
	Role           string    `json:"role"`
	AssignedAt     time.Time `json:"assigned_at"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes"`
}

// StatusManualEntry marks assignments added by an operator rather than
// archived from the operational schema.
const StatusManualEntry = "manual_entry"

// AvailabilitySnapshot is one availability declaration within a year.
type AvailabilitySnapshot struct {
	TournamentID int64     `json:"tournament_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Notes        string    `json:"notes"`
}

// LevelChange records the qualification level inferred for a year.
// Historical levels are backfilled from the referee's current level; see
// the importer for the policy.
type LevelChange struct {
	Level         string    `json:"level"`
	EffectiveDate time.Time `json:"effective_date"`
}

// CareerStats is the derived summary over all archived years. It is always
// regenerated from the *_by_year maps, never edited on its own.
type CareerStats struct {
	TotalYears            int            `json:"total_years"`
	TotalTournaments      int            `json:"total_tournaments"`
	TotalAssignments      int            `json:"total_assignments"`
	TotalAvailabilities   int            `json:"total_availabilities"`
	RolesSummary          map[string]int `json:"roles_summary"`
	MostActiveYear        int            `json:"most_active_year"`
	AvgTournamentsPerYear float64        `json:"avg_tournaments_per_year"`
}

// CareerRecord is the consolidated per-referee history. The year-keyed maps
// are the persisted wire format: each serializes to a JSON object mapping the
// year to an array of snapshots (year keys become strings in JSON).
type CareerRecord struct {
	RefereeID             int64                          `json:"referee_id"`
	TournamentsByYear     map[int][]TournamentSnapshot   `json:"tournaments_by_year"`
	AssignmentsByYear     map[int][]AssignmentSnapshot   `json:"assignments_by_year"`
	AvailabilitiesByYear  map[int][]AvailabilitySnapshot `json:"availabilities_by_year"`
	LevelChangesByYear    map[int]LevelChange            `json:"level_changes_by_year"`
	CareerStats           CareerStats                    `json:"career_stats"`
	LastUpdatedYear       int                            `json:"last_updated_year"`
	DataCompletenessScore float64                        `json:"data_completeness_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCareerRecord returns an empty record with all maps initialized, so
// callers can merge into it without nil checks.
func NewCareerRecord(refereeID int64) *CareerRecord {
	return &CareerRecord{
		RefereeID:            refereeID,
		TournamentsByYear:    make(map[int][]TournamentSnapshot),
		AssignmentsByYear:    make(map[int][]AssignmentSnapshot),
		AvailabilitiesByYear: make(map[int][]AvailabilitySnapshot),
		LevelChangesByYear:   make(map[int]LevelChange),
	}
}

// EnsureMaps initializes any nil maps on a record loaded from storage.
func (r *CareerRecord) EnsureMaps() {
	if r.TournamentsByYear == nil {
		r.TournamentsByYear = make(map[int][]TournamentSnapshot)
	}
	if r.AssignmentsByYear == nil {
		r.AssignmentsByYear = make(map[int][]AssignmentSnapshot)
	}
	if r.AvailabilitiesByYear == nil {
		r.AvailabilitiesByYear = make(map[int][]AvailabilitySnapshot)
	}
	if r.LevelChangesByYear == nil {
		r.LevelChangesByYear = make(map[int]LevelChange)
	}
}
