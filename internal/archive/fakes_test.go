package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"golfref/archival/internal/models"
)

// In-memory store fakes shared by the engine, editor and importer tests.
// The career store clones on every read and write, like a real database
// round trip, so tests catch accidental aliasing.

type srcKey struct {
	referee int64
	year    int
}

type fakeCareerStore struct {
	records   map[int64]*models.CareerRecord
	getErr    map[int64]error
	upsertErr map[int64]error
	upserts   int
}

func newFakeCareerStore() *fakeCareerStore {
	return &fakeCareerStore{
		records:   make(map[int64]*models.CareerRecord),
		getErr:    make(map[int64]error),
		upsertErr: make(map[int64]error),
	}
}

func cloneRecord(rec *models.CareerRecord) *models.CareerRecord {
	data, err := json.Marshal(rec)
	if err != nil {
		panic(err)
	}
	var out models.CareerRecord
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	out.EnsureMaps()
	return &out
}

func (s *fakeCareerStore) Get(ctx context.Context, refereeID int64) (*models.CareerRecord, error) {
	if err := s.getErr[refereeID]; err != nil {
		return nil, err
	}
	rec, ok := s.records[refereeID]
	if !ok {
		return nil, nil
	}
	return cloneRecord(rec), nil
}

func (s *fakeCareerStore) Upsert(ctx context.Context, rec *models.CareerRecord) error {
	if err := s.upsertErr[rec.RefereeID]; err != nil {
		return err
	}
	s.records[rec.RefereeID] = cloneRecord(rec)
	s.upserts++
	return nil
}

type fakeDirectory struct {
	referees map[int64]models.Referee
}

func newFakeDirectory(refs ...models.Referee) *fakeDirectory {
	d := &fakeDirectory{referees: make(map[int64]models.Referee)}
	for _, r := range refs {
		d.referees[r.ID] = r
	}
	return d
}

func (d *fakeDirectory) GetByID(ctx context.Context, id int64) (*models.Referee, error) {
	ref, ok := d.referees[id]
	if !ok {
		return nil, fmt.Errorf("referee not found: id=%d", id)
	}
	return &ref, nil
}

func (d *fakeDirectory) List(ctx context.Context) ([]models.Referee, error) {
	out := make([]models.Referee, 0, len(d.referees))
	for _, r := range d.referees {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeSource serves as both the operational and the legacy source.
type fakeSource struct {
	tournaments    map[srcKey][]models.TournamentSnapshot
	assignments    map[srcKey][]models.AssignmentSnapshot
	availabilities map[srcKey][]models.AvailabilitySnapshot

	failKind map[srcKey]map[Kind]bool

	active    map[int][]int64
	inventory Inventory

	deletedYears []int
	deleteErr    error
	purge        PurgeResult
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tournaments:    make(map[srcKey][]models.TournamentSnapshot),
		assignments:    make(map[srcKey][]models.AssignmentSnapshot),
		availabilities: make(map[srcKey][]models.AvailabilitySnapshot),
		failKind:       make(map[srcKey]map[Kind]bool),
		active:         make(map[int][]int64),
		inventory:      make(Inventory),
	}
}

func (s *fakeSource) failOn(refereeID int64, year int, kind Kind) {
	key := srcKey{refereeID, year}
	if s.failKind[key] == nil {
		s.failKind[key] = make(map[Kind]bool)
	}
	s.failKind[key][kind] = true
}

func (s *fakeSource) fails(refereeID int64, year int, kind Kind) bool {
	return s.failKind[srcKey{refereeID, year}][kind]
}

func (s *fakeSource) Tournaments(ctx context.Context, refereeID int64, year int) ([]models.TournamentSnapshot, error) {
	if s.fails(refereeID, year, KindTournaments) {
		return nil, fmt.Errorf("tournaments query failed")
	}
	return s.tournaments[srcKey{refereeID, year}], nil
}

func (s *fakeSource) Assignments(ctx context.Context, refereeID int64, year int) ([]models.AssignmentSnapshot, error) {
	if s.fails(refereeID, year, KindAssignments) {
		return nil, fmt.Errorf("assignments query failed")
	}
	return s.assignments[srcKey{refereeID, year}], nil
}

func (s *fakeSource) Availabilities(ctx context.Context, refereeID int64, year int) ([]models.AvailabilitySnapshot, error) {
	if s.fails(refereeID, year, KindAvailabilities) {
		return nil, fmt.Errorf("availabilities query failed")
	}
	return s.availabilities[srcKey{refereeID, year}], nil
}

func (s *fakeSource) RefereesActiveIn(ctx context.Context, year int) ([]int64, error) {
	return s.active[year], nil
}

func (s *fakeSource) CountsForYear(ctx context.Context, year int) (YearInventory, error) {
	var yi YearInventory
	yi.Tournaments.Available = true
	yi.Assignments.Available = true
	yi.Availabilities.Available = true
	for key, entries := range s.tournaments {
		if key.year == year {
			yi.Tournaments.Rows += int64(len(entries))
		}
	}
	for key, entries := range s.assignments {
		if key.year == year {
			yi.Assignments.Rows += int64(len(entries))
		}
	}
	for key, entries := range s.availabilities {
		if key.year == year {
			yi.Availabilities.Rows += int64(len(entries))
		}
	}
	return yi, nil
}

func (s *fakeSource) DeleteYear(ctx context.Context, year int) (PurgeResult, error) {
	if s.deleteErr != nil {
		return PurgeResult{}, s.deleteErr
	}
	s.deletedYears = append(s.deletedYears, year)
	return s.purge, nil
}

func (s *fakeSource) Probe(ctx context.Context, startYear, endYear int) (Inventory, error) {
	inv := make(Inventory)
	for y := startYear; y <= endYear; y++ {
		if yi, ok := s.inventory[y]; ok {
			inv[y] = yi
		} else {
			inv[y] = YearInventory{}
		}
	}
	return inv, nil
}
