package archive

import "sort"

// Kind identifies one of the three archived data kinds.
type Kind string

const (
	KindTournaments    Kind = "tournaments"
	KindAssignments    Kind = "assignments"
	KindAvailabilities Kind = "availabilities"
)

// Kinds lists the data kinds in their canonical order.
var Kinds = []Kind{KindTournaments, KindAssignments, KindAvailabilities}

// SlotStatus describes one (year, kind) source slot. Available with zero
// rows is a different state than unavailable: the first lowers nothing, the
// second is an inventory gap.
type SlotStatus struct {
	Available bool
	Rows      int64
}

// YearInventory holds the probe result for a single year.
type YearInventory struct {
	Tournaments    SlotStatus
	Assignments    SlotStatus
	Availabilities SlotStatus
}

// Slot returns the status for the given kind.
func (yi YearInventory) Slot(k Kind) SlotStatus {
	switch k {
	case KindTournaments:
		return yi.Tournaments
	case KindAssignments:
		return yi.Assignments
	default:
		return yi.Availabilities
	}
}

// AnyAvailable reports whether at least one kind is queryable for the year.
func (yi YearInventory) AnyAvailable() bool {
	return yi.Tournaments.Available || yi.Assignments.Available || yi.Availabilities.Available
}

// Inventory maps each probed year to its per-kind availability.
type Inventory map[int]YearInventory

// AvailableYears returns, ascending, the years with at least one queryable kind.
func (inv Inventory) AvailableYears() []int {
	var years []int
	for y, yi := range inv {
		if yi.AnyAvailable() {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// TotalRows sums the row counts of all available slots.
func (inv Inventory) TotalRows() int64 {
	var total int64
	for _, yi := range inv {
		for _, k := range Kinds {
			if s := yi.Slot(k); s.Available {
				total += s.Rows
			}
		}
	}
	return total
}
