package repository

import (
	"testing"

	"golfref/archival/internal/archive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyTable_ResolvesPerYearIdentifiers(t *testing.T) {
	cases := []struct {
		kind archive.Kind
		year int
		want string
	}{
		{archive.KindTournaments, 2015, "tournaments_2015"},
		{archive.KindAssignments, 2023, "assignments_2023"},
		{archive.KindAvailabilities, 1987, "availabilities_1987"},
	}

	for _, tc := range cases {
		got, err := legacyTable(tc.kind, tc.year)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestLegacyTable_RejectsYearsOutsideRange(t *testing.T) {
	for _, year := range []int{0, -1, 1949, 2101, 99999} {
		_, err := legacyTable(archive.KindTournaments, year)
		assert.Error(t, err, "year %d", year)
	}
}

func TestLegacyTable_RejectsUnknownKind(t *testing.T) {
	_, err := legacyTable(archive.Kind("users; DROP TABLE users"), 2020)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown legacy kind")
}

func TestLegacyTable_RangeBoundsInclusive(t *testing.T) {
	got, err := legacyTable(archive.KindAssignments, 1950)
	require.NoError(t, err)
	assert.Equal(t, "assignments_1950", got)

	got, err = legacyTable(archive.KindAssignments, 2100)
	require.NoError(t, err)
	assert.Equal(t, "assignments_2100", got)
}
