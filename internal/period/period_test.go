package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("UTC+9", 9*3600)

// Wednesday 2024-03-13 10:00 KST.
func wednesday() time.Time {
	return time.Date(2024, 3, 13, 10, 0, 0, 0, kst)
}

func TestResolveKeywords(t *testing.T) {
	now := wednesday()

	tests := []struct {
		input     string
		wantStart time.Time
		wantEnd   time.Time
		wantLabel string
	}{
		{"week", time.Date(2024, 3, 11, 0, 0, 0, 0, kst), time.Date(2024, 3, 17, 0, 0, 0, 0, kst), "this week"},
		{"thisweek", time.Date(2024, 3, 11, 0, 0, 0, 0, kst), time.Date(2024, 3, 17, 0, 0, 0, 0, kst), "this week"},
		{"this-week", time.Date(2024, 3, 11, 0, 0, 0, 0, kst), time.Date(2024, 3, 17, 0, 0, 0, 0, kst), "this week"},
		{"lastweek", time.Date(2024, 3, 4, 0, 0, 0, 0, kst), time.Date(2024, 3, 10, 0, 0, 0, 0, kst), "last week"},
		{"thismonth", time.Date(2024, 3, 1, 0, 0, 0, 0, kst), time.Date(2024, 3, 31, 0, 0, 0, 0, kst), "march"},
		{"lastmonth", time.Date(2024, 2, 1, 0, 0, 0, 0, kst), time.Date(2024, 2, 29, 0, 0, 0, 0, kst), "february"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rng, err := Resolve(now, tt.input)
			require.NoError(t, err)
			assert.True(t, rng.Start.Equal(tt.wantStart), "start: got %v want %v", rng.Start, tt.wantStart)
			assert.True(t, rng.End.Equal(tt.wantEnd), "end: got %v want %v", rng.End, tt.wantEnd)
			assert.Equal(t, tt.wantLabel, rng.Label)
		})
	}
}

func TestResolveExplicitPair(t *testing.T) {
	rng, err := Resolve(wednesday(), "24-03-01 24-03-07")
	require.NoError(t, err)

	assert.True(t, rng.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, kst)))
	assert.True(t, rng.End.Equal(time.Date(2024, 3, 7, 0, 0, 0, 0, kst)))
	assert.Equal(t, "24-03-01 ~ 24-03-07", rng.Label)
}

func TestResolveExplicitKeepsGivenOrder(t *testing.T) {
	rng, err := Resolve(wednesday(), "24-03-07 24-03-01")
	require.NoError(t, err)
	assert.True(t, rng.Start.After(rng.End))
}

func TestResolveRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "fortnight", "24-03-01", "24/03/01 24/03/07", "a b c"} {
		_, err := Resolve(wednesday(), input)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "input %q", input)
	}
}

func TestMondayOfSundayBelongsToEndingWeek(t *testing.T) {
	sunday := time.Date(2024, 3, 10, 23, 0, 0, 0, kst)
	got := MondayOf(sunday)
	assert.True(t, got.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, kst)), "got %v", got)
}

func TestDaysInclusive(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, kst)
	days := Days(start, start.AddDate(0, 0, 2))
	require.Len(t, days, 3)
	assert.Equal(t, "2024-03-03", DateKey(days[2]))

	assert.Nil(t, Days(start, start.AddDate(0, 0, -1)))
}
