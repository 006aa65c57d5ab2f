package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimsuyeon/focus-fairy/internal/session"
)

var kst = time.FixedZone("UTC+9", 9*3600)

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, kst)
}

func TestSlotForBoundaries(t *testing.T) {
	tests := []struct {
		hour int
		want TimeSlot
	}{
		{6, SlotMorning},
		{11, SlotMorning},
		{12, SlotAfternoon},
		{17, SlotAfternoon},
		{18, SlotEvening},
		{21, SlotEvening},
		{22, SlotNight},
		{23, SlotNight},
		{0, SlotNight},
		{5, SlotNight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlotFor(tt.hour), "hour %d", tt.hour)
	}
}

func TestAnalyzeDerivesSummaryMetrics(t *testing.T) {
	// Two mornings, one evening, all on known weekdays.
	sessions := []session.Session{
		{Start: at(11, 9), Duration: 2 * time.Hour},         // Monday morning
		{Start: at(13, 10), Duration: time.Hour},            // Wednesday morning
		{Start: at(13, 19), Duration: 60 * time.Minute},     // Wednesday evening
		{Start: at(15, 23), Duration: 4 * time.Hour},        // Friday night
	}

	p, err := Analyze(sessions, kst)
	require.NoError(t, err)

	assert.Equal(t, 4, p.Sessions)
	assert.Equal(t, 8*time.Hour, p.Total)
	assert.Equal(t, 3*time.Hour, p.SlotTotals[SlotMorning])
	assert.Equal(t, time.Hour, p.SlotTotals[SlotEvening])
	assert.Equal(t, 4*time.Hour, p.SlotTotals[SlotNight])

	assert.Equal(t, SlotNight, p.TopSlot)
	assert.Equal(t, 50, p.TopSlotShare)
	assert.Equal(t, time.Friday, p.TopDay)

	assert.Equal(t, 2*time.Hour, p.AvgSession)
	assert.Equal(t, 4*time.Hour, p.Longest)
	assert.Equal(t, 2*time.Hour, p.WeeklyAvg, "weekly average divides the lookback total by four")
}

func TestAnalyzeBucketsByLocalTime(t *testing.T) {
	// 22:00 UTC is 07:00 the next day at UTC+9, so this lands in Morning, not Night.
	start := time.Date(2024, 3, 13, 22, 0, 0, 0, time.UTC)
	p, err := Analyze([]session.Session{{Start: start, Duration: time.Hour}}, kst)
	require.NoError(t, err)

	assert.Equal(t, time.Hour, p.SlotTotals[SlotMorning])
	assert.Equal(t, time.Thursday, p.TopDay)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	_, err := Analyze(nil, kst)
	assert.ErrorIs(t, err, ErrNoData)
}
