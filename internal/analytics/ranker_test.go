package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimsuyeon/focus-fairy/internal/session"
)

func TestAggregateRanksByTotalDescending(t *testing.T) {
	sessions := []session.Session{
		{UserID: "U1", Duration: time.Hour},
		{UserID: "U2", Duration: 3 * time.Hour},
		{UserID: "U1", Duration: 30 * time.Minute},
		{UserID: "U3", Duration: 2 * time.Hour},
		{UserID: "U4", Duration: 10 * time.Minute},
	}

	report, err := Aggregate(sessions)
	require.NoError(t, err)

	require.Len(t, report.Entries, 4)
	assert.Equal(t, "U2", report.Entries[0].UserID)
	assert.Equal(t, "U3", report.Entries[1].UserID)
	assert.Equal(t, "U1", report.Entries[2].UserID)
	assert.Equal(t, "U4", report.Entries[3].UserID)

	assert.Equal(t, 90*time.Minute, report.Entries[2].Total)
	assert.Equal(t, 6*time.Hour+40*time.Minute, report.Total)

	assert.Equal(t, TierGold, report.Entries[0].Tier)
	assert.Equal(t, TierSilver, report.Entries[1].Tier)
	assert.Equal(t, TierBronze, report.Entries[2].Tier)
	assert.Equal(t, TierNone, report.Entries[3].Tier)
	assert.Equal(t, 4, report.Entries[3].Rank)
}

func TestAggregateTiesKeepFirstAppearanceOrder(t *testing.T) {
	sessions := []session.Session{
		{UserID: "U9", Duration: time.Hour},
		{UserID: "U1", Duration: time.Hour},
	}

	report, err := Aggregate(sessions)
	require.NoError(t, err)

	assert.Equal(t, "U9", report.Entries[0].UserID, "first to appear wins the tie")
	assert.Equal(t, "U1", report.Entries[1].UserID)
}

func TestAggregateEmptyInput(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, ErrNoData)
}
