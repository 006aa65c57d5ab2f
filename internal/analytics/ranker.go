package analytics

import (
	"errors"
	"sort"
	"time"

	"github.com/Shimsuyeon/focus-fairy/internal/session"
)

// ErrNoData indicates an aggregation over an empty session set; reports surface this as
// a distinct "nothing recorded yet" signal rather than an empty leaderboard.
var ErrNoData = errors.New("no sessions to aggregate")

// Tier distinguishes the medal ranks from plain ordinals.
type Tier int

const (
	TierNone Tier = iota
	TierGold
	TierSilver
	TierBronze
)

// Entry is one user's row in a ranked report.
type Entry struct {
	UserID string
	Total  time.Duration
	Rank   int // 1-based
	Tier   Tier
}

// Report is a ranked leaderboard over a set of sessions.
type Report struct {
	Entries []Entry
	Total   time.Duration
}

// Aggregate groups sessions by user, sums durations and ranks users by total,
// descending. Ties keep input order: the first user to appear in the unsorted input
// ranks higher among equals. Empty input yields ErrNoData.
func Aggregate(sessions []session.Session) (Report, error) {
	if len(sessions) == 0 {
		return Report{}, ErrNoData
	}

	totals := make(map[string]time.Duration)
	var order []string
	for _, s := range sessions {
		if _, seen := totals[s.UserID]; !seen {
			order = append(order, s.UserID)
		}
		totals[s.UserID] += s.Duration
	}

	entries := make([]Entry, 0, len(order))
	var grand time.Duration
	for _, userID := range order {
		entries = append(entries, Entry{UserID: userID, Total: totals[userID]})
		grand += totals[userID]
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})

	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Tier = tierFor(i + 1)
	}

	return Report{Entries: entries, Total: grand}, nil
}

func tierFor(rank int) Tier {
	switch rank {
	case 1:
		return TierGold
	case 2:
		return TierSilver
	case 3:
		return TierBronze
	default:
		return TierNone
	}
}
