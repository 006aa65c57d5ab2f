package session

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu           sync.RWMutex
	checkins     map[string]CheckIn             // teamID:userID -> CheckIn
	days         map[string][]Session           // teamID:dateKey -> sessions in insertion order
	participants map[string]map[string]struct{} // teamID:dateKey -> user set
	order        map[string][]string            // teamID:dateKey -> participant insertion order
	totals       map[string]map[string]time.Duration
}

// NewMemoryRepository returns an in-memory repository intended for local development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		checkins:     make(map[string]CheckIn),
		days:         make(map[string][]Session),
		participants: make(map[string]map[string]struct{}),
		order:        make(map[string][]string),
		totals:       make(map[string]map[string]time.Duration),
	}
}

func key(teamID, suffix string) string { return teamID + ":" + suffix }

func (r *memoryRepository) GetCheckIn(_ context.Context, teamID, userID string) (CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkIn, ok := r.checkins[key(teamID, userID)]
	if !ok {
		return CheckIn{}, ErrNotFound
	}
	return checkIn, nil
}

func (r *memoryRepository) CreateCheckIn(_ context.Context, checkIn CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(checkIn.TeamID, checkIn.UserID)
	if _, exists := r.checkins[k]; exists {
		return ErrConflict
	}
	r.checkins[k] = checkIn
	return nil
}

func (r *memoryRepository) DeleteCheckIn(_ context.Context, teamID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.checkins, key(teamID, userID))
	return nil
}

func (r *memoryRepository) AppendSession(_ context.Context, teamID, dateKey string, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(teamID, dateKey)
	r.days[k] = append(r.days[k], s)
	return nil
}

func (r *memoryRepository) ListDay(_ context.Context, teamID, dateKey string) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := r.days[key(teamID, dateKey)]
	out := make([]Session, len(day))
	copy(out, day)
	return out, nil
}

func (r *memoryRepository) AddParticipant(_ context.Context, teamID, dateKey, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(teamID, dateKey)
	set, ok := r.participants[k]
	if !ok {
		set = make(map[string]struct{})
		r.participants[k] = set
	}
	if _, exists := set[userID]; !exists {
		set[userID] = struct{}{}
		r.order[k] = append(r.order[k], userID)
	}
	return nil
}

func (r *memoryRepository) ListParticipants(_ context.Context, teamID, dateKey string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := r.order[key(teamID, dateKey)]
	out := make([]string, len(users))
	copy(out, users)
	return out, nil
}

func (r *memoryRepository) AddToTotal(_ context.Context, teamID, userID string, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	teamTotals, ok := r.totals[teamID]
	if !ok {
		teamTotals = make(map[string]time.Duration)
		r.totals[teamID] = teamTotals
	}
	teamTotals[userID] += d
	return nil
}

func (r *memoryRepository) Totals(_ context.Context, teamID string) (map[string]time.Duration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]time.Duration, len(r.totals[teamID]))
	for userID, total := range r.totals[teamID] {
		out[userID] = total
	}
	return out, nil
}
