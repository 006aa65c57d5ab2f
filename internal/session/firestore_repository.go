package session

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository instantiates a Firestore-backed repository. Each session is
// its own document, so concurrent closes on the same day never contend, and the
// cumulative total is maintained with server-side increments.
func NewFirestoreRepository(client *firestore.Client) Repository {
	return &firestoreRepository{client: client}
}

const (
	checkinsCollection     = "checkins"
	sessionsCollection     = "sessions"
	participantsCollection = "participants"
	metaCollection         = "meta"
	totalsDocument         = "totals"
)

func (r *firestoreRepository) team(teamID string) *firestore.DocumentRef {
	return r.client.Collection("teams").Doc(teamID)
}

func (r *firestoreRepository) GetCheckIn(ctx context.Context, teamID, userID string) (CheckIn, error) {
	doc, err := r.team(teamID).Collection(checkinsCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return CheckIn{}, ErrNotFound
	}
	if err != nil {
		return CheckIn{}, classify(err)
	}

	var payload struct {
		StartedAt time.Time `firestore:"started_at"`
	}
	if err := doc.DataTo(&payload); err != nil {
		return CheckIn{}, err
	}

	return CheckIn{TeamID: teamID, UserID: userID, StartedAt: payload.StartedAt}, nil
}

func (r *firestoreRepository) CreateCheckIn(ctx context.Context, checkIn CheckIn) error {
	data := map[string]any{
		"started_at": checkIn.StartedAt,
		"schema":     SchemaVersion,
	}

	_, err := r.team(checkIn.TeamID).Collection(checkinsCollection).Doc(checkIn.UserID).Create(ctx, data)
	if status.Code(err) == codes.AlreadyExists {
		return ErrConflict
	}
	return classify(err)
}

func (r *firestoreRepository) DeleteCheckIn(ctx context.Context, teamID, userID string) error {
	_, err := r.team(teamID).Collection(checkinsCollection).Doc(userID).Delete(ctx)
	return classify(err)
}

func (r *firestoreRepository) AppendSession(ctx context.Context, teamID, dateKey string, s Session) error {
	data := map[string]any{
		"user_id":     s.UserID,
		"date":        dateKey,
		"start_at":    s.Start,
		"end_at":      s.End,
		"duration_ms": s.Duration.Milliseconds(),
		"schema":      SchemaVersion,
	}

	_, err := r.team(teamID).Collection(sessionsCollection).Doc(s.ID).Create(ctx, data)
	if status.Code(err) == codes.AlreadyExists {
		return ErrConflict
	}
	return classify(err)
}

func (r *firestoreRepository) ListDay(ctx context.Context, teamID, dateKey string) ([]Session, error) {
	iter := r.team(teamID).Collection(sessionsCollection).Where("date", "==", dateKey).Documents(ctx)
	defer iter.Stop()

	sessions := make([]Session, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err)
		}

		var payload struct {
			UserID     string    `firestore:"user_id"`
			StartAt    time.Time `firestore:"start_at"`
			EndAt      time.Time `firestore:"end_at"`
			DurationMs int64     `firestore:"duration_ms"`
		}
		if err := doc.DataTo(&payload); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", doc.Ref.ID, err)
		}

		sessions = append(sessions, Session{
			ID:       doc.Ref.ID,
			UserID:   payload.UserID,
			Start:    payload.StartAt,
			End:      payload.EndAt,
			Duration: time.Duration(payload.DurationMs) * time.Millisecond,
		})
	}

	return sessions, nil
}

func (r *firestoreRepository) AddParticipant(ctx context.Context, teamID, dateKey, userID string) error {
	data := map[string]any{
		"users":  firestore.ArrayUnion(userID),
		"schema": SchemaVersion,
	}

	_, err := r.team(teamID).Collection(participantsCollection).Doc(dateKey).Set(ctx, data, firestore.MergeAll)
	return classify(err)
}

func (r *firestoreRepository) ListParticipants(ctx context.Context, teamID, dateKey string) ([]string, error) {
	doc, err := r.team(teamID).Collection(participantsCollection).Doc(dateKey).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}

	var payload struct {
		Users []string `firestore:"users"`
	}
	if err := doc.DataTo(&payload); err != nil {
		return nil, err
	}

	return payload.Users, nil
}

func (r *firestoreRepository) AddToTotal(ctx context.Context, teamID, userID string, d time.Duration) error {
	data := map[string]any{
		userID:   firestore.Increment(d.Milliseconds()),
		"schema": SchemaVersion,
	}

	_, err := r.team(teamID).Collection(metaCollection).Doc(totalsDocument).Set(ctx, data, firestore.MergeAll)
	return classify(err)
}

func (r *firestoreRepository) Totals(ctx context.Context, teamID string) (map[string]time.Duration, error) {
	doc, err := r.team(teamID).Collection(metaCollection).Doc(totalsDocument).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return map[string]time.Duration{}, nil
	}
	if err != nil {
		return nil, classify(err)
	}

	totals := make(map[string]time.Duration)
	for field, value := range doc.Data() {
		if field == "schema" {
			continue
		}
		if ms, ok := value.(int64); ok {
			totals[field] = time.Duration(ms) * time.Millisecond
		}
	}

	return totals, nil
}

// classify maps transient RPC failures to ErrStoreUnavailable so callers can apply a
// retry policy instead of treating them as unclassified failures.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
