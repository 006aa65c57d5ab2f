package workspace

import (
	"context"
	"sync"
)

// Directory resolves opaque user ids to display names.
type Directory interface {
	DisplayName(ctx context.Context, teamID, userID string) (string, error)
}

// NameCache memoizes directory lookups for the life of a single report so one request
// never asks the workspace API about the same user twice. It is request-scoped by
// construction: create one per report, never share across requests.
type NameCache struct {
	dir Directory

	mu    sync.Mutex
	names map[string]string
}

// NewNameCache wraps a directory with request-scoped memoization.
func NewNameCache(dir Directory) *NameCache {
	return &NameCache{dir: dir, names: make(map[string]string)}
}

// Name resolves userID, falling back to the raw id when the lookup fails.
func (c *NameCache) Name(ctx context.Context, teamID, userID string) string {
	key := teamID + ":" + userID

	c.mu.Lock()
	if name, ok := c.names[key]; ok {
		c.mu.Unlock()
		return name
	}
	c.mu.Unlock()

	name, err := c.dir.DisplayName(ctx, teamID, userID)
	if err != nil || name == "" {
		name = userID
	}

	c.mu.Lock()
	c.names[key] = name
	c.mu.Unlock()

	return name
}
