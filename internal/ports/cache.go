package ports

import (
	"context"

	"github.com/google/uuid"
)

// SessionCache is a shared fast-path index from session token to user id.
// It is advisory: the directory record stays the source of truth, and callers
// fall back to a directory lookup when the cache misses or errors.
type SessionCache interface {
	Put(ctx context.Context, token string, userID uuid.UUID) error
	Get(ctx context.Context, token string) (uuid.UUID, bool, error)
	Del(ctx context.Context, token string) error
}
