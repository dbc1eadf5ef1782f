package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/viralforge/authgate/internal/domain"
)

// Attribute names a UserDirectory implementation must recognize in FindBy and
// UpdateByID calls. Any other name fails with domain.ErrInvalidAttribute.
const (
	AttrID           = "id"
	AttrEmail        = "email"
	AttrPasswordHash = "password_hash"
	AttrSessionID    = "session_id"
	AttrResetToken   = "reset_token"
)

// UserDirectory is the keyed-record store consumed by the authentication core.
// Callers always expect at most one logical match per lookup key (email,
// session_id, reset_token), backed by unique indexes in the implementation.
// UpdateByID must apply all given fields in a single atomic statement; a nil
// field value clears the column.
type UserDirectory interface {
	FindBy(ctx context.Context, attrs map[string]any) (domain.User, error)
	Create(ctx context.Context, email, passwordHash string) (domain.User, error)
	UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) error
}
