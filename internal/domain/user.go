package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical identity record for authgate.
// SessionID and ResetToken are opaque lookup keys with no internal structure;
// a nil pointer means no session is alive / no reset is outstanding.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	SessionID    *string
	ResetToken   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasSession reports whether the user currently owns a live session slot.
func (u User) HasSession() bool {
	return u.SessionID != nil && *u.SessionID != ""
}
