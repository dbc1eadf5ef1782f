package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/viralforge/authgate/internal/domain"
	"github.com/viralforge/authgate/internal/ports"
)

// SessionManager owns the opaque-session lifecycle. A session is the
// (user.id, user.session_id) relation on the directory record; at most one is
// alive per user, and creating a new one overwrites the prior token so other
// devices are silently logged out. The optional cache is a write-through index
// and never the source of truth.
type SessionManager struct {
	directory ports.UserDirectory
	cache     ports.SessionCache
}

func NewSessionManager(directory ports.UserDirectory, cache ports.SessionCache) *SessionManager {
	return &SessionManager{directory: directory, cache: cache}
}

// Create issues a fresh opaque token for the user with the given email and
// stores it as the user's session slot. An unknown email yields
// domain.ErrNotFound for the caller to map to a login failure.
func (m *SessionManager) Create(ctx context.Context, email string) (string, error) {
	user, err := m.directory.FindBy(ctx, map[string]any{ports.AttrEmail: email})
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := m.directory.UpdateByID(ctx, user.ID, map[string]any{ports.AttrSessionID: token}); err != nil {
		return "", err
	}

	if m.cache != nil {
		if user.HasSession() {
			_ = m.cache.Del(ctx, *user.SessionID)
		}
		_ = m.cache.Put(ctx, token, user.ID)
	}
	return token, nil
}

// Resolve returns the user owning a live session token, or nil when the token
// is empty or matches nothing. The cache fast path is verified against the
// directory record before being trusted.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	if m.cache != nil {
		if userID, hit, err := m.cache.Get(ctx, token); err == nil && hit {
			user, err := m.directory.FindBy(ctx, map[string]any{ports.AttrID: userID})
			if err == nil && user.HasSession() && *user.SessionID == token {
				return &user, nil
			}
			// Stale index entry; fall through to the keyed lookup.
			_ = m.cache.Del(ctx, token)
		}
	}

	user, err := m.directory.FindBy(ctx, map[string]any{ports.AttrSessionID: token})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Destroy clears the user's session slot. Destroying an absent user or an
// already-cleared slot is a no-op, so the call is idempotent.
func (m *SessionManager) Destroy(ctx context.Context, userID uuid.UUID) error {
	user, err := m.directory.FindBy(ctx, map[string]any{ports.AttrID: userID})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := m.directory.UpdateByID(ctx, userID, map[string]any{ports.AttrSessionID: nil}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if m.cache != nil && user.HasSession() {
		_ = m.cache.Del(ctx, *user.SessionID)
	}
	return nil
}
