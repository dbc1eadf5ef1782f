package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/viralforge/authgate/internal/domain"
	"github.com/viralforge/authgate/internal/ports"
)

// PasswordResetManager owns the one-time reset-token lifecycle. Issuing
// overwrites any prior unconsumed token; consuming updates the password digest
// and clears the token in one directory call, so a consumed token can never be
// replayed against the new digest.
type PasswordResetManager struct {
	directory ports.UserDirectory
	hasher    ports.PasswordHasher
}

func NewPasswordResetManager(directory ports.UserDirectory, hasher ports.PasswordHasher) *PasswordResetManager {
	return &PasswordResetManager{directory: directory, hasher: hasher}
}

// IssueToken generates a fresh opaque reset token for the user with the given
// email. Unlike session lookup, an unknown email here is a caller-facing
// failure: domain.ErrNotFound propagates so the transport can map it.
func (m *PasswordResetManager) IssueToken(ctx context.Context, email string) (string, error) {
	user, err := m.directory.FindBy(ctx, map[string]any{ports.AttrEmail: email})
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := m.directory.UpdateByID(ctx, user.ID, map[string]any{ports.AttrResetToken: token}); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeToken redeems a reset token against a new plaintext password.
// The digest update and the token clear travel in the same UpdateByID call;
// the directory applies them atomically, so no reader observes a new digest
// with the old token still live.
func (m *PasswordResetManager) ConsumeToken(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", domain.ErrInvalidToken)
	}
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	user, err := m.directory.FindBy(ctx, map[string]any{ports.AttrResetToken: token})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}

	digest, err := m.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return m.directory.UpdateByID(ctx, user.ID, map[string]any{
		ports.AttrPasswordHash: digest,
		ports.AttrResetToken:   nil,
	})
}
