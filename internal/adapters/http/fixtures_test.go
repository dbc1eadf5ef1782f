package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/viralforge/authgate/internal/adapters/security"
	"github.com/viralforge/authgate/internal/application"
	"github.com/viralforge/authgate/internal/domain"
	"github.com/viralforge/authgate/internal/ports"
)

const testCookieName = "_my_session_id"

// newTestHandler binds the handlers to an in-process directory, so the tests
// exercise the same code path a live request takes.
func newTestHandler() *Handler {
	directory := newMemoryDirectory()
	svc := application.NewService(application.Dependencies{
		Directory: directory,
		Hasher:    security.NewBcryptHasher(bcrypt.MinCost),
		Mode:      application.ModeSession,
		ExcludedPaths: []string{
			"/", "/healthz", "/api/v1/status",
			"/users", "/sessions", "/profile", "/reset_password",
		},
	})
	return NewHandler(svc, testCookieName)
}

// memoryDirectory is an in-process UserDirectory with the store contract the
// handlers rely on: unique emails, keyed lookups, nil values clear a column.
type memoryDirectory struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{users: make(map[uuid.UUID]domain.User)}
}

func (d *memoryDirectory) FindBy(_ context.Context, attrs map[string]any) (domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(attrs) == 0 {
		return domain.User{}, fmt.Errorf("%w: empty lookup", domain.ErrInvalidAttribute)
	}
	for _, user := range d.users {
		matched := true
		for name, value := range attrs {
			switch name {
			case ports.AttrID:
				id, ok := value.(uuid.UUID)
				matched = ok && user.ID == id
			case ports.AttrEmail:
				s, ok := value.(string)
				matched = ok && user.Email == s
			case ports.AttrSessionID:
				matched = optionalEquals(user.SessionID, value)
			case ports.AttrResetToken:
				matched = optionalEquals(user.ResetToken, value)
			default:
				return domain.User{}, fmt.Errorf("%w: %s", domain.ErrInvalidAttribute, name)
			}
			if !matched {
				break
			}
		}
		if matched {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (d *memoryDirectory) Create(_ context.Context, email, passwordHash string) (domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, user := range d.users {
		if user.Email == email {
			return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrAlreadyExists, email)
		}
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	d.users[user.ID] = user
	return user, nil
}

func (d *memoryDirectory) UpdateByID(_ context.Context, id uuid.UUID, fields map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	for name, value := range fields {
		switch name {
		case ports.AttrPasswordHash:
			user.PasswordHash = value.(string)
		case ports.AttrSessionID:
			user.SessionID = optionalString(value)
		case ports.AttrResetToken:
			user.ResetToken = optionalString(value)
		default:
			return fmt.Errorf("%w: %s", domain.ErrInvalidAttribute, name)
		}
	}
	user.UpdatedAt = time.Now().UTC()
	d.users[id] = user
	return nil
}

func optionalEquals(field *string, value any) bool {
	if value == nil {
		return field == nil
	}
	s, ok := value.(string)
	return ok && field != nil && *field == s
}

func optionalString(value any) *string {
	if value == nil {
		return nil
	}
	s := value.(string)
	return &s
}
