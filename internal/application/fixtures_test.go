package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/authgate/internal/domain"
	"github.com/viralforge/authgate/internal/ports"
)

// memoryDirectory is an in-process UserDirectory for tests. It mirrors the
// store contract: unique emails, at most one match per lookup key, nil field
// values clear the column.
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
			ok, err := attrMatches(user, name, value)
			if err != nil {
				return domain.User{}, err
			}
			if !ok {
				matched = false
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
		case ports.AttrEmail:
			user.Email = value.(string)
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

func attrMatches(user domain.User, name string, value any) (bool, error) {
	switch name {
	case ports.AttrID:
		id, ok := value.(uuid.UUID)
		return ok && user.ID == id, nil
	case ports.AttrEmail:
		s, ok := value.(string)
		return ok && user.Email == s, nil
	case ports.AttrPasswordHash:
		s, ok := value.(string)
		return ok && user.PasswordHash == s, nil
	case ports.AttrSessionID:
		return optionalEquals(user.SessionID, value), nil
	case ports.AttrResetToken:
		return optionalEquals(user.ResetToken, value), nil
	default:
		return false, fmt.Errorf("%w: %s", domain.ErrInvalidAttribute, name)
	}
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

// memoryCache is an in-process SessionCache with the same advisory contract
// as the Redis adapter.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]uuid.UUID
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]uuid.UUID)}
}

func (c *memoryCache) Put(_ context.Context, token string, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = userID
	return nil
}

func (c *memoryCache) Get(_ context.Context, token string) (uuid.UUID, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	userID, ok := c.entries[token]
	return userID, ok, nil
}

func (c *memoryCache) Del(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
	return nil
}
