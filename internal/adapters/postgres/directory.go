package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/authgate/internal/domain"
	"github.com/viralforge/authgate/internal/ports"
	"gorm.io/gorm"
)

type userModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	SessionID    *string   `gorm:"column:session_id"`
	ResetToken   *string   `gorm:"column:reset_token"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

// directoryColumns is the closed set of attribute names the directory accepts
// in lookups and updates. Anything else is a programmer error.
var directoryColumns = map[string]struct{}{
	ports.AttrID:           {},
	ports.AttrEmail:        {},
	ports.AttrPasswordHash: {},
	ports.AttrSessionID:    {},
	ports.AttrResetToken:   {},
}

// UserDirectory is the Postgres-backed keyed-record store. Every lookup key
// used by the core (email, session_id, reset_token) is covered by a unique
// index, so queries never degrade to scans.
type UserDirectory struct {
	db    *gorm.DB
	nowFn func() time.Time
}

func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db, nowFn: time.Now().UTC}
}

func (d *UserDirectory) FindBy(ctx context.Context, attrs map[string]any) (domain.User, error) {
	if len(attrs) == 0 {
		return domain.User{}, fmt.Errorf("%w: empty attribute set", domain.ErrInvalidAttribute)
	}

	query := d.db.WithContext(ctx)
	for name, value := range attrs {
		if _, ok := directoryColumns[name]; !ok {
			return domain.User{}, fmt.Errorf("%w: %s", domain.ErrInvalidAttribute, name)
		}
		query = query.Where(name+" = ?", value)
	}

	var rec userModel
	if err := query.Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (d *UserDirectory) Create(ctx context.Context, email, passwordHash string) (domain.User, error) {
	now := d.nowFn()
	rec := userModel{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := d.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrAlreadyExists, email)
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

// UpdateByID applies all given fields in a single UPDATE statement. A nil
// value clears the column. Unknown field names fail before touching the row.
func (d *UserDirectory) UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty field set", domain.ErrInvalidAttribute)
	}

	updates := make(map[string]any, len(fields)+1)
	for name, value := range fields {
		if _, ok := directoryColumns[name]; !ok || name == ports.AttrID {
			return fmt.Errorf("%w: %s", domain.ErrInvalidAttribute, name)
		}
		updates[name] = value
	}
	updates["updated_at"] = d.nowFn()

	res := d.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("%w: conflicting unique value", domain.ErrAlreadyExists)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toDomainUser(rec userModel) domain.User {
	return domain.User{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		SessionID:    rec.SessionID,
		ResetToken:   rec.ResetToken,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
