package adminauth

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/neevdiamonds/storefront-backend/pkg/db/models"
)

const passwordHashKey = "admin_password_hash"

// Repository persists admin settings.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetPasswordHash loads the stored admin password hash, or "" when the
// seed has not run yet.
func (r *Repository) GetPasswordHash(ctx context.Context) (string, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).First(&setting, "key = ?", passwordHashKey).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

// SetPasswordHash stores (or replaces) the admin password hash.
func (r *Repository) SetPasswordHash(ctx context.Context, hash string) error {
	setting := models.Setting{Key: passwordHashKey, Value: hash}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
}
