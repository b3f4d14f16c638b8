package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/models"
)

func (r *GormRepo) CreateEmailToken(ctx context.Context, t *models.EmailToken) error {
	t.Email = NormalizeEmail(t.Email)
	return r.DB.WithContext(ctx).Create(t).Error
}

// ConsumeEmailToken validates and burns a token in one pass. Expired and
// already-used tokens are indistinguishable from the caller's side of the
// generic failure, but map to distinct sentinels for logging.
func (r *GormRepo) ConsumeEmailToken(ctx context.Context, token, purpose string) (*models.EmailToken, error) {
	var row models.EmailToken
	db := r.DB.WithContext(ctx)
	err := db.Where("token = ? AND purpose = ?", token, purpose).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if row.UsedAt != nil {
		return nil, domain.ErrNotFound
	}
	if time.Now().After(row.ExpiresAt) {
		return nil, domain.ErrExpired
	}
	now := time.Now()
	if err := db.Model(&row).Update("used_at", &now).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
