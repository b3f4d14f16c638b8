package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/models"
)

// ReplaceCode drops any prior code for the email before inserting, keeping
// the at-most-one-live-row invariant. Last write wins on concurrent calls.
func (r *GormRepo) ReplaceCode(ctx context.Context, email, code string, ttl time.Duration) error {
	email = NormalizeEmail(email)
	db := r.DB.WithContext(ctx)
	if err := db.Delete(&models.OneTimeCode{}, "email = ?", email).Error; err != nil {
		return err
	}
	row := models.OneTimeCode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(ttl),
		Attempts:  0,
	}
	return db.Create(&row).Error
}

func (r *GormRepo) GetCode(ctx context.Context, email string) (*models.OneTimeCode, error) {
	var row models.OneTimeCode
	err := r.DB.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *GormRepo) IncrementAttempts(ctx context.Context, email string) error {
	return r.DB.WithContext(ctx).Model(&models.OneTimeCode{}).
		Where("email = ?", NormalizeEmail(email)).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

func (r *GormRepo) DeleteCode(ctx context.Context, email string) error {
	return r.DB.WithContext(ctx).Delete(&models.OneTimeCode{}, "email = ?", NormalizeEmail(email)).Error
}
