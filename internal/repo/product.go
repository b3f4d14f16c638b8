package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ListProducts serves the plain catalog listing; sort keys here map straight
// to columns. The scored search path loads candidates with ListAllProducts
// instead.
func (r *GormRepo) ListProducts(ctx context.Context, category, sort string, offset, limit int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	order := "created_at DESC"
	switch sort {
	case "price-low":
		order = "price ASC"
	case "price-high":
		order = "price DESC"
	case "name":
		order = "name ASC"
	case "newest", "":
	}

	var items []models.Product
	if err := q.Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// ListAllProducts loads the whole catalog for the in-memory search pass.
func (r *GormRepo) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormRepo) SKUExists(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", sku).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
