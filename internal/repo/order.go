package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, status string, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	err := q.Preload("Items").Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	if err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	order, err := r.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Status = status
	if err := r.DB.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id string) error {
	db := r.DB.WithContext(ctx)
	if err := db.Delete(&models.OrderItem{}, "order_id = ?", id).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
