package order

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/models"
	"github.com/divaskloset/storefront/internal/repo"
)

func newTestService(t *testing.T) (*Service, *repo.GormRepo) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Order{}, &models.OrderItem{},
	))

	r := repo.New(db)
	return &Service{Store: r}, r
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{
		SKU:      "DK-" + name,
		Name:     name,
		Price:    price,
		Category: "dresses",
		InStock:  true,
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func TestCreate_SnapshotsAndTotals(t *testing.T) {
	t.Parallel()

	svc, r := newTestService(t)
	ctx := context.Background()

	dress := seedProduct(t, r, "Slip Dress", 89.50)
	clutch := seedProduct(t, r, "Velvet Clutch", 45)

	order, err := svc.Create(ctx, "user-1", CreateRequest{
		CustomerName:  "Ada Shopper",
		CustomerEmail: "ada@example.com",
		Items: []CreateOrderItem{
			{ProductID: dress.ID, Quantity: 2},
			{ProductID: clutch.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusNew, order.Status)
	assert.InDelta(t, 2*89.50+45, order.Total, 1e-9)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Slip Dress", order.Items[0].Name)
	assert.InDelta(t, 179.0, order.Items[0].LineTotal, 1e-9)

	// Catalog edits after the fact must not rewrite the order lines.
	dress.Price = 999
	require.NoError(t, r.SaveProduct(ctx, dress))

	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 89.50, got.Items[0].UnitPrice, 1e-9)
	assert.InDelta(t, 2*89.50+45, got.Total, 1e-9)
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()

	svc, r := newTestService(t)
	ctx := context.Background()
	dress := seedProduct(t, r, "Slip Dress", 89.50)

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"no items", CreateRequest{}},
		{"missing product id", CreateRequest{Items: []CreateOrderItem{{Quantity: 1}}}},
		{"zero quantity", CreateRequest{Items: []CreateOrderItem{{ProductID: dress.ID, Quantity: 0}}}},
		{"unknown product", CreateRequest{Items: []CreateOrderItem{{ProductID: "no-such-id", Quantity: 1}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-1", tc.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestList_FiltersByStatus(t *testing.T) {
	t.Parallel()

	svc, r := newTestService(t)
	ctx := context.Background()
	dress := seedProduct(t, r, "Slip Dress", 89.50)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "user-1", CreateRequest{
			Items: []CreateOrderItem{{ProductID: dress.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	total, orders, err := svc.List(ctx, "", 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	_, err = svc.UpdateStatus(ctx, orders[0].ID, models.OrderStatusPaid)
	require.NoError(t, err)

	total, paid, err := svc.List(ctx, models.OrderStatusPaid, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, paid, 1)
	assert.Equal(t, orders[0].ID, paid[0].ID)

	_, _, err = svc.List(ctx, "refunded", 0, 20)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	svc, r := newTestService(t)
	ctx := context.Background()
	dress := seedProduct(t, r, "Slip Dress", 89.50)

	order, err := svc.Create(ctx, "user-1", CreateRequest{
		Items: []CreateOrderItem{{ProductID: dress.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, "lost-in-transit")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateStatus(ctx, "no-such-order", models.OrderStatusPaid)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_RemovesItems(t *testing.T) {
	t.Parallel()

	svc, r := newTestService(t)
	ctx := context.Background()
	dress := seedProduct(t, r, "Slip Dress", 89.50)

	order, err := svc.Create(ctx, "user-1", CreateRequest{
		Items: []CreateOrderItem{{ProductID: dress.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, order.ID))

	_, err = svc.Get(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var count int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
