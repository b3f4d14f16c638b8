package product

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/models"
)

type memStore struct {
	byID      map[string]*models.Product
	nextID    int
	skuProbes int
	allTaken  bool
}

func newMemStore() *memStore {
	return &memStore{byID: map[string]*models.Product{}}
}

func (m *memStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListProducts(ctx context.Context, category, sort string, offset, limit int) (int64, []models.Product, error) {
	var out []models.Product
	for _, p := range m.byID {
		if category == "" || p.Category == category {
			out = append(out, *p)
		}
	}
	return int64(len(out)), out, nil
}

func (m *memStore) CreateProduct(ctx context.Context, p *models.Product) error {
	m.nextID++
	p.ID = strings.Repeat("0", 35) + string(rune('0'+m.nextID%10))
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memStore) SaveProduct(ctx context.Context, p *models.Product) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memStore) DeleteProduct(ctx context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memStore) SKUExists(ctx context.Context, sku string) (bool, error) {
	m.skuProbes++
	if m.allTaken {
		return true, nil
	}
	for _, p := range m.byID {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()

	svc := &Service{Store: newMemStore()}
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"empty name", CreateRequest{Name: "  ", Price: 10, Category: "dresses"}},
		{"negative price", CreateRequest{Name: "Slip Dress", Price: -1, Category: "dresses"}},
		{"unknown category", CreateRequest{Name: "Slip Dress", Price: 10, Category: "gadgets"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreate_Defaults(t *testing.T) {
	t.Parallel()

	svc := &Service{Store: newMemStore()}
	prod, err := svc.Create(context.Background(), CreateRequest{
		Name:     "  Slip Dress  ",
		Price:    89.50,
		Category: "dresses",
	})
	require.NoError(t, err)

	assert.Equal(t, "Slip Dress", prod.Name)
	assert.True(t, prod.InStock, "stock defaults to available")
	assert.True(t, strings.HasPrefix(prod.SKU, "DK-"))
	assert.Len(t, prod.SKU, 9)
	assert.NotEmpty(t, prod.ID)
}

func TestCreate_RequestedSKUNormalized(t *testing.T) {
	t.Parallel()

	svc := &Service{Store: newMemStore()}
	prod, err := svc.Create(context.Background(), CreateRequest{
		SKU:      "  dk-slip-01 ",
		Name:     "Slip Dress",
		Price:    89.50,
		Category: "dresses",
	})
	require.NoError(t, err)
	assert.Equal(t, "DK-SLIP-01", prod.SKU)
}

func TestCreate_SKUCollisionGetsSuffix(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := &Service{Store: store}
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateRequest{SKU: "DK-SLIP-01", Name: "Slip Dress", Price: 89.50, Category: "dresses"})
	require.NoError(t, err)

	second, err := svc.Create(ctx, CreateRequest{SKU: "DK-SLIP-01", Name: "Slip Dress II", Price: 95, Category: "dresses"})
	require.NoError(t, err)

	assert.NotEqual(t, first.SKU, second.SKU)
	assert.True(t, strings.HasPrefix(second.SKU, "DK-SLIP-01-"))
	assert.Len(t, second.SKU, len("DK-SLIP-01")+5)
}

func TestCreate_SKUAllocationFailsClosed(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.allTaken = true
	svc := &Service{Store: store}

	_, err := svc.Create(context.Background(), CreateRequest{
		SKU:      "DK-SLIP-01",
		Name:     "Slip Dress",
		Price:    89.50,
		Category: "dresses",
	})
	require.Error(t, err)
	assert.Equal(t, 50, store.skuProbes, "gives up after the probe budget")
	assert.Empty(t, store.byID, "nothing persisted on failure")
}

func TestPatch_PartialFields(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := &Service{Store: store}
	ctx := context.Background()

	prod, err := svc.Create(ctx, CreateRequest{SKU: "DK-SLIP-01", Name: "Slip Dress", Description: "Satin", Price: 89.50, Category: "dresses"})
	require.NoError(t, err)

	newPrice := 75.0
	updated, err := svc.Patch(ctx, prod.ID, PatchRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 75.0, updated.Price)
	assert.Equal(t, "Slip Dress", updated.Name, "untouched fields survive")
	assert.Equal(t, "Satin", updated.Description)
	assert.Equal(t, "DK-SLIP-01", updated.SKU)
}

func TestPatch_Validation(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := &Service{Store: store}
	ctx := context.Background()

	prod, err := svc.Create(ctx, CreateRequest{Name: "Slip Dress", Price: 89.50, Category: "dresses"})
	require.NoError(t, err)

	empty := " "
	_, err = svc.Patch(ctx, prod.ID, PatchRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad := -5.0
	_, err = svc.Patch(ctx, prod.ID, PatchRequest{Price: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	cat := "gadgets"
	_, err = svc.Patch(ctx, prod.ID, PatchRequest{Category: &cat})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Patch(ctx, "missing-id", PatchRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatch_SameSKUSkipsReallocation(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := &Service{Store: store}
	ctx := context.Background()

	prod, err := svc.Create(ctx, CreateRequest{SKU: "DK-SLIP-01", Name: "Slip Dress", Price: 89.50, Category: "dresses"})
	require.NoError(t, err)

	probes := store.skuProbes
	same := "dk-slip-01"
	updated, err := svc.Patch(ctx, prod.ID, PatchRequest{SKU: &same})
	require.NoError(t, err)

	assert.Equal(t, "DK-SLIP-01", updated.SKU)
	assert.Equal(t, probes, store.skuProbes, "no probe for an unchanged sku")
}

func TestList_RejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	svc := &Service{Store: newMemStore()}
	_, _, err := svc.List(context.Background(), "gadgets", "newest", 0, 20)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := &Service{Store: store}
	ctx := context.Background()

	prod, err := svc.Create(ctx, CreateRequest{Name: "Slip Dress", Price: 89.50, Category: "dresses"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, prod.ID))
	assert.ErrorIs(t, svc.Delete(ctx, prod.ID), domain.ErrNotFound)
}
