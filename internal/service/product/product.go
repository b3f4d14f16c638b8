package product

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/divaskloset/storefront/internal/catalog"
	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/events"
	"github.com/divaskloset/storefront/internal/logging"
	"github.com/divaskloset/storefront/internal/models"
	"github.com/divaskloset/storefront/internal/repo"
)

const (
	skuPrefix   = "DK"
	skuAttempts = 50
)

type Store interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, category, sort string, offset, limit int) (int64, []models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	SKUExists(ctx context.Context, sku string) (bool, error)
}

var _ Store = (*repo.GormRepo)(nil)

type Service struct {
	Store  Store
	Events events.Publisher
}

type CreateRequest struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	ImageURLs   []string `json:"imageUrls"`
	InStock     *bool    `json:"inStock"`
}

type PatchRequest struct {
	SKU         *string   `json:"sku"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	ImageURLs   *[]string `json:"imageUrls"`
	InStock     *bool     `json:"inStock"`
}

func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.Store.GetProduct(ctx, id)
}

func (s *Service) List(ctx context.Context, category, sort string, offset, limit int) (int64, []models.Product, error) {
	if category != "" && !catalog.Valid(category) {
		return 0, nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}
	return s.Store.ListProducts(ctx, category, sort, offset, limit)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	if !catalog.Valid(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, req.Category)
	}

	sku, err := s.resolveSKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	prod := &models.Product{
		SKU:         sku,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURLs:   req.ImageURLs,
		InStock:     inStock,
	}
	if err := s.Store.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.publish(ctx, prod.ID, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"sku":       prod.SKU,
		"name":      prod.Name,
	})
	return prod, nil
}

func (s *Service) Patch(ctx context.Context, id string, req PatchRequest) (*models.Product, error) {
	prod, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
		}
		prod.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
		}
		prod.Price = *req.Price
	}
	if req.Category != nil {
		if !catalog.Valid(*req.Category) {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *req.Category)
		}
		prod.Category = *req.Category
	}
	if req.ImageURLs != nil {
		prod.ImageURLs = *req.ImageURLs
	}
	if req.InStock != nil {
		prod.InStock = *req.InStock
	}
	if req.SKU != nil && normalizeSKU(*req.SKU) != prod.SKU {
		sku, err := s.resolveSKU(ctx, *req.SKU)
		if err != nil {
			return nil, err
		}
		prod.SKU = sku
	}

	if err := s.Store.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.publish(ctx, prod.ID, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

// resolveSKU honors the requested SKU when it is free, otherwise derives a
// unique one by appending random suffixes to the base. After skuAttempts
// collisions it fails closed rather than inserting a duplicate.
func (s *Service) resolveSKU(ctx context.Context, requested string) (string, error) {
	base := normalizeSKU(requested)
	if base == "" {
		base = skuPrefix + "-" + randomAlnum(6)
	}

	sku := base
	for i := 0; i < skuAttempts; i++ {
		exists, err := s.Store.SKUExists(ctx, sku)
		if err != nil {
			return "", err
		}
		if !exists {
			return sku, nil
		}
		sku = base + "-" + randomAlnum(4)
	}
	return "", fmt.Errorf("could not allocate a unique sku for %q after %d attempts", base, skuAttempts)
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

const alnum = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func randomAlnum(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// surfacing that through every SKU call is not worth it.
		panic(err)
	}
	for i := range buf {
		buf[i] = alnum[int(buf[i])%len(alnum)]
	}
	return string(buf)
}

func (s *Service) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, events.TopicProductEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", events.TopicProductEvents, "error", err)
	}
}
