package order

import (
	"context"
	"fmt"
	"time"

	"github.com/divaskloset/storefront/internal/domain"
	"github.com/divaskloset/storefront/internal/events"
	"github.com/divaskloset/storefront/internal/logging"
	"github.com/divaskloset/storefront/internal/models"
	"github.com/divaskloset/storefront/internal/repo"
)

type Store interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, status string, offset, limit int) (int64, []models.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

var _ Store = (*repo.GormRepo)(nil)

type Service struct {
	Store  Store
	Events events.Publisher
}

type CreateRequest struct {
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	Items         []CreateOrderItem `json:"items"`
}

type CreateOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  uint   `json:"quantity"`
}

var validStatus = map[string]bool{
	models.OrderStatusNew:       true,
	models.OrderStatusPaid:      true,
	models.OrderStatusShipped:   true,
	models.OrderStatusCancelled: true,
}

// Create snapshots product name and price into the order lines so later
// catalog edits do not rewrite order history.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", domain.ErrValidation)
	}

	var total float64
	var items []models.OrderItem
	for i := range req.Items {
		if req.Items[i].ProductID == "" {
			return nil, fmt.Errorf("%w: productId required", domain.ErrValidation)
		}
		if req.Items[i].Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", domain.ErrValidation)
		}

		prod, err := s.Store.GetProduct(ctx, req.Items[i].ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown product %s", domain.ErrValidation, req.Items[i].ProductID)
		}

		lineTotal := float64(req.Items[i].Quantity) * prod.Price
		items = append(items, models.OrderItem{
			ProductID: prod.ID,
			Name:      prod.Name,
			UnitPrice: prod.Price,
			Quantity:  req.Items[i].Quantity,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}

	order := &models.Order{
		UserID:        userID,
		Status:        models.OrderStatusNew,
		Total:         total,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         items,
	}
	if err := s.Store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, order.ID, map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  userID,
		"total":   order.Total,
	})
	return order, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.Store.GetOrder(ctx, id)
}

func (s *Service) List(ctx context.Context, status string, offset, limit int) (int64, []models.Order, error) {
	if status != "" && !validStatus[status] {
		return 0, nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return s.Store.ListOrders(ctx, status, offset, limit)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !validStatus[status] {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	order, err := s.Store.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, order.ID, map[string]any{
		"type":    "order_status_changed",
		"orderID": order.ID,
		"status":  status,
	})
	return order, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.DeleteOrder(ctx, id)
}

func (s *Service) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, events.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", events.TopicOrderEvents, "error", err)
	}
}
