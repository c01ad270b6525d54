package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sweetshop/api/internal/models"
	"github.com/sweetshop/api/internal/repo"
	"github.com/sweetshop/api/internal/transport"
	"github.com/sweetshop/api/pkg/events"
	"github.com/sweetshop/api/pkg/logging"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// CreateOrder places an order. Stock validation, order persistence and the
// decrements all commit or roll back together in the repo transaction; a
// failed order never leaves partial state behind.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_order")

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	if req.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer name required", ErrValidation)
	}

	lines := make([]repo.OrderLine, 0, len(req.Items))
	for i := range req.Items {
		if req.Items[i].Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		sweetID, err := uuid.Parse(req.Items[i].SweetID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid sweet id %q", ErrValidation, req.Items[i].SweetID)
		}
		lines = append(lines, repo.OrderLine{SweetID: sweetID, Quantity: req.Items[i].Quantity})
	}

	order, err := s.Repo.CreateOrder(ctx, req.CustomerName, lines)
	if err != nil {
		var stockErr *repo.StockError
		switch {
		case errors.As(err, &stockErr):
			l.Warn("create_order_rejected", "status", 400, "reason", "insufficient stock", "sweet", stockErr.SweetName)
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("create_order_rejected", "status", 404, "reason", "unknown sweet")
		default:
			l.Error("create_order_failed", "status", 500, "error", err)
		}
		return nil, err
	}

	s.publish(ctx, order.ID.String(), map[string]any{
		"type":       events.TypeOrderPlaced,
		"orderId":    order.ID.String(),
		"customer":   order.CustomerName,
		"totalPrice": order.TotalPrice,
		"lines":      len(order.Items),
	})

	l.Info("create_order_success", "order_id", order.ID, "total", order.TotalPrice)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

// UpdateStatus moves an order out of PLACED. Fulfilled and cancelled orders
// are terminal; cancellation does not restore stock.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status")

	if status != models.OrderStatusFulfilled && status != models.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}

	if order.Status != models.OrderStatusPlaced {
		return nil, fmt.Errorf("%w: cannot change status of a %s order", ErrValidation, order.Status)
	}

	order.Status = status
	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, order.ID.String(), map[string]any{
		"type":    events.TypeOrderStatus,
		"orderId": order.ID.String(),
		"status":  order.Status,
	})

	l.Info("update_status_success", "order_id", order.ID, "status", order.Status)
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "error", err)
	}
}
