package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tableside/internal/common/logger"
	"tableside/internal/common/mq"
	"tableside/internal/domain"
)

// Publisher is the slice of the AMQP client the service needs.
type Publisher interface {
	PublishPersistent(ctx context.Context, exchange, key string, priority uint8, correlationID string, body []byte) error
}

type Service struct {
	repo Repository
	pub  Publisher
	lg   *logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, pub Publisher, lg *logger.Logger) *Service {
	return &Service{repo: repo, pub: pub, lg: lg, now: time.Now}
}

// Create accepts a validated order request, persists the order with a
// price snapshot and announces it to the kitchen.
func (s *Service) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	// The handler validates the payload; re-check the total invariant
	// here so no caller can bypass it.
	if req.ItemsTotal() != req.TotalAmount {
		return nil, domain.NewValidationError("totalAmount", "does not match sum of item prices")
	}

	seq, err := s.repo.NextOrderSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("order sequence: %w", err)
	}
	now := s.now().UTC()

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.OrderItem{MenuItemID: it.MenuItemID, Quantity: it.Quantity, Price: it.Price})
	}

	o := &domain.Order{
		ID:            uuid.NewString(),
		Number:        fmt.Sprintf("ORD_%s_%03d", now.Format("20060102"), seq),
		RestaurantID:  req.RestaurantID,
		TableID:       req.TableID,
		Status:        domain.StatusPending,
		Items:         items,
		TotalAmount:   req.TotalAmount,
		Priority:      priorityFor(req.TotalAmount),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	s.announce(ctx, o)

	s.lg.Info("order_created", map[string]any{
		"order_id": o.ID, "number": o.Number, "restaurant_id": o.RestaurantID, "total": o.TotalAmount,
	})
	return o, nil
}

// announce publishes the new-order event. The order is already
// committed; a broker hiccup is logged, not surfaced to the customer.
func (s *Service) announce(ctx context.Context, o *domain.Order) {
	msg := domain.OrderMessage{
		OrderID:      o.ID,
		OrderNumber:  o.Number,
		RestaurantID: o.RestaurantID,
		TableID:      o.TableID,
		Items:        o.Items,
		TotalAmount:  o.TotalAmount,
		Priority:     o.Priority,
		CustomerName: o.CustomerName,
		Notes:        o.Notes,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		s.lg.Error("order_event_marshal_failed", err, map[string]any{"order_id": o.ID})
		return
	}
	key := fmt.Sprintf("kitchen.%s.%d", o.RestaurantID, o.Priority)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.pub.PublishPersistent(pctx, mq.OrdersExchange, key, uint8(o.Priority), o.Number, body); err != nil {
		s.lg.Error("order_event_publish_failed", err, map[string]any{"order_id": o.ID})
	}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// priorityFor maps the order total (minor units) onto the kitchen
// queue priority.
func priorityFor(total int64) int {
	switch {
	case total >= 10000:
		return 10
	case total >= 5000:
		return 5
	default:
		return 1
	}
}
