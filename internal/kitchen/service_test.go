package kitchen

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tableside/internal/common/logger"
	"tableside/internal/domain"
	"tableside/internal/performance"
)

// fakeRepo drives the service with an in-memory order and performance
// record, reproducing the repository's transition checks.
type fakeRepo struct {
	order *domain.Order
	rec   domain.ChefPerformance
	list  []domain.ChefPerformance

	listRestaurant string
	listLimit      int
}

func (f *fakeRepo) StartPreparing(ctx context.Context, orderID, chefID string) (*domain.Order, error) {
	if f.order == nil || f.order.ID != orderID {
		return nil, &domain.NotFoundError{Entity: "order", ID: orderID}
	}
	if !f.order.Status.CanTransitionTo(domain.StatusPreparing) {
		return nil, &domain.ConflictError{Msg: "cannot start"}
	}
	f.order.Status = domain.StatusPreparing
	f.order.ChefID = &chefID
	return f.order, nil
}

func (f *fakeRepo) CompleteOrder(ctx context.Context, orderID, chefID string, completionSeconds int, now time.Time) (*performance.Result, *domain.Order, error) {
	if f.order == nil || f.order.ID != orderID {
		return nil, nil, &domain.NotFoundError{Entity: "order", ID: orderID}
	}
	switch f.order.Status {
	case domain.StatusPreparing:
	case domain.StatusReady:
		return nil, nil, &domain.ConflictError{Msg: "already completed"}
	default:
		return nil, nil, &domain.NotFoundError{Entity: "completable order", ID: orderID}
	}
	f.order.Status = domain.StatusReady
	res := performance.ApplyCompletion(f.rec, completionSeconds, now)
	f.rec = res.Record
	return &res, f.order, nil
}

func (f *fakeRepo) ListPerformance(ctx context.Context, restaurantID string, limit int) ([]domain.ChefPerformance, error) {
	f.listRestaurant = restaurantID
	f.listLimit = limit
	return f.list, nil
}

type capturingPublisher struct {
	exchanges []string
	bodies    [][]byte
}

func (p *capturingPublisher) PublishPersistent(ctx context.Context, exchange, key string, priority uint8, correlationID string, body []byte) error {
	p.exchanges = append(p.exchanges, exchange)
	p.bodies = append(p.bodies, body)
	return nil
}

func newTestService(repo *fakeRepo) (*Service, *capturingPublisher) {
	pub := &capturingPublisher{}
	svc := NewService(repo, pub, logger.New("test"))
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC) }
	return svc, pub
}

func pendingOrder() *domain.Order {
	return &domain.Order{
		ID:           "ord-1",
		Number:       "ORD_20260901_001",
		RestaurantID: "r-1",
		TableID:      "t-2",
		Status:       domain.StatusPending,
		TotalAmount:  1500,
	}
}

func TestStartPublishesStatusChange(t *testing.T) {
	repo := &fakeRepo{order: pendingOrder()}
	svc, pub := newTestService(repo)

	o, err := svc.Start(context.Background(), "ord-1", "chef-9")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if o.Status != domain.StatusPreparing {
		t.Fatalf("status = %s", o.Status)
	}
	if len(pub.bodies) != 1 || pub.exchanges[0] != "notifications_fanout" {
		t.Fatalf("expected one fanout event, got %v", pub.exchanges)
	}
	var msg domain.StatusChangedMessage
	if err := json.Unmarshal(pub.bodies[0], &msg); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if msg.OldStatus != domain.StatusPending || msg.NewStatus != domain.StatusPreparing {
		t.Fatalf("event transition %s -> %s", msg.OldStatus, msg.NewStatus)
	}
	if msg.ChangedBy != "chef-9" {
		t.Fatalf("changed by %q", msg.ChangedBy)
	}
}

func TestCompleteReturnsPerformance(t *testing.T) {
	o := pendingOrder()
	o.Status = domain.StatusPreparing
	repo := &fakeRepo{order: o}
	svc, pub := newTestService(repo)

	resp, err := svc.Complete(context.Background(), "ord-1",
		domain.CompleteOrderRequest{UserID: "chef-9", CompletionTime: 90})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Performance.OrdersCompleted != 1 {
		t.Fatalf("orders completed = %d", resp.Performance.OrdersCompleted)
	}
	if resp.PointsEarned != 35 {
		t.Fatalf("points earned = %d, want 35", resp.PointsEarned)
	}
	found := false
	for _, a := range resp.NewAchievements {
		if a == "speed_demon" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected speed_demon in %v", resp.NewAchievements)
	}
	if len(pub.bodies) != 1 {
		t.Fatalf("expected one status event, got %d", len(pub.bodies))
	}
}

func TestCompleteTwiceConflicts(t *testing.T) {
	o := pendingOrder()
	o.Status = domain.StatusPreparing
	repo := &fakeRepo{order: o}
	svc, _ := newTestService(repo)

	req := domain.CompleteOrderRequest{UserID: "chef-9", CompletionTime: 200}
	first, err := svc.Complete(context.Background(), "ord-1", req)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}

	_, err = svc.Complete(context.Background(), "ord-1", req)
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError on duplicate completion, got %v", err)
	}
	// the record is untouched by the rejected duplicate
	if repo.rec.OrdersCompleted != first.Performance.OrdersCompleted {
		t.Fatalf("duplicate completion double-counted: %d", repo.rec.OrdersCompleted)
	}
	if repo.rec.Points != first.Performance.Points {
		t.Fatalf("duplicate completion changed points: %d", repo.rec.Points)
	}
}

func TestCompletePendingOrderNotCompletable(t *testing.T) {
	repo := &fakeRepo{order: pendingOrder()}
	svc, _ := newTestService(repo)

	_, err := svc.Complete(context.Background(), "ord-1",
		domain.CompleteOrderRequest{UserID: "chef-9", CompletionTime: 200})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError for non-completable order, got %v", err)
	}
}

func TestCompleteRejectsBadCompletionTime(t *testing.T) {
	repo := &fakeRepo{order: pendingOrder()}
	svc, _ := newTestService(repo)

	_, err := svc.Complete(context.Background(), "ord-1",
		domain.CompleteOrderRequest{UserID: "chef-9", CompletionTime: 0})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLeaderboardDefaults(t *testing.T) {
	repo := &fakeRepo{list: []domain.ChefPerformance{
		{ChefID: "A", RestaurantID: "r-1", Points: 300, OrdersCompleted: 20},
		{ChefID: "B", RestaurantID: "r-1", Points: 300, OrdersCompleted: 25},
		{ChefID: "C", RestaurantID: "r-1", Points: 150, OrdersCompleted: 10},
	}}
	svc, _ := newTestService(repo)

	entries, err := svc.Leaderboard(context.Background(), "r-1", 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if repo.listLimit != 10 {
		t.Fatalf("limit = %d, want default 10", repo.listLimit)
	}
	if entries[0].ChefID != "B" || entries[1].ChefID != "A" || entries[2].ChefID != "C" {
		t.Fatalf("order: %s %s %s", entries[0].ChefID, entries[1].ChefID, entries[2].ChefID)
	}
	if entries[0].Rank != 1 || entries[2].Rank != 3 {
		t.Fatalf("ranks: %d %d %d", entries[0].Rank, entries[1].Rank, entries[2].Rank)
	}

	_, err = svc.Leaderboard(context.Background(), "", 5)
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for missing restaurant, got %v", err)
	}
}
