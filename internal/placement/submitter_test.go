package placement

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableside/internal/common/logger"
	"tableside/internal/domain"
	"tableside/internal/validation"
)

// scriptedGateway fails the first failures calls, then succeeds.
type scriptedGateway struct {
	failures int
	calls    int
	err      error
	order    domain.Order
}

func (g *scriptedGateway) Submit(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	g.calls++
	if g.calls <= g.failures {
		return nil, g.err
	}
	o := g.order
	return &o, nil
}

func validRequest() domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		RestaurantID: "r-1",
		TableID:      "t-4",
		Items: []domain.CreateOrderItem{
			{MenuItemID: "m-1", Quantity: 2, Price: 450},
			{MenuItemID: "m-2", Quantity: 1, Price: 1100},
		},
		TotalAmount: 2000,
	}
}

func newTestSubmitter(gw Gateway) (*Submitter, *[]time.Duration) {
	s := NewSubmitter(gw, validation.New(), logger.New("test"))
	delays := &[]time.Duration{}
	s.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return s, delays
}

func TestPlaceSucceedsOnFifthAttempt(t *testing.T) {
	gw := &scriptedGateway{
		failures: 4,
		err:      errors.New("connection refused"),
		order:    domain.Order{ID: "ord-1", Status: domain.StatusPending},
	}
	s, delays := newTestSubmitter(gw)

	order, err := s.Place(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if order.ID != "ord-1" {
		t.Fatalf("order id = %q", order.ID)
	}
	if gw.calls != 5 {
		t.Fatalf("network calls = %d, want 5", gw.calls)
	}
	want := []int{800, 1600, 2400, 3200}
	if len(*delays) != len(want) {
		t.Fatalf("delays = %v", *delays)
	}
	for i, w := range want {
		if (*delays)[i] != time.Duration(w)*time.Millisecond {
			t.Fatalf("delay %d = %v, want %dms", i, (*delays)[i], w)
		}
	}
}

func TestPlaceExhaustsRetries(t *testing.T) {
	lastErr := errors.New("503 from upstream")
	gw := &scriptedGateway{failures: 10, err: lastErr}
	s, delays := newTestSubmitter(gw)

	_, err := s.Place(context.Background(), validRequest())
	var pe *domain.OrderPlacementError
	if !errors.As(err, &pe) {
		t.Fatalf("expected OrderPlacementError, got %v", err)
	}
	if pe.Attempts != 5 || !errors.Is(err, lastErr) {
		t.Fatalf("placement error = %+v", pe)
	}
	if gw.calls != 5 {
		t.Fatalf("network calls = %d, want 5", gw.calls)
	}
	if len(*delays) != 4 {
		t.Fatalf("no delay expected after final attempt, got %v", *delays)
	}
}

func TestPlaceRejectsInvalidPayloadLocally(t *testing.T) {
	gw := &scriptedGateway{}
	s, _ := newTestSubmitter(gw)

	tests := []struct {
		name   string
		mutate func(*domain.CreateOrderRequest)
	}{
		{"missing restaurant", func(r *domain.CreateOrderRequest) { r.RestaurantID = "" }},
		{"missing table", func(r *domain.CreateOrderRequest) { r.TableID = "" }},
		{"empty items", func(r *domain.CreateOrderRequest) { r.Items = nil }},
		{"zero quantity", func(r *domain.CreateOrderRequest) { r.Items[0].Quantity = 0 }},
		{"total mismatch", func(r *domain.CreateOrderRequest) { r.TotalAmount = 999 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := s.Place(context.Background(), req)
			if !domain.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	if gw.calls != 0 {
		t.Fatalf("validation failures must not reach the network, calls = %d", gw.calls)
	}
}

func TestPlaceTreatsMissingIDAsFailure(t *testing.T) {
	// gateway "succeeds" but the body has no id: every attempt counts
	// as failed and the budget is exhausted
	gw := &scriptedGateway{failures: 0, order: domain.Order{}}
	s, _ := newTestSubmitter(gw)

	_, err := s.Place(context.Background(), validRequest())
	var pe *domain.OrderPlacementError
	if !errors.As(err, &pe) {
		t.Fatalf("expected OrderPlacementError, got %v", err)
	}
	if !errors.Is(err, errMissingOrderID) {
		t.Fatalf("expected missing-id cause, got %v", pe.Err)
	}
	if gw.calls != 5 {
		t.Fatalf("network calls = %d, want 5", gw.calls)
	}
}

func TestPlaceAbandonedBetweenAttempts(t *testing.T) {
	gw := &scriptedGateway{failures: 10, err: errors.New("timeout")}
	s := NewSubmitter(gw, validation.New(), logger.New("test"))
	ctx, cancel := context.WithCancel(context.Background())
	s.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := s.Place(ctx, validRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if gw.calls != 1 {
		t.Fatalf("network calls = %d, want 1", gw.calls)
	}
}
