package validation

import (
	"errors"
	"testing"

	"tableside/internal/domain"
)

func validRequest() domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		RestaurantID: "r-1",
		TableID:      "t-4",
		Items: []domain.CreateOrderItem{
			{MenuItemID: "m-1", Quantity: 2, Price: 1200},
			{MenuItemID: "m-2", Quantity: 1, Price: 500},
		},
		TotalAmount: 2900,
	}
}

func TestCreateOrderRequestValidation(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(*domain.CreateOrderRequest)
		wantTag string
	}{
		{name: "valid", mutate: func(r *domain.CreateOrderRequest) {}},
		{
			name:    "missing restaurant",
			mutate:  func(r *domain.CreateOrderRequest) { r.RestaurantID = "" },
			wantTag: "required",
		},
		{
			name:    "missing table",
			mutate:  func(r *domain.CreateOrderRequest) { r.TableID = "" },
			wantTag: "required",
		},
		{
			name:    "no items",
			mutate:  func(r *domain.CreateOrderRequest) { r.Items = nil },
			wantTag: "required",
		},
		{
			name:    "zero quantity",
			mutate:  func(r *domain.CreateOrderRequest) { r.Items[0].Quantity = 0 },
			wantTag: "required",
		},
		{
			name:    "negative price",
			mutate:  func(r *domain.CreateOrderRequest) { r.Items[0].Price = -1 },
			wantTag: "gte",
		},
		{
			name:    "total mismatch",
			mutate:  func(r *domain.CreateOrderRequest) { r.TotalAmount = 9999 },
			wantTag: "amount_match_items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := Check(v, req)
			if tt.wantTag == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, tag := range verr.Fields {
				if tag == tt.wantTag {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected tag %q in %v", tt.wantTag, verr.Fields)
			}
		})
	}
}

func TestItemsTotalExact(t *testing.T) {
	req := validRequest()
	if got := req.ItemsTotal(); got != 2900 {
		t.Fatalf("ItemsTotal() = %d, want 2900", got)
	}
}
