package domain

// CreateOrderItem is one requested line item.
type CreateOrderItem struct {
	MenuItemID string `json:"menuItemId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	Price      int64  `json:"price" validate:"gte=0"`
}

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	RestaurantID  string            `json:"restaurantId" validate:"required"`
	TableID       string            `json:"tableId" validate:"required"`
	Items         []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
	TotalAmount   int64             `json:"totalAmount" validate:"gte=0"`
	CustomerName  string            `json:"customerName,omitempty"`
	CustomerPhone string            `json:"customerPhone,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
}

// ItemsTotal sums price*quantity over the requested items.
func (r *CreateOrderRequest) ItemsTotal() int64 {
	var total int64
	for _, it := range r.Items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

// StartOrderRequest is the payload for POST /kitchen/orders/{id}/start.
type StartOrderRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// CompleteOrderRequest is the payload for POST /kitchen/orders/{id}/complete.
// CompletionTime is the elapsed seconds from acceptance to ready.
type CompleteOrderRequest struct {
	UserID         string `json:"userId" validate:"required"`
	CompletionTime int    `json:"completionTime" validate:"required,gt=0"`
}

// StepState is one timeline entry in the order tracking view.
type StepState struct {
	Step     Step `json:"step"`
	Complete bool `json:"complete"`
}

// OrderView is the customer-facing tracking representation of an order.
type OrderView struct {
	Order
	Progress             float64     `json:"progress"`
	EstimatedWaitMinutes int         `json:"estimatedWaitMinutes"`
	Steps                []StepState `json:"steps"`
}

// NewOrderView derives the display fields from the order's status.
func NewOrderView(o Order) OrderView {
	steps := make([]StepState, 0, len(Steps))
	for _, st := range Steps {
		steps = append(steps, StepState{Step: st, Complete: o.Status.StepComplete(st)})
	}
	return OrderView{
		Order:                o,
		Progress:             o.Status.Progress(),
		EstimatedWaitMinutes: o.Status.EstimatedWaitMinutes(),
		Steps:                steps,
	}
}

// CompleteOrderResponse is returned to the kitchen UI after a completion.
type CompleteOrderResponse struct {
	Performance     ChefPerformance `json:"performance"`
	PointsEarned    int             `json:"pointsEarned"`
	NewAchievements []string        `json:"newAchievements"`
}

// LeaderboardEntry is one ranked row of the restaurant leaderboard.
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	ChefPerformance
}
