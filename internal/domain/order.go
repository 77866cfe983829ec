package domain

import "time"

// Status is the order lifecycle state, persisted as a string.
// Orders only ever move forward: pending -> preparing -> ready.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
)

var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusPreparing},
	StatusPreparing: {StatusReady},
	StatusReady:     {},
}

// CanTransitionTo reports whether s -> to is an allowed forward step.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// EstimatedWaitMinutes is the remaining wait shown to the customer.
// Unrecognized statuses fall back to 10 instead of failing.
func (s Status) EstimatedWaitMinutes() int {
	switch s {
	case StatusPending:
		return 15
	case StatusPreparing:
		return 7
	case StatusReady:
		return 0
	default:
		return 10
	}
}

// Progress is the completion fraction of the order timeline.
func (s Status) Progress() float64 {
	switch s {
	case StatusPending:
		return 1.0 / 3.0
	case StatusPreparing:
		return 2.0 / 3.0
	case StatusReady:
		return 1
	default:
		return 0
	}
}

// Step is one stage of the customer-facing order timeline.
type Step string

const (
	StepReceived  Step = "received"
	StepPreparing Step = "preparing"
	StepReady     Step = "ready"
)

// Steps lists the timeline stages in display order.
var Steps = []Step{StepReceived, StepPreparing, StepReady}

// StepComplete reports whether the given timeline step is done for
// an order currently in status s. "received" is complete as soon as
// the order exists.
func (s Status) StepComplete(step Step) bool {
	switch step {
	case StepReceived:
		return true
	case StepPreparing:
		return s == StatusPreparing || s == StatusReady
	case StepReady:
		return s == StatusReady
	default:
		return false
	}
}

// OrderItem is one ordered line. Price is the per-unit price in minor
// currency units, snapshotted at order creation.
type OrderItem struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	Price      int64  `json:"price"`
}

// Order is the persisted order record.
type Order struct {
	ID            string      `json:"id"`
	Number        string      `json:"number"`
	RestaurantID  string      `json:"restaurantId"`
	TableID       string      `json:"tableId"`
	Status        Status      `json:"status"`
	Items         []OrderItem `json:"items"`
	TotalAmount   int64       `json:"totalAmount"`
	Priority      int         `json:"priority"`
	CustomerName  string      `json:"customerName,omitempty"`
	CustomerPhone string      `json:"customerPhone,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	ChefID        *string     `json:"chefId,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	CompletedAt   *time.Time  `json:"completedAt,omitempty"`
}

// ItemsTotal sums price*quantity over the line items.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}
