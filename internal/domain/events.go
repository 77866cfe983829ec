package domain

import "time"

// OrderMessage is published to the orders topic exchange when an order
// is accepted, routed kitchen.<restaurant_id>.<priority>.
type OrderMessage struct {
	OrderID      string      `json:"order_id"`
	OrderNumber  string      `json:"order_number"`
	RestaurantID string      `json:"restaurant_id"`
	TableID      string      `json:"table_id"`
	Items        []OrderItem `json:"items"`
	TotalAmount  int64       `json:"total_amount"`
	Priority     int         `json:"priority"`
	CustomerName string      `json:"customer_name,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// StatusChangedMessage is fanned out to subscribers on every order
// status transition.
type StatusChangedMessage struct {
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	RestaurantID   string    `json:"restaurant_id"`
	OldStatus      Status    `json:"old_status"`
	NewStatus      Status    `json:"new_status"`
	ChangedBy      string    `json:"changed_by"`
	Timestamp      time.Time `json:"timestamp"`
	EstimatedReady time.Time `json:"estimated_ready"`
}
