package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"tableside/internal/common/logger"
	"tableside/internal/common/mq"
	"tableside/internal/config"
	"tableside/internal/domain"
)

// Run consumes order status-change events from the notifications
// fanout and logs each delivery. It returns when ctx is canceled.
func Run(ctx context.Context, cfg config.Config) error {
	lg := logger.New("notification-subscriber")
	defer lg.Sync()

	mqc, err := mq.Dial(cfg.Rabbit)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer mqc.Close()
	if err := mqc.DeclareTopology(); err != nil {
		return fmt.Errorf("declare topology: %w", err)
	}

	msgs, err := mqc.Consume(mq.NotificationsQueue, "notification-subscriber", 1)
	if err != nil {
		return fmt.Errorf("consume %s: %w", mq.NotificationsQueue, err)
	}
	lg.Info("subscribed", map[string]any{"queue": mq.NotificationsQueue})

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			var msg domain.StatusChangedMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				lg.Error("bad_status_event", err, map[string]any{"correlation_id": d.CorrelationId})
				_ = d.Nack(false, false)
				continue
			}
			lg.Info("order_status_changed", map[string]any{
				"order_id":      msg.OrderID,
				"order_number":  msg.OrderNumber,
				"restaurant_id": msg.RestaurantID,
				"old_status":    msg.OldStatus,
				"new_status":    msg.NewStatus,
				"changed_by":    msg.ChangedBy,
			})
			_ = d.Ack(false)
		}
	}
}
