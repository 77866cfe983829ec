package kitchen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tableside/internal/common/db"
	"tableside/internal/domain"
	"tableside/internal/performance"
)

type Repository interface {
	StartPreparing(ctx context.Context, orderID, chefID string) (*domain.Order, error)
	CompleteOrder(ctx context.Context, orderID, chefID string, completionSeconds int, now time.Time) (*performance.Result, *domain.Order, error)
	ListPerformance(ctx context.Context, restaurantID string, limit int) ([]domain.ChefPerformance, error)
}

type PGRepository struct {
	conn *db.Conn
}

func NewPGRepository(conn *db.Conn) *PGRepository { return &PGRepository{conn: conn} }

// StartPreparing moves an order pending -> preparing and records the
// chef taking it. The order row is locked for the duration of the
// transaction.
func (r *PGRepository) StartPreparing(ctx context.Context, orderID, chefID string) (*domain.Order, error) {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(domain.StatusPreparing) {
		return nil, &domain.ConflictError{
			Msg: fmt.Sprintf("order %s cannot move %s -> preparing", orderID, o.Status),
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status=$2, chef_id=$3, updated_at=now() WHERE id=$1
	`, orderID, domain.StatusPreparing, chefID)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if err := appendStatusLog(ctx, tx, orderID, domain.StatusPreparing, chefID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	o.Status = domain.StatusPreparing
	o.ChefID = &chefID
	return o, nil
}

// CompleteOrder moves an order preparing -> ready and applies the
// completion to the chef's performance record in the same transaction.
// Both rows are locked, so concurrent completions for one chef are
// serialized and a duplicate completion cannot double-count.
func (r *PGRepository) CompleteOrder(ctx context.Context, orderID, chefID string, completionSeconds int, now time.Time) (*performance.Result, *domain.Order, error) {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return nil, nil, err
	}
	switch o.Status {
	case domain.StatusPreparing:
		// completable
	case domain.StatusReady:
		return nil, nil, &domain.ConflictError{Msg: fmt.Sprintf("order %s is already completed", orderID)}
	default:
		return nil, nil, &domain.NotFoundError{Entity: "completable order", ID: orderID}
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status=$2, chef_id=$3, completed_at=now(), updated_at=now() WHERE id=$1
	`, orderID, domain.StatusReady, chefID)
	if err != nil {
		return nil, nil, fmt.Errorf("update order: %w", err)
	}
	if err := appendStatusLog(ctx, tx, orderID, domain.StatusReady, chefID); err != nil {
		return nil, nil, err
	}

	rec, err := lockPerformance(ctx, tx, chefID, o.RestaurantID)
	if err != nil {
		return nil, nil, err
	}
	res := performance.ApplyCompletion(rec, completionSeconds, now)

	_, err = tx.Exec(ctx, `
		UPDATE chef_performance SET
			orders_completed=$3,
			avg_completion_seconds=$4,
			fastest_completion_seconds=$5,
			streak_days=$6,
			points=$7,
			level=$8,
			achievements=$9,
			last_active_date=$10
		WHERE chef_id=$1 AND restaurant_id=$2
	`, chefID, o.RestaurantID,
		res.Record.OrdersCompleted,
		res.Record.AvgCompletionSeconds,
		res.Record.FastestCompletionSeconds,
		res.Record.StreakDays,
		res.Record.Points,
		res.Record.Level,
		res.Record.Achievements,
		res.Record.LastActiveDate)
	if err != nil {
		return nil, nil, fmt.Errorf("update chef performance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	completed := now
	o.Status = domain.StatusReady
	o.ChefID = &chefID
	o.CompletedAt = &completed
	return &res, o, nil
}

func (r *PGRepository) ListPerformance(ctx context.Context, restaurantID string, limit int) ([]domain.ChefPerformance, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT chef_id, restaurant_id, orders_completed, avg_completion_seconds,
		       fastest_completion_seconds, streak_days, points, level, achievements, last_active_date
		FROM chef_performance
		WHERE restaurant_id=$1
		ORDER BY points DESC, orders_completed DESC, chef_id ASC
		LIMIT $2
	`, restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	defer rows.Close()

	var out []domain.ChefPerformance
	for rows.Next() {
		var rec domain.ChefPerformance
		if err := rows.Scan(&rec.ChefID, &rec.RestaurantID, &rec.OrdersCompleted,
			&rec.AvgCompletionSeconds, &rec.FastestCompletionSeconds, &rec.StreakDays,
			&rec.Points, &rec.Level, &rec.Achievements, &rec.LastActiveDate); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// lockOrder selects the order row FOR UPDATE.
func lockOrder(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Order, error) {
	var o domain.Order
	err := tx.QueryRow(ctx, `
		SELECT id, number, restaurant_id, table_id, status, total_amount, priority, created_at, updated_at
		FROM orders WHERE id=$1 FOR UPDATE
	`, orderID).Scan(&o.ID, &o.Number, &o.RestaurantID, &o.TableID, &o.Status,
		&o.TotalAmount, &o.Priority, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "order", ID: orderID}
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	return &o, nil
}

// lockPerformance loads the chef's record FOR UPDATE, creating the
// zero-initialized row on first completion.
func lockPerformance(ctx context.Context, tx pgx.Tx, chefID, restaurantID string) (domain.ChefPerformance, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO chef_performance (chef_id, restaurant_id)
		VALUES ($1,$2) ON CONFLICT (chef_id, restaurant_id) DO NOTHING
	`, chefID, restaurantID)
	if err != nil {
		return domain.ChefPerformance{}, fmt.Errorf("init chef performance: %w", err)
	}

	var rec domain.ChefPerformance
	err = tx.QueryRow(ctx, `
		SELECT chef_id, restaurant_id, orders_completed, avg_completion_seconds,
		       fastest_completion_seconds, streak_days, points, level, achievements, last_active_date
		FROM chef_performance WHERE chef_id=$1 AND restaurant_id=$2 FOR UPDATE
	`, chefID, restaurantID).Scan(&rec.ChefID, &rec.RestaurantID, &rec.OrdersCompleted,
		&rec.AvgCompletionSeconds, &rec.FastestCompletionSeconds, &rec.StreakDays,
		&rec.Points, &rec.Level, &rec.Achievements, &rec.LastActiveDate)
	if err != nil {
		return domain.ChefPerformance{}, fmt.Errorf("select chef performance: %w", err)
	}
	return rec, nil
}

func appendStatusLog(ctx context.Context, tx pgx.Tx, orderID string, status domain.Status, changedBy string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1,$2,$3,now())
	`, orderID, status, changedBy)
	if err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}
	return nil
}
