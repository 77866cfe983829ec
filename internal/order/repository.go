package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tableside/internal/common/db"
	"tableside/internal/domain"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	NextOrderSequence(ctx context.Context) (int, error)
}

type PGRepository struct {
	conn *db.Conn
}

func NewPGRepository(conn *db.Conn) *PGRepository { return &PGRepository{conn: conn} }

// NextOrderSequence returns the next position in today's order-number
// sequence.
func (r *PGRepository) NextOrderSequence(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at::date = CURRENT_DATE`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count today's orders: %w", err)
	}
	return count + 1, nil
}

// CreateOrder persists the order, its items and the first status-log
// entry in one transaction.
func (r *PGRepository) CreateOrder(ctx context.Context, o *domain.Order) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders
			(id, number, restaurant_id, table_id, status, total_amount, priority,
			 customer_name, customer_phone, notes, payment_method, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now(),now())
	`, o.ID, o.Number, o.RestaurantID, o.TableID, o.Status, o.TotalAmount, o.Priority,
		nullIfEmpty(o.CustomerName), nullIfEmpty(o.CustomerPhone), nullIfEmpty(o.Notes), nullIfEmpty(o.PaymentMethod))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price)
			VALUES ($1,$2,$3,$4)
		`, o.ID, it.MenuItemID, it.Quantity, it.Price)
		if err != nil {
			return fmt.Errorf("insert order item %s: %w", it.MenuItemID, err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1,$2,'order-service',now())
	`, o.ID, o.Status)
	if err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PGRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.conn.QueryRow(ctx, `
		SELECT id, number, restaurant_id, table_id, status, total_amount, priority,
		       COALESCE(customer_name,''), COALESCE(customer_phone,''), COALESCE(notes,''),
		       COALESCE(payment_method,''), chef_id, created_at, updated_at, completed_at
		FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &o.Number, &o.RestaurantID, &o.TableID, &o.Status, &o.TotalAmount,
		&o.Priority, &o.CustomerName, &o.CustomerPhone, &o.Notes, &o.PaymentMethod,
		&o.ChefID, &o.CreatedAt, &o.UpdatedAt, &o.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "order", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}

	rows, err := r.conn.Query(ctx, `
		SELECT menu_item_id, quantity, price FROM order_items WHERE order_id=$1 ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.MenuItemID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
