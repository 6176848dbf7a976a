package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists the order and its lines in one transaction.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	// GetByIdempotencyKey returns (nil, nil) when no order carries the key.
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*Order, error)
	List(ctx context.Context, opts ListOptions) ([]Order, error)
	Count(ctx context.Context, opts ListOptions) (int64, error)
	// UpdateStatus moves id from `from` to `to`; a concurrent change of
	// the row's status surfaces as ErrStatusConflict.
	UpdateStatus(ctx context.Context, id string, from, to OrderStatus) error
	GetByPaymentRef(ctx context.Context, ref string) (*Order, error)
	SetPaymentRef(ctx context.Context, id, ref string) error
	UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, order_number, user_id, status, payment_status, subtotal,
	shipping_cost, tax, total, shipping_address, billing_address, payment_method,
	payment_ref, notes, idempotency_key, created_at, updated_at`

func (r *repository) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	shipping, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}
	billing, err := json.Marshal(o.BillingAddress)
	if err != nil {
		return fmt.Errorf("marshal billing address: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, order_number, user_id, status, payment_status, subtotal,
			shipping_cost, tax, total, shipping_address, billing_address,
			payment_method, payment_ref, notes, idempotency_key, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		o.ID, o.OrderNumber, o.UserID, o.Status, o.PaymentStatus,
		o.Subtotal.String(), o.ShippingCost.String(), o.Tax.String(), o.Total.String(),
		shipping, billing, o.PaymentMethod, o.PaymentRef, o.Notes, o.IdempotencyKey,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = o.ID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, product_name, quantity, price_at_purchase
			) VALUES ($1,$2,$3,$4,$5,$6)
		`, item.ID, item.OrderID, item.ProductID, item.ProductName,
			item.Quantity, item.PriceAtPurchase.String())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	var shipping, billing []byte
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.PaymentStatus, &o.Subtotal,
		&o.ShippingCost, &o.Tax, &o.Total, &shipping, &billing, &o.PaymentMethod,
		&o.PaymentRef, &o.Notes, &o.IdempotencyKey, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(shipping, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	if err := json.Unmarshal(billing, &o.BillingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal billing address: %w", err)
	}
	return &o, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price_at_purchase
		FROM order_items WHERE order_id = $1 ORDER BY id
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderLine
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.PriceAtPurchase); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE id = $1"

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE user_id = $1 AND idempotency_key = $2"

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, userID, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func buildOrderFilter(opts ListOptions, args *[]any) string {
	var conds []string
	if opts.UserID != nil {
		*args = append(*args, *opts.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(*args)))
	}
	if opts.Status != nil {
		*args = append(*args, *opts.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(*args)))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]Order, error) {
	var args []any
	query := "SELECT " + orderColumns + " FROM orders" + buildOrderFilter(opts, &args)
	query += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *repository) Count(ctx context.Context, opts ListOptions) (int64, error) {
	var args []any
	query := "SELECT COUNT(*) FROM orders" + buildOrderFilter(opts, &args)

	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *repository) UpdateStatus(ctx context.Context, id string, from, to OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", id,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrOrderNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *repository) GetByPaymentRef(ctx context.Context, ref string) (*Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE payment_ref = $1"

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, ref))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) SetPaymentRef(ctx context.Context, id, ref string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_ref = $2, updated_at = NOW() WHERE id = $1
	`, id, ref)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
