package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/ormolu/antiq-storefront/internal/domain/order"
)

const createOrderSQL = `INSERT INTO orders
	(order_id, created_at, items, customer_name, customer_email, customer_phone,
	 customer_address, payment_method, payment_status, status,
	 subtotal, shipping_fee, tax, total, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const orderColumns = `order_id, created_at, items, customer_name, customer_email,
	customer_phone, customer_address, payment_method, payment_status, status,
	subtotal, shipping_fee, tax, total, notes`

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. The cart
// snapshot is stored as a JSONB column; the order row itself is never updated
// after creation except for its status.
type OrderRepository struct {
	db DB
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists a new order. The item snapshot is serialized to JSON for
// storage in the JSONB column.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.db.Exec(ctx, createOrderSQL,
		o.OrderID, o.CreatedAt, itemsJSON,
		o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.Customer.Address,
		string(o.PaymentMethod), string(o.PaymentStatus), string(o.Status),
		o.Subtotal, o.ShippingFee, o.Tax, o.Total, o.Notes,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.OrderID, err)
	}
	return nil
}

// GetByID returns the order with the given id, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", orderID, err)
	}
	return o, nil
}

// List returns orders newest first. Rows sharing a created_at keep their
// insertion order via the monotonic seq column. The filter's limit must be
// set by the caller.
func (r *OrderRepository) List(ctx context.Context, f order.ListFilter) ([]order.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if f.PaymentMethod != "" {
		args = append(args, string(f.PaymentMethod))
		where = append(where, "payment_method = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit)
	query += " ORDER BY created_at DESC, seq ASC LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets the status of the matching order. Returns
// order.ErrNotFound when no row was updated.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status order.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $2 WHERE order_id = $1`,
		orderID, string(status))
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes the order permanently. Returns order.ErrNotFound when no
// row was deleted.
func (r *OrderRepository) Delete(ctx context.Context, orderID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		o             order.Order
		itemsJSON     []byte
		method        string
		paymentStatus string
		status        string
	)
	err := row.Scan(
		&o.OrderID, &o.CreatedAt, &itemsJSON,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.Address,
		&method, &paymentStatus, &status,
		&o.Subtotal, &o.ShippingFee, &o.Tax, &o.Total, &o.Notes,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshaling order items: %w", err)
	}
	o.PaymentMethod = order.PaymentMethod(method)
	o.PaymentStatus = order.PaymentStatus(paymentStatus)
	o.Status = order.Status(status)
	return &o, nil
}
