package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormolu/antiq-storefront/internal/domain/order"
)

func newOrderTestFixture(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func testOrder() *order.Order {
	return &order.Order{
		OrderID:   "ORD-1748779200000-abcd1234",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Items: []order.Item{
			{ProductID: "clock", Name: "Clock", UnitPrice: decimal.RequireFromString("320.00"), Quantity: 1},
		},
		Customer: order.Customer{
			Name:    "Ada",
			Email:   "ada@example.com",
			Phone:   "555-0100",
			Address: "12 Crescent Row",
		},
		PaymentMethod: order.PaymentCard,
		PaymentStatus: order.PaymentStatusPaid,
		Status:        order.StatusPending,
		Subtotal:      decimal.RequireFromString("320.00"),
		ShippingFee:   decimal.Zero,
		Tax:           decimal.RequireFromString("16.00"),
		Total:         decimal.RequireFromString("336.00"),
	}
}

func orderRows(orders ...*order.Order) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"order_id", "created_at", "items", "customer_name", "customer_email",
		"customer_phone", "customer_address", "payment_method", "payment_status",
		"status", "subtotal", "shipping_fee", "tax", "total", "notes",
	})
	for _, o := range orders {
		rows.AddRow(
			o.OrderID, o.CreatedAt, []byte(`[{"product_id":"clock","name":"Clock","unit_price":"320","quantity":1}]`),
			o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.Customer.Address,
			string(o.PaymentMethod), string(o.PaymentStatus), string(o.Status),
			o.Subtotal, o.ShippingFee, o.Tax, o.Total, o.Notes,
		)
	}
	return rows
}

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := testOrder()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.OrderID, o.CreatedAt, pgxmock.AnyArg(),
			o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.Customer.Address,
			"card", "paid", "pending",
			o.Subtotal, o.ShippingFee, o.Tax, o.Total, o.Notes).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_ExecError(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := testOrder()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.OrderID, o.CreatedAt, pgxmock.AnyArg(),
			o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.Customer.Address,
			"card", "paid", "pending",
			o.Subtotal, o.ShippingFee, o.Tax, o.Total, o.Notes).
		WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating order")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := testOrder()
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE order_id =").
		WithArgs(o.OrderID).
		WillReturnRows(orderRows(o))

	got, err := repo.GetByID(context.Background(), o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderID, got.OrderID)
	assert.Equal(t, order.PaymentCard, got.PaymentMethod)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "clock", got.Items[0].ProductID)
	assert.True(t, o.Total.Equal(got.Total))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE order_id =").
		WithArgs("ORD-missing").
		WillReturnRows(orderRows())

	_, err := repo.GetByID(context.Background(), "ORD-missing")
	require.ErrorIs(t, err, order.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_NoFilter(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY created_at DESC, seq ASC LIMIT").
		WithArgs(100).
		WillReturnRows(orderRows(testOrder()))

	got, err := repo.List(context.Background(), order.ListFilter{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_StatusAndMethodFilter(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE status = (.+) AND payment_method = (.+) ORDER BY").
		WithArgs("shipped", "card", 50).
		WillReturnRows(orderRows())

	got, err := repo.List(context.Background(), order.ListFilter{
		Status:        order.StatusShipped,
		PaymentMethod: order.PaymentCard,
		Limit:         50,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders SET status =").
		WithArgs("ORD-1", "shipped").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "ORD-1", order.StatusShipped)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders SET status =").
		WithArgs("ORD-missing", "shipped").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "ORD-missing", order.StatusShipped)
	require.ErrorIs(t, err, order.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM orders WHERE order_id =").
		WithArgs("ORD-missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "ORD-missing")
	require.ErrorIs(t, err, order.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
