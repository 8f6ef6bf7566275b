package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is the fixed tax fraction applied to the subtotal at checkout.
// It is baked into the order record and never recomputed.
var TaxRate = decimal.NewFromFloat(0.05)

// PlaceOrderRequest holds the input for placing an order. Items is the cart
// snapshot taken at checkout; callers must ensure it is non-empty before
// placing the order.
type PlaceOrderRequest struct {
	Items         []Item
	Customer      Customer
	PaymentMethod PaymentMethod
	Notes         string
}

// Service encapsulates order lifecycle business logic.
type Service struct {
	orders Repository
	now    func() time.Time
}

// NewService creates an order Service over the given repository.
func NewService(orders Repository) *Service {
	return &Service{orders: orders, now: time.Now}
}

// PlaceOrder computes order totals from the cart snapshot, derives the
// payment status from the method, generates the order identifier, persists
// the record, and returns it.
//
// Pricing: subtotal = Σ unit price × quantity, tax = 5% of subtotal,
// shipping is free, total = subtotal + shipping + tax. All arithmetic uses
// decimals rounded to 2 places.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	subtotal := decimal.Zero
	for _, it := range req.Items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		subtotal = subtotal.Add(it.UnitPrice.Mul(qty))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	shipping := decimal.Zero

	paymentStatus := PaymentStatusPending
	if req.PaymentMethod.Electronic() {
		paymentStatus = PaymentStatusPaid
	}

	now := s.now().UTC()
	items := make([]Item, len(req.Items))
	copy(items, req.Items)

	o := &Order{
		OrderID:       newOrderID(now),
		CreatedAt:     now,
		Items:         items,
		Customer:      req.Customer,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: paymentStatus,
		Status:        StatusPending,
		Subtotal:      subtotal,
		ShippingFee:   shipping,
		Tax:           tax,
		Total:         subtotal.Add(shipping).Add(tax),
		Notes:         req.Notes,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// UpdateStatus sets the status of the matching order. It returns
// ErrInvalidStatus for unknown status values and ErrNotFound when no such
// order exists. Transitions are unrestricted.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.orders.UpdateStatus(ctx, orderID, status)
}

// Cancel marks the order cancelled. Equivalent to UpdateStatus with
// StatusCancelled.
func (s *Service) Cancel(ctx context.Context, orderID string) error {
	return s.UpdateStatus(ctx, orderID, StatusCancelled)
}

// Get returns the order with the given id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// List returns stored orders newest first, narrowed by the filter and capped
// at MaxListLimit records.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Order, error) {
	if f.Limit <= 0 || f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	return s.orders.List(ctx, f)
}

// Delete removes the order permanently. Irreversible.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	return s.orders.Delete(ctx, orderID)
}

// newOrderID builds an identifier from the creation timestamp plus a random
// suffix, matching the ORD-<millis>-<suffix> convention. Collision-resistant
// for the lifetime of the order list.
func newOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), uuid.New().String()[:8])
}
