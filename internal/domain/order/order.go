package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the fulfilment state of an order. Any status may follow any
// other: the storefront deliberately does not enforce a transition graph,
// Cancelled and Delivered are terminal only by convention.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentMethod identifies how the customer pays for an order.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentMobileWallet   PaymentMethod = "mobile_wallet"
	PaymentCard           PaymentMethod = "card"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCashOnDelivery, PaymentMobileWallet, PaymentCard:
		return true
	}
	return false
}

// Electronic reports whether the method settles at checkout time. Electronic
// payments are marked paid on creation; cash on delivery stays pending.
func (m PaymentMethod) Electronic() bool {
	return m == PaymentMobileWallet || m == PaymentCard
}

// PaymentStatus is the settlement state of an order's payment. It is derived
// from the payment method at creation time and never recomputed.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Sentinel errors for order lookups and mutations.
var (
	ErrNotFound      = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

// Item is one line of the immutable cart snapshot taken at checkout.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Picture   string          `json:"picture,omitempty"`
}

// Customer holds the shipping and contact details captured at checkout.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Order is an immutable-after-creation snapshot of a completed checkout.
// Status is the only field mutated post-creation.
type Order struct {
	OrderID       string
	CreatedAt     time.Time
	Items         []Item
	Customer      Customer
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Status        Status
	Subtotal      decimal.Decimal
	ShippingFee   decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Notes         string
}

// ListFilter narrows a List call. Zero values mean "no constraint"; Limit is
// capped at MaxListLimit.
type ListFilter struct {
	Status        Status
	PaymentMethod PaymentMethod
	Limit         int
}

// MaxListLimit caps the number of orders returned by a single List call.
const MaxListLimit = 100

// Repository defines persistence operations for orders. List returns records
// newest first by creation time, ties broken by insertion order.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context, f ListFilter) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
	Delete(ctx context.Context, orderID string) error
}
