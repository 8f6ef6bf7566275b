package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion is the current on-the-wire format of a persisted cart.
// Blobs with a different version are discarded on load rather than migrated.
const SchemaVersion = 1

// LineItem is one product entry in a cart. A cart holds at most one LineItem
// per product id; repeated adds bump the quantity instead.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Picture   string          `json:"picture,omitempty"`
	Brand     string          `json:"brand,omitempty"`
}

// Cart is the ordered collection of line items for one browsing session.
// Insertion order is preserved across mutations.
type Cart struct {
	SchemaVersion int        `json:"schema_version"`
	SessionID     string     `json:"session_id"`
	Items         []LineItem `json:"items"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// New returns an empty cart for the given session.
func New(sessionID string, now time.Time) *Cart {
	return &Cart{
		SchemaVersion: SchemaVersion,
		SessionID:     sessionID,
		Items:         []LineItem{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Add puts one unit of the given product into the cart. When a line with the
// same product id already exists its quantity is incremented and its display
// fields refreshed; otherwise a new line with quantity 1 is appended.
func (c *Cart) Add(item LineItem) {
	if i := c.indexOf(item.ProductID); i >= 0 {
		c.Items[i].Quantity++
		c.Items[i].Name = item.Name
		c.Items[i].UnitPrice = item.UnitPrice
		c.Items[i].Picture = item.Picture
		c.Items[i].Brand = item.Brand
		return
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// Remove deletes the line matching productID. Removing an absent product is
// a no-op.
func (c *Cart) Remove(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// SetQuantity sets the quantity of the line matching productID. A quantity of
// zero or below removes the line. Unknown product ids are ignored.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

// Count returns the total unit count, recomputed from current state.
func (c *Cart) Count() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Total returns the monetary total, recomputed from current state.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
