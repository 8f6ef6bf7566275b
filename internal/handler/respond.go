package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ormolu/antiq-storefront/internal/domain/cart"
	"github.com/ormolu/antiq-storefront/internal/domain/order"
	"github.com/ormolu/antiq-storefront/internal/domain/product"
)

// errorBody is the JSON error envelope used by every endpoint.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done on failure.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Code: status, Message: message})
}

// writeInternalError logs the cause and responds with a retryable 500.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Internal error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// --- Response DTOs. Money fields are plain JSON numbers. ---

type productDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Brand       string  `json:"brand"`
	Picture     string  `json:"picture,omitempty"`
	Description string  `json:"description,omitempty"`
}

func toProductDTO(p product.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Brand:       p.Brand,
		Picture:     p.Picture,
		Description: p.Description,
	}
}

type lineItemDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Picture   string  `json:"picture,omitempty"`
	Brand     string  `json:"brand,omitempty"`
}

type cartDTO struct {
	SessionID string        `json:"sessionId"`
	Items     []lineItemDTO `json:"items"`
	Count     int           `json:"count"`
	Total     float64       `json:"total"`
}

func toCartDTO(c *cart.Cart) cartDTO {
	items := make([]lineItemDTO, len(c.Items))
	for i, it := range c.Items {
		items[i] = lineItemDTO{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.InexactFloat64(),
			Quantity:  it.Quantity,
			Picture:   it.Picture,
			Brand:     it.Brand,
		}
	}
	return cartDTO{
		SessionID: c.SessionID,
		Items:     items,
		Count:     c.Count(),
		Total:     c.Total().InexactFloat64(),
	}
}

type customerDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type orderDTO struct {
	OrderID       string        `json:"orderId"`
	CreatedAt     time.Time     `json:"createdAt"`
	Items         []lineItemDTO `json:"items"`
	Customer      customerDTO   `json:"customer"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentStatus string        `json:"paymentStatus"`
	Status        string        `json:"status"`
	Subtotal      float64       `json:"subtotal"`
	ShippingFee   float64       `json:"shippingFee"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Notes         string        `json:"notes,omitempty"`
}

func toOrderDTO(o *order.Order) orderDTO {
	items := make([]lineItemDTO, len(o.Items))
	for i, it := range o.Items {
		items[i] = lineItemDTO{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.InexactFloat64(),
			Quantity:  it.Quantity,
			Picture:   it.Picture,
		}
	}
	return orderDTO{
		OrderID:   o.OrderID,
		CreatedAt: o.CreatedAt,
		Items:     items,
		Customer: customerDTO{
			Name:    o.Customer.Name,
			Email:   o.Customer.Email,
			Phone:   o.Customer.Phone,
			Address: o.Customer.Address,
		},
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		Status:        string(o.Status),
		Subtotal:      o.Subtotal.InexactFloat64(),
		ShippingFee:   o.ShippingFee.InexactFloat64(),
		Tax:           o.Tax.InexactFloat64(),
		Total:         o.Total.InexactFloat64(),
		Notes:         o.Notes,
	}
}
