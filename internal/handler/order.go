package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ormolu/antiq-storefront/internal/domain/order"
)

// checkoutRequest is the body for placing an order from the session's cart.
type checkoutRequest struct {
	Customer      customerDTO `json:"customer"`
	PaymentMethod string      `json:"paymentMethod"`
	Notes         string      `json:"notes"`
}

func (req *checkoutRequest) validate() string {
	switch {
	case req.Customer.Name == "":
		return "customer name is required"
	case req.Customer.Email == "":
		return "customer email is required"
	case req.Customer.Phone == "":
		return "customer phone is required"
	case req.Customer.Address == "":
		return "customer address is required"
	case !order.PaymentMethod(req.PaymentMethod).Valid():
		return "unknown payment method"
	}
	return ""
}

// Checkout snapshots the session's cart into a new order, then clears the
// cart. The two stores are not linked by a transaction: a crash between the
// order insert and the cart delete leaves the cart populated, which the
// customer resolves by clearing it.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	sid := sessionID(r)
	c, err := h.carts.Get(r.Context(), sid)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if len(c.Items) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	items := make([]order.Item, len(c.Items))
	for i, it := range c.Items {
		items[i] = order.Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Picture:   it.Picture,
		}
	}

	o, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		Items: items,
		Customer: order.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
		},
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	})
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	if err := h.carts.Clear(r.Context(), sid); err != nil {
		// The order exists; losing the cart clear only leaves stale items.
		zctx.From(r.Context()).Warn("Failed to clear cart after checkout",
			zap.String("session_id", sid),
			zap.String("order_id", o.OrderID),
			zap.Error(err),
		)
	}

	writeJSON(w, http.StatusCreated, toOrderDTO(o))
}

// GetOrder returns one order by its public identifier.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

// CancelOrder marks an order cancelled.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if err := h.orders.Cancel(r.Context(), orderID); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}

	o, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}
