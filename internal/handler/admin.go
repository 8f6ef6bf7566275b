package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/ormolu/antiq-storefront/internal/domain/order"
)

// AdminListOrders returns orders newest first, optionally filtered by
// status and payment method. An empty or "all" filter value matches
// everything.
func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	var filter order.ListFilter

	if v := r.URL.Query().Get("status"); v != "" && v != "all" {
		s := order.Status(v)
		if !s.Valid() {
			writeError(w, http.StatusBadRequest, "unknown status filter")
			return
		}
		filter.Status = s
	}
	if v := r.URL.Query().Get("paymentMethod"); v != "" && v != "all" {
		m := order.PaymentMethod(v)
		if !m.Valid() {
			writeError(w, http.StatusBadRequest, "unknown payment method filter")
			return
		}
		filter.PaymentMethod = m
	}

	orders, err := h.orders.List(r.Context(), filter)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	dtos := make([]orderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = toOrderDTO(&o)
	}
	writeJSON(w, http.StatusOK, dtos)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// AdminUpdateStatus sets an order's fulfilment status.
func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	orderID := chi.URLParam(r, "orderID")
	err := h.orders.UpdateStatus(r.Context(), orderID, order.Status(req.Status))
	switch {
	case errors.Is(err, order.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
		return
	case err != nil:
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

// AdminDeleteOrder removes an order permanently.
func (h *Handler) AdminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	err := h.orders.Delete(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
