package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rachmadip/tokokita/internal/cart"
)

// CartHandler is the storefront surface: the product mirror, the cart
// mutators, and checkout.
type CartHandler struct {
	Mgr *cart.Manager
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/cart", h.getCart)
	r.Post("/cart/{productID}/increase", h.increase)
	r.Post("/cart/{productID}/decrease", h.decrease)
	r.Delete("/cart/{productID}", h.removeItem)
	r.Delete("/cart", h.clear)
	r.Post("/checkout", h.checkout)
}

func (h *CartHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Mgr.Mirror())
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Mgr.Items())
}

func (h *CartHandler) increase(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.Mgr.Increase)
}

func (h *CartHandler) decrease(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.Mgr.Decrease)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.Mgr.Remove)
}

func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, int64) error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := op(ctx, id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Mgr.Items())
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Mgr.Clear(ctx); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Mgr.Items())
}

type checkoutReq struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Mgr.Checkout(ctx, req.Name, req.Contact)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *CartHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, cart.ErrEmptyCart), errors.Is(err, cart.ErrMissingClient):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
