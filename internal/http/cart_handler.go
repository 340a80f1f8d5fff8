package http

import (
	"context"
	"net/http"

	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartEngine interface {
	GetCart(ctx context.Context, userID string) (*domain.CartView, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartView, error)
	UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CartView, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.CartView, error)
	ClearCart(ctx context.Context, userID string) (*domain.CartView, error)
}

type CartHandler struct {
	base
	cart CartEngine
}

func NewCartHandler(cart CartEngine, opts Options) *CartHandler {
	return &CartHandler{base: newBase(opts), cart: cart}
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId" validate:"required,mongodb"`
	Quantity  *int   `json:"quantity" validate:"required,min=1"`
}

// UpdateQuantityRequestDTO rejects zero: removals go through DELETE.
type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity" validate:"required,min=1"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()

	cart, err := h.cart.GetCart(ctx, user.ID)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	cart, err := h.cart.AddItem(ctx, user.ID, req.ProductID, *req.Quantity)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	cart, err := h.cart.UpdateItemQuantity(ctx, user.ID, productID, *req.Quantity)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	cart, err := h.cart.RemoveItem(ctx, user.ID, productID)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()

	cart, err := h.cart.ClearCart(ctx, user.ID)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func requireUser(w http.ResponseWriter, r *http.Request) (AuthUser, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
	}
	return user, ok
}

func productIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	productID := chi.URLParam(r, "productId")
	if err := validate.Var(productID, "required,mongodb"); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "invalid product id",
			Code:   "validation_error",
			Fields: map[string]string{"productId": "must be a valid id"},
		})
		return "", false
	}
	return productID, true
}
