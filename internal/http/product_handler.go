package http

import (
	"context"
	"net/http"

	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"github.com/go-chi/chi/v5"
)

type Catalog interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type ProductHandler struct {
	base
	catalog Catalog
}

func NewProductHandler(catalog Catalog, opts Options) *ProductHandler {
	return &ProductHandler{base: newBase(opts), catalog: catalog}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	product, err := h.catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}
