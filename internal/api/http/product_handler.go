package http

import (
	"net/http"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/service"
)

type productHandler struct {
	products service.ProductService
}

func newProductHandler(products service.ProductService) *productHandler {
	return &productHandler{products: products}
}

type productRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	BaseRateCents int32  `json:"base_rate_cents"`
	Currency      string `json:"currency"`
	RateUnit      string `json:"rate_unit"`
}

func (h *productHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	product := &domain.Product{
		OwnerID:       userID(r),
		Name:          req.Name,
		Description:   req.Description,
		BaseRateCents: req.BaseRateCents,
		Currency:      req.Currency,
		RateUnit:      domain.RateUnit(req.RateUnit),
	}
	if err := h.products.AddProduct(r.Context(), product); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *productHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	product := &domain.Product{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		BaseRateCents: req.BaseRateCents,
		Currency:      req.Currency,
		RateUnit:      domain.RateUnit(req.RateUnit),
	}
	if err := h.products.UpdateProduct(r.Context(), userID(r), product); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *productHandler) list(w http.ResponseWriter, r *http.Request) {
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	var (
		products []domain.Product
		total    int32
		err      error
	)
	if r.URL.Query().Get("mine") == "true" {
		products, total, err = h.products.ListMyProducts(r.Context(), userID(r), page, pageSize)
	} else {
		products, total, err = h.products.ListProducts(r.Context(), page, pageSize)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: products, Total: total, Page: page})
}
