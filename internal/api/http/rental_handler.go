package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/service"
)

type rentalHandler struct {
	rentals      service.RentalService
	availability service.AvailabilityService
}

func newRentalHandler(rentals service.RentalService, availability service.AvailabilityService) *rentalHandler {
	return &rentalHandler{rentals: rentals, availability: availability}
}

type createRentalRequest struct {
	ProductID      int32  `json:"product_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	PickupLocation string `json:"pickup_location"`
	ReturnLocation string `json:"return_location"`
}

func (h *rentalHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, r, domain.NewValidationError("start_date", "must be RFC 3339 or YYYY-MM-DD"))
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, r, domain.NewValidationError("end_date", "must be RFC 3339 or YYYY-MM-DD"))
		return
	}

	rt, err := h.rentals.CreateRequest(r.Context(), userID(r), req.ProductID, start, end, req.PickupLocation, req.ReturnLocation)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *rentalHandler) approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentals.Approve)
}

func (h *rentalHandler) reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentals.Reject)
}

func (h *rentalHandler) cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentals.Cancel)
}

func (h *rentalHandler) complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentals.Complete)
}

func (h *rentalHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, requestID int32) (*domain.RentalRequest, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := op(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *rentalHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := h.rentals.Get(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *rentalHandler) list(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	status := r.URL.Query().Get("status")
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	rentals, total, err := h.rentals.List(r.Context(), userID(r), role, status, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: rentals, Total: total, Page: page})
}

func (h *rentalHandler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, err := parseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, r, domain.NewValidationError("start", "must be RFC 3339 or YYYY-MM-DD"))
		return
	}
	end, err := parseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, r, domain.NewValidationError("end", "must be RFC 3339 or YYYY-MM-DD"))
		return
	}

	avail, err := h.availability.Check(r.Context(), id, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(v)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
