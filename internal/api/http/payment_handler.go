package http

import (
	"net/http"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/service"
)

type paymentHandler struct {
	payments service.PaymentService
}

func newPaymentHandler(payments service.PaymentService) *paymentHandler {
	return &paymentHandler{payments: payments}
}

type createPaymentRequest struct {
	RentalRequestID int32  `json:"rental_request_id"`
	Method          string `json:"method"`
}

func (h *paymentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.payments.CreatePayment(r.Context(), userID(r), req.RentalRequestID, domain.PaymentMethod(req.Method))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type confirmPaymentRequest struct {
	Status string `json:"status"`
}

func (h *paymentHandler) confirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req confirmPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := h.payments.ConfirmPayment(r.Context(), userID(r), id, domain.PaymentStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *paymentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	payment, err := h.payments.GetPayment(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *paymentHandler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoice, err := h.payments.GetInvoice(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}
