package http

import (
	"net/http"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/service"
)

type returnHandler struct {
	returns service.ReturnService
}

func newReturnHandler(returns service.ReturnService) *returnHandler {
	return &returnHandler{returns: returns}
}

type initiateReturnRequest struct {
	RentalRequestID int32 `json:"rental_request_id"`
}

func (h *returnHandler) initiate(w http.ResponseWriter, r *http.Request) {
	var req initiateReturnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ret, err := h.returns.Initiate(r.Context(), userID(r), req.RentalRequestID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ret)
}

func (h *returnHandler) progress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ret, err := h.returns.Progress(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

type confirmReturnRequest struct {
	Signature      string `json:"signature"`
	ConditionNotes string `json:"condition_notes"`
}

func (h *returnHandler) confirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req confirmReturnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ret, err := h.returns.Confirm(r.Context(), userID(r), id, req.Signature, req.ConditionNotes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

type damageRequest struct {
	Severity    string   `json:"severity"`
	Description string   `json:"description"`
	PhotoURLs   []string `json:"photo_urls"`
}

func (h *returnHandler) recordDamage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req damageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	assessment, err := h.returns.RecordDamage(r.Context(), userID(r), id, domain.DamageSeverity(req.Severity), req.Description, req.PhotoURLs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, assessment)
}

type returnResponse struct {
	Return     *domain.ProductReturn    `json:"return"`
	Assessment *domain.DamageAssessment `json:"assessment,omitempty"`
}

func (h *returnHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ret, assessment, err := h.returns.Get(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{Return: ret, Assessment: assessment})
}
