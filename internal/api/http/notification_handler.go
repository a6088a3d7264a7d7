package http

import (
	"net/http"

	"peerrent-backend/internal/service"
)

type notificationHandler struct {
	notifications service.NotificationService
}

func newNotificationHandler(notifications service.NotificationService) *notificationHandler {
	return &notificationHandler{notifications: notifications}
}

func (h *notificationHandler) list(w http.ResponseWriter, r *http.Request) {
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	notes, total, err := h.notifications.GetNotifications(r.Context(), userID(r), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: notes, Total: total, Page: page})
}

func (h *notificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.notifications.MarkAsRead(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type registerDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func (h *notificationHandler) registerDevice(w http.ResponseWriter, r *http.Request) {
	var req registerDeviceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	device, err := h.notifications.RegisterDevice(r.Context(), userID(r), req.Token, req.Platform)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, device)
}

func (h *notificationHandler) removeDevice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.notifications.RemoveDevice(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
