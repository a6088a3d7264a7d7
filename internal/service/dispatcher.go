package service

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/logger"
	"peerrent-backend/internal/push"
	"peerrent-backend/internal/realtime"
	"peerrent-backend/internal/repository"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type dispatcher struct {
	noteRepo   repository.NotificationRepository
	deviceRepo repository.DeviceTokenRepository
	hub        *realtime.Hub
	pushSender push.Sender
}

func NewDispatcher(
	noteRepo repository.NotificationRepository,
	deviceRepo repository.DeviceTokenRepository,
	hub *realtime.Hub,
	pushSender push.Sender,
) NotificationDispatcher {
	return &dispatcher{
		noteRepo:   noteRepo,
		deviceRepo: deviceRepo,
		hub:        hub,
		pushSender: pushSender,
	}
}

// Dispatch persists the notification and pushes it over the websocket and
// FCM channels. Every failure is logged and swallowed; the lifecycle
// transition that produced the event has already happened.
func (d *dispatcher) Dispatch(ctx context.Context, event domain.NotificationEvent) {
	note := &domain.Notification{
		UserID:     event.UserID,
		Kind:       event.Kind,
		Title:      event.Title,
		Message:    event.Message,
		Attributes: event.Attributes(),
	}
	if err := d.noteRepo.Create(ctx, note); err != nil {
		logger.ErrorContext(ctx, "failed to persist notification", "kind", event.Kind, "user_id", event.UserID, "error", err)
	}

	d.sendRealtime(note)
	d.sendPush(ctx, event)
}

func (d *dispatcher) sendRealtime(note *domain.Notification) {
	if d.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":         "notification",
		"notification": note,
	})
	if err != nil {
		logger.Error("failed to encode notification payload", "kind", note.Kind, "error", err)
		return
	}
	d.hub.SendToUser(note.UserID, payload)
}

func (d *dispatcher) sendPush(ctx context.Context, event domain.NotificationEvent) {
	if d.pushSender == nil {
		return
	}
	devices, err := d.deviceRepo.ListByUser(ctx, event.UserID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list device tokens", "user_id", event.UserID, "error", err)
		return
	}
	if len(devices) == 0 {
		return
	}

	tokens := make([]string, 0, len(devices))
	for _, dev := range devices {
		tokens = append(tokens, dev.Token)
	}
	msg := push.Message{
		Title: event.Title,
		Body:  event.Message,
		Data:  event.Attributes(),
	}
	if err := d.pushSender.Send(ctx, tokens, msg); err != nil {
		logger.ErrorContext(ctx, "failed to send push notification", "user_id", event.UserID, "error", err)
	}
}
