package service

import (
	"context"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"
)

type notificationService struct {
	noteRepo   repository.NotificationRepository
	deviceRepo repository.DeviceTokenRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository, deviceRepo repository.DeviceTokenRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo, deviceRepo: deviceRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

func (s *notificationService) RegisterDevice(ctx context.Context, userID int32, token, platform string) (*domain.DeviceToken, error) {
	if token == "" {
		return nil, domain.NewValidationError("token", "is required")
	}
	device := &domain.DeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	}
	if err := s.deviceRepo.Create(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

func (s *notificationService) RemoveDevice(ctx context.Context, userID, deviceID int32) error {
	return s.deviceRepo.Delete(ctx, deviceID, userID)
}
