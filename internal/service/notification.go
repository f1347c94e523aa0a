package service

import (
	"context"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/logger"
	"libraflow-backend/internal/repository"
)

// notificationListLimit caps the in-app notification feed.
const notificationListLimit = 20

type notificationService struct {
	noteRepo repository.NotificationRepository
	push     PushSender
}

// NewNotificationService wires the persisted feed and an optional push
// channel. push may be nil when no push backend is configured.
func NewNotificationService(noteRepo repository.NotificationRepository, push PushSender) NotificationService {
	return &notificationService{noteRepo: noteRepo, push: push}
}

// Notify returns nothing: a loan transition must never be rolled back or
// delayed because a notification channel is down. Failures are logged only.
func (s *notificationService) Notify(ctx context.Context, userID int32, title, message string, kind domain.NotificationKind) {
	note := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Kind:    kind,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to persist notification", "user_id", userID, "title", title, "error", err)
	}
	if s.push == nil {
		return
	}
	if err := s.push.Push(ctx, userID, title, message); err != nil {
		logger.Warn("failed to push notification", "user_id", userID, "title", title, "error", err)
	}
}

func (s *notificationService) List(ctx context.Context, userID int32) ([]domain.Notification, error) {
	return s.noteRepo.ListByUser(ctx, userID, notificationListLimit)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int32) error {
	return s.noteRepo.MarkAllRead(ctx, userID)
}
