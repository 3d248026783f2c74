package service

import (
	"context"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) Notify(ctx context.Context, staffUserID int32, title, message string, attrs map[string]string) error {
	n := &domain.Notification{
		StaffUserID: staffUserID,
		Title:       title,
		Message:     message,
		Attributes:  attrs,
	}
	return s.notificationRepo.Create(ctx, n)
}

func (s *notificationService) List(ctx context.Context, staffUserID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.notificationRepo.List(ctx, staffUserID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, staffUserID, notificationID int32) error {
	return s.notificationRepo.MarkAsRead(ctx, notificationID, staffUserID)
}
