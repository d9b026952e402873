package services

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"home-services-app/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *models.Notification) error
	ListByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, recipient primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAllByRecipient(ctx context.Context, recipient primitive.ObjectID) error
}

// Pusher sends a push notification to a device token.
type Pusher interface {
	SendPushNotification(token, title, body string) error
}

// DeviceTokenSource resolves a user's registered FCM token.
type DeviceTokenSource interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Notifier is the emitter side of the notification service, consumed by the
// order and review flows. Delivery is best-effort: implementations must not
// surface failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, recipient primitive.ObjectID, title, message string, notifType models.NotificationType, relatedID *primitive.ObjectID)
}

type NotificationService struct {
	repo  NotificationRepository
	users DeviceTokenSource
	fcm   Pusher
}

// NewNotificationService creates the notification service. fcm may be nil when
// push delivery is not configured; stored notifications still work.
func NewNotificationService(repo NotificationRepository, users DeviceTokenSource, fcm Pusher) *NotificationService {
	return &NotificationService{repo: repo, users: users, fcm: fcm}
}

// Notify stores a notification for one recipient and pushes it to their device
// when possible. A zero recipient is a no-op. Failures are logged and swallowed
// so the triggering operation never fails because of a notification.
func (s *NotificationService) Notify(ctx context.Context, recipient primitive.ObjectID, title, message string, notifType models.NotificationType, relatedID *primitive.ObjectID) {
	if recipient.IsZero() {
		return
	}

	notif := &models.Notification{
		Recipient: recipient,
		Title:     title,
		Message:   message,
		Type:      notifType,
		RelatedID: relatedID,
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		log.Printf("Failed to save notification for %s: %v", recipient.Hex(), err)
		return
	}

	s.pushToDevice(ctx, recipient, title, message)
}

func (s *NotificationService) pushToDevice(ctx context.Context, recipient primitive.ObjectID, title, message string) {
	if s.fcm == nil || s.users == nil {
		return
	}

	user, err := s.users.GetByID(ctx, recipient)
	if err != nil || user.FCMToken == "" {
		return
	}

	if err := s.fcm.SendPushNotification(user.FCMToken, title, message); err != nil {
		log.Printf("Failed to push notification to %s: %v", recipient.Hex(), err)
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.ListByRecipient(ctx, recipient)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return s.repo.CountUnread(ctx, recipient)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, recipient primitive.ObjectID) error {
	return s.repo.MarkAllAsRead(ctx, recipient)
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

func (s *NotificationService) DeleteAll(ctx context.Context, recipient primitive.ObjectID) error {
	return s.repo.DeleteAllByRecipient(ctx, recipient)
}
