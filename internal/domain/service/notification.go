package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"github.com/campushub/clubs-backend/internal/domain/entity"
	"github.com/campushub/clubs-backend/pkg/logger/types"
	"gorm.io/gorm"
)

// ChannelNotifications is the realtime channel notification pushes go out on.
const ChannelNotifications = "notifications"

type notificationStorage interface {
	Create(ctx context.Context, notification *entity.Notification) (*entity.Notification, error)
	Get(ctx context.Context, id string) (*entity.Notification, error)
	GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]entity.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id string, readAt time.Time) error
	MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) error
}

type notificationUserStorage interface {
	Get(ctx context.Context, id string) (*entity.User, error)
}

// broadcaster pushes realtime envelopes to connected clients; the transport
// behind it is external to this package.
type broadcaster interface {
	BroadcastToUser(ctx context.Context, email, channel, eventType string, payload interface{}) error
	BroadcastToClub(ctx context.Context, clubID, channel, eventType string, payload interface{}) error
	BroadcastToSystemRole(ctx context.Context, role, channel, eventType string, payload interface{}) error
	BroadcastSystemWide(ctx context.Context, channel, eventType string, payload interface{}) error
}

// NotificationInput carries the user-facing content of one notification.
type NotificationInput struct {
	Title     string
	Message   string
	Type      entity.NotificationType
	Priority  entity.NotificationPriority
	ActionURL string
}

type NotificationService struct {
	logger *types.Logger

	storage     notificationStorage
	userStorage notificationUserStorage
	broadcaster broadcaster
}

func NewNotificationService(
	logger *types.Logger,
	storage notificationStorage,
	userStorage notificationUserStorage,
	broadcaster broadcaster,
) *NotificationService {
	return &NotificationService{
		logger:      logger,
		storage:     storage,
		userStorage: userStorage,
		broadcaster: broadcaster,
	}
}

// SendToUser persists one notification row and pushes exactly one realtime
// event to the recipient's channel. A missing recipient is an error; a
// missing actor is not - the notification goes out with a nil actor.
func (s *NotificationService) SendToUser(ctx context.Context, recipientID, actorID string, input NotificationInput) (*entity.Notification, error) {
	recipient, err := s.userStorage.Get(ctx, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipient %s: %w", recipientID, errorz.ErrNotFound)
		}
		return nil, err
	}

	notification := &entity.Notification{
		RecipientID: recipientID,
		ActorID:     s.resolveActor(ctx, actorID),
		Title:       input.Title,
		Message:     input.Message,
		Type:        input.Type,
		Priority:    input.Priority,
		ActionURL:   input.ActionURL,
	}
	if notification.Priority == "" {
		notification.Priority = entity.NotificationPriorityNormal
	}

	notification, err = s.storage.Create(ctx, notification)
	if err != nil {
		return nil, err
	}

	if err = s.broadcaster.BroadcastToUser(ctx, recipient.Email, ChannelNotifications, string(input.Type), notification); err != nil {
		s.logger.Errorf("failed to push notification %s to %s: %v", notification.ID, recipient.Email, err)
	}

	return notification, nil
}

// SendToUsers applies the SendToUser contract per recipient. Ids resolving to
// no user are skipped silently.
func (s *NotificationService) SendToUsers(ctx context.Context, recipientIDs []string, actorID string, input NotificationInput) error {
	var errs []error
	for _, recipientID := range recipientIDs {
		if _, err := s.SendToUser(ctx, recipientID, actorID, input); err != nil {
			if errors.Is(err, errorz.ErrNotFound) {
				continue
			}
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// resolveActor returns the actor id when the user still exists, nil otherwise.
func (s *NotificationService) resolveActor(ctx context.Context, actorID string) *string {
	if actorID == "" {
		return nil
	}
	if _, err := s.userStorage.Get(ctx, actorID); err != nil {
		return nil
	}
	return &actorID
}

func (s *NotificationService) GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]entity.Notification, error) {
	return s.storage.GetByRecipient(ctx, recipientID, limit, offset)
}

func (s *NotificationService) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return s.storage.CountUnread(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	notification, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("notification %s: %w", id, errorz.ErrNotFound)
		}
		return err
	}
	if notification.RecipientID != userID {
		return fmt.Errorf("notification %s: %w", id, errorz.ErrForbidden)
	}
	return s.storage.MarkRead(ctx, id, time.Now())
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.storage.MarkAllRead(ctx, userID, time.Now())
}
