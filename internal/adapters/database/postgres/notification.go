package postgres

import (
	"context"
	"time"

	"github.com/campushub/clubs-backend/internal/domain/entity"
	"gorm.io/gorm"
)

type NotificationStorage struct {
	db *gorm.DB
}

func NewNotificationStorage(db *gorm.DB) *NotificationStorage {
	return &NotificationStorage{
		db: db,
	}
}

func (s *NotificationStorage) Create(ctx context.Context, notification *entity.Notification) (*entity.Notification, error) {
	err := s.db.WithContext(ctx).Create(&notification).Error
	return notification, err
}

func (s *NotificationStorage) Get(ctx context.Context, id string) (*entity.Notification, error) {
	var notification entity.Notification
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	return &notification, err
}

func (s *NotificationStorage) GetByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationStorage) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (s *NotificationStorage) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_read": true, "read_at": readAt}).Error
}

func (s *NotificationStorage) MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": readAt}).Error
}
