package postgres

import (
	"context"
	"time"

	"github.com/campushub/clubs-backend/internal/domain/entity"
	"gorm.io/gorm"
)

type EventStorage struct {
	db *gorm.DB
}

func NewEventStorage(db *gorm.DB) *EventStorage {
	return &EventStorage{
		db: db,
	}
}

func (s *EventStorage) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	err := s.db.WithContext(ctx).Create(&event).Error
	return event, err
}

func (s *EventStorage) Get(ctx context.Context, id string) (*entity.Event, error) {
	var event entity.Event
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	return &event, err
}

func (s *EventStorage) Update(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	err := s.db.WithContext(ctx).Save(&event).Error
	return event, err
}

func (s *EventStorage) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Event{}).Error
}

// GetPublished returns non-draft events, newest first.
func (s *EventStorage) GetPublished(ctx context.Context, limit, offset int) ([]entity.Event, error) {
	var events []entity.Event
	err := s.db.WithContext(ctx).
		Where("is_draft = ?", false).
		Order("start_time DESC").
		Offset(offset).Limit(limit).
		Find(&events).Error
	return events, err
}

func (s *EventStorage) GetDraftsByClubID(ctx context.Context, clubID string) ([]entity.Event, error) {
	var events []entity.Event
	err := s.db.WithContext(ctx).Where("club_id = ? AND is_draft = ?", clubID, true).Find(&events).Error
	return events, err
}

// GetUpcoming returns published events starting between now and before.
func (s *EventStorage) GetUpcoming(ctx context.Context, before time.Time) ([]entity.Event, error) {
	var events []entity.Event
	err := s.db.WithContext(ctx).
		Where("is_draft = ? AND start_time > ? AND start_time < ?", false, time.Now(), before).
		Find(&events).Error
	return events, err
}

func (s *EventStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Event{}).Count(&count).Error
	return count, err
}
