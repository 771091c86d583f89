package postgres

import (
	"context"

	"github.com/campushub/clubs-backend/internal/domain/entity"
	"gorm.io/gorm"
)

type EventRequestStorage struct {
	db *gorm.DB
}

func NewEventRequestStorage(db *gorm.DB) *EventRequestStorage {
	return &EventRequestStorage{
		db: db,
	}
}

func (s *EventRequestStorage) Create(ctx context.Context, request *entity.EventRequest) (*entity.EventRequest, error) {
	err := s.db.WithContext(ctx).Create(&request).Error
	return request, err
}

func (s *EventRequestStorage) Get(ctx context.Context, id string) (*entity.EventRequest, error) {
	var request entity.EventRequest
	err := s.db.WithContext(ctx).Preload("Event").Where("id = ?", id).First(&request).Error
	return &request, err
}

func (s *EventRequestStorage) GetByStatus(ctx context.Context, status entity.RequestStatus) ([]entity.EventRequest, error) {
	var requests []entity.EventRequest
	err := s.db.WithContext(ctx).Preload("Event").Where("status = ?", status).Find(&requests).Error
	return requests, err
}

// CountPending counts the event's in-flight requests. At most one may exist.
func (s *EventRequestStorage) CountPending(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entity.EventRequest{}).
		Where("event_id = ? AND status IN ?", eventID, []entity.RequestStatus{
			entity.StatusPendingClub,
			entity.StatusPendingUniversity,
		}).
		Count(&count).Error
	return count, err
}

// UpdateStatus moves the request from one status to another. The update is
// conditional on the row still holding the expected status, so two approvers
// racing on the same request cannot both win; the loser sees zero rows
// affected.
func (s *EventRequestStorage) UpdateStatus(ctx context.Context, id string, from, to entity.RequestStatus) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&entity.EventRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected == 1, result.Error
}
