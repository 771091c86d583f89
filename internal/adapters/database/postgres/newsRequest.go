package postgres

import (
	"context"

	"github.com/campushub/clubs-backend/internal/domain/entity"
	"gorm.io/gorm"
)

type NewsRequestStorage struct {
	db *gorm.DB
}

func NewNewsRequestStorage(db *gorm.DB) *NewsRequestStorage {
	return &NewsRequestStorage{
		db: db,
	}
}

func (s *NewsRequestStorage) Create(ctx context.Context, request *entity.NewsRequest) (*entity.NewsRequest, error) {
	err := s.db.WithContext(ctx).Create(&request).Error
	return request, err
}

func (s *NewsRequestStorage) Get(ctx context.Context, id string) (*entity.NewsRequest, error) {
	var request entity.NewsRequest
	err := s.db.WithContext(ctx).Preload("News").Where("id = ?", id).First(&request).Error
	return &request, err
}

func (s *NewsRequestStorage) GetByStatus(ctx context.Context, status entity.RequestStatus) ([]entity.NewsRequest, error) {
	var requests []entity.NewsRequest
	err := s.db.WithContext(ctx).Preload("News").Where("status = ?", status).Find(&requests).Error
	return requests, err
}

// CountPending counts the news item's in-flight requests. At most one may
// exist.
func (s *NewsRequestStorage) CountPending(ctx context.Context, newsID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entity.NewsRequest{}).
		Where("news_id = ? AND status IN ?", newsID, []entity.RequestStatus{
			entity.StatusPendingClub,
			entity.StatusPendingUniversity,
		}).
		Count(&count).Error
	return count, err
}

// UpdateStatus moves the request from one status to another, conditional on
// the row still holding the expected status. See EventRequestStorage.
func (s *NewsRequestStorage) UpdateStatus(ctx context.Context, id string, from, to entity.RequestStatus) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&entity.NewsRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected == 1, result.Error
}
