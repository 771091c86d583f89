package postgres

import (
	"context"

	"github.com/campushub/clubs-backend/internal/domain/entity"
	"gorm.io/gorm"
)

type NewsStorage struct {
	db *gorm.DB
}

func NewNewsStorage(db *gorm.DB) *NewsStorage {
	return &NewsStorage{
		db: db,
	}
}

func (s *NewsStorage) Create(ctx context.Context, news *entity.News) (*entity.News, error) {
	err := s.db.WithContext(ctx).Create(&news).Error
	return news, err
}

func (s *NewsStorage) Get(ctx context.Context, id string) (*entity.News, error) {
	var news entity.News
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&news).Error
	return &news, err
}

func (s *NewsStorage) Update(ctx context.Context, news *entity.News) (*entity.News, error) {
	err := s.db.WithContext(ctx).Save(&news).Error
	return news, err
}

func (s *NewsStorage) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.News{}).Error
}

// SetHidden flips the visibility flag without touching the soft-delete state.
func (s *NewsStorage) SetHidden(ctx context.Context, id string, hidden bool) error {
	return s.db.WithContext(ctx).Model(&entity.News{}).Where("id = ?", id).Update("hidden", hidden).Error
}

func (s *NewsStorage) SetSpotlight(ctx context.Context, id string, spotlight bool) error {
	return s.db.WithContext(ctx).Model(&entity.News{}).Where("id = ?", id).Update("spotlight", spotlight).Error
}

// GetPublished returns visible, published news, newest first.
func (s *NewsStorage) GetPublished(ctx context.Context, limit, offset int) ([]entity.News, error) {
	var news []entity.News
	err := s.db.WithContext(ctx).
		Where("is_draft = ? AND hidden = ? AND deleted = ?", false, false, false).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&news).Error
	return news, err
}

func (s *NewsStorage) GetSpotlight(ctx context.Context) ([]entity.News, error) {
	var news []entity.News
	err := s.db.WithContext(ctx).
		Where("spotlight = ? AND is_draft = ? AND hidden = ? AND deleted = ?", true, false, false, false).
		Order("created_at DESC").
		Find(&news).Error
	return news, err
}

// GetDraftsByCreator returns unsubmitted drafts owned by the user.
func (s *NewsStorage) GetDraftsByCreator(ctx context.Context, userID string) ([]entity.News, error) {
	var news []entity.News
	err := s.db.WithContext(ctx).
		Where("created_by_id = ? AND is_draft = ? AND submitted = ? AND deleted = ?", userID, true, false, false).
		Find(&news).Error
	return news, err
}

func (s *NewsStorage) GetDraftsByClubID(ctx context.Context, clubID string) ([]entity.News, error) {
	var news []entity.News
	err := s.db.WithContext(ctx).
		Where("club_id = ? AND is_draft = ? AND submitted = ? AND deleted = ?", clubID, true, false, false).
		Find(&news).Error
	return news, err
}
