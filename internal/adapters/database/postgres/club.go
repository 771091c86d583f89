package postgres

import (
	"context"

	"github.com/campushub/clubs-backend/internal/domain/entity"
	"gorm.io/gorm"
)

type ClubStorage struct {
	db *gorm.DB
}

func NewClubStorage(db *gorm.DB) *ClubStorage {
	return &ClubStorage{
		db: db,
	}
}

func (s *ClubStorage) Create(ctx context.Context, club *entity.Club) (*entity.Club, error) {
	err := s.db.WithContext(ctx).Create(&club).Error
	return club, err
}

func (s *ClubStorage) Get(ctx context.Context, id string) (*entity.Club, error) {
	var club entity.Club
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&club).Error
	return &club, err
}

func (s *ClubStorage) GetWithPagination(ctx context.Context, limit, offset int, order string) ([]entity.Club, error) {
	var clubs []entity.Club
	err := s.db.WithContext(ctx).Order(order).Offset(offset).Limit(limit).Find(&clubs).Error
	return clubs, err
}

func (s *ClubStorage) Update(ctx context.Context, club *entity.Club) (*entity.Club, error) {
	err := s.db.WithContext(ctx).Save(&club).Error
	return club, err
}

func (s *ClubStorage) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Club{}).Error
}

func (s *ClubStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Club{}).Count(&count).Error
	return count, err
}

type TeamStorage struct {
	db *gorm.DB
}

func NewTeamStorage(db *gorm.DB) *TeamStorage {
	return &TeamStorage{
		db: db,
	}
}

func (s *TeamStorage) Create(ctx context.Context, team *entity.Team) (*entity.Team, error) {
	err := s.db.WithContext(ctx).Create(&team).Error
	return team, err
}

func (s *TeamStorage) Get(ctx context.Context, id string) (*entity.Team, error) {
	var team entity.Team
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&team).Error
	return &team, err
}

func (s *TeamStorage) GetByClubID(ctx context.Context, clubID string) ([]entity.Team, error) {
	var teams []entity.Team
	err := s.db.WithContext(ctx).Where("club_id = ?", clubID).Find(&teams).Error
	return teams, err
}

func (s *TeamStorage) Update(ctx context.Context, team *entity.Team) (*entity.Team, error) {
	err := s.db.WithContext(ctx).Save(&team).Error
	return team, err
}

func (s *TeamStorage) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Team{}).Error
}
