package service

import (
	"context"

	"github.com/campushub/clubs-backend/internal/domain/entity"
)

type clubStorage interface {
	Create(ctx context.Context, club *entity.Club) (*entity.Club, error)
	Get(ctx context.Context, id string) (*entity.Club, error)
	GetWithPagination(ctx context.Context, limit, offset int, order string) ([]entity.Club, error)
	Update(ctx context.Context, club *entity.Club) (*entity.Club, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ClubService struct {
	storage clubStorage
}

func NewClubService(storage clubStorage) *ClubService {
	return &ClubService{
		storage: storage,
	}
}

func (s *ClubService) Create(ctx context.Context, club *entity.Club) (*entity.Club, error) {
	return s.storage.Create(ctx, club)
}

func (s *ClubService) Get(ctx context.Context, id string) (*entity.Club, error) {
	club, err := s.storage.Get(ctx, id)
	return club, notFoundOr(err, "club")
}

func (s *ClubService) GetWithPagination(ctx context.Context, limit, offset int, order string) ([]entity.Club, error) {
	return s.storage.GetWithPagination(ctx, limit, offset, order)
}

func (s *ClubService) Update(ctx context.Context, club *entity.Club) (*entity.Club, error) {
	return s.storage.Update(ctx, club)
}

func (s *ClubService) Delete(ctx context.Context, id string) error {
	return s.storage.Delete(ctx, id)
}

func (s *ClubService) Count(ctx context.Context) (int64, error) {
	return s.storage.Count(ctx)
}
