package service

import (
	"context"

	"github.com/campushub/clubs-backend/internal/domain/entity"
)

type teamStorage interface {
	Create(ctx context.Context, team *entity.Team) (*entity.Team, error)
	Get(ctx context.Context, id string) (*entity.Team, error)
	GetByClubID(ctx context.Context, clubID string) ([]entity.Team, error)
	Update(ctx context.Context, team *entity.Team) (*entity.Team, error)
	Delete(ctx context.Context, id string) error
}

type TeamService struct {
	storage teamStorage
}

func NewTeamService(storage teamStorage) *TeamService {
	return &TeamService{
		storage: storage,
	}
}

func (s *TeamService) Create(ctx context.Context, team *entity.Team) (*entity.Team, error) {
	return s.storage.Create(ctx, team)
}

func (s *TeamService) Get(ctx context.Context, id string) (*entity.Team, error) {
	team, err := s.storage.Get(ctx, id)
	return team, notFoundOr(err, "team")
}

func (s *TeamService) GetByClubID(ctx context.Context, clubID string) ([]entity.Team, error) {
	return s.storage.GetByClubID(ctx, clubID)
}

func (s *TeamService) Update(ctx context.Context, team *entity.Team) (*entity.Team, error) {
	return s.storage.Update(ctx, team)
}

func (s *TeamService) Delete(ctx context.Context, id string) error {
	return s.storage.Delete(ctx, id)
}
