package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"github.com/campushub/clubs-backend/internal/domain/dto"
	"github.com/campushub/clubs-backend/internal/domain/entity"
	"gorm.io/gorm"
)

type clubMembershipStorage interface {
	Create(ctx context.Context, membership *entity.ClubMembership) (*entity.ClubMembership, error)
	Get(ctx context.Context, clubID, userID string) (*entity.ClubMembership, error)
	Update(ctx context.Context, membership *entity.ClubMembership) (*entity.ClubMembership, error)
	GetByClubID(ctx context.Context, clubID string) ([]entity.ClubMembership, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.ClubMembership, error)
}

type roleMembershipStorage interface {
	Create(ctx context.Context, role *entity.RoleMembership) (*entity.RoleMembership, error)
	Deactivate(ctx context.Context, id string) error
	GetManagersByClubID(ctx context.Context, clubID string) ([]dto.ClubManager, error)
}

type MembershipService struct {
	storage     clubMembershipStorage
	roleStorage roleMembershipStorage
}

func NewMembershipService(storage clubMembershipStorage, roleStorage roleMembershipStorage) *MembershipService {
	return &MembershipService{
		storage:     storage,
		roleStorage: roleStorage,
	}
}

// Join adds the user to the club, reactivating a previous membership if one
// exists. Memberships are unique per (user, club).
func (s *MembershipService) Join(ctx context.Context, clubID, userID string) (*entity.ClubMembership, error) {
	membership, err := s.storage.Get(ctx, clubID, userID)
	if err == nil {
		if membership.Status == entity.MembershipStatusActive {
			return nil, fmt.Errorf("user %s is already a member: %w", userID, errorz.ErrInvalidState)
		}
		membership.Status = entity.MembershipStatusActive
		return s.storage.Update(ctx, membership)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.storage.Create(ctx, &entity.ClubMembership{
		UserID: userID,
		ClubID: clubID,
		Status: entity.MembershipStatusActive,
	})
}

func (s *MembershipService) Leave(ctx context.Context, clubID, userID string) error {
	membership, err := s.storage.Get(ctx, clubID, userID)
	if err != nil {
		return notFoundOr(err, "membership")
	}
	if membership.Status != entity.MembershipStatusActive {
		return fmt.Errorf("membership is not active: %w", errorz.ErrInvalidState)
	}

	membership.Status = entity.MembershipStatusInactive
	_, err = s.storage.Update(ctx, membership)
	return err
}

// AssignRole grants a club-scoped role for the semester. A team is required
// for team lead roles and meaningless otherwise.
func (s *MembershipService) AssignRole(ctx context.Context, clubID, userID, semesterID string, role entity.ClubRole, teamID *string) (*entity.RoleMembership, error) {
	if role == entity.ClubRoleTeamLead && teamID == nil {
		return nil, fmt.Errorf("team lead role requires a team: %w", errorz.ErrValidation)
	}
	if role != entity.ClubRoleTeamLead && teamID != nil {
		return nil, fmt.Errorf("role %s is not team scoped: %w", role, errorz.ErrValidation)
	}

	membership, err := s.storage.Get(ctx, clubID, userID)
	if err != nil {
		return nil, notFoundOr(err, "membership")
	}
	if membership.Status != entity.MembershipStatusActive {
		return nil, fmt.Errorf("membership is not active: %w", errorz.ErrInvalidState)
	}

	return s.roleStorage.Create(ctx, &entity.RoleMembership{
		ClubMembershipID: membership.ID,
		Role:             role,
		TeamID:           teamID,
		SemesterID:       semesterID,
		IsActive:         true,
	})
}

func (s *MembershipService) RevokeRole(ctx context.Context, roleMembershipID string) error {
	return s.roleStorage.Deactivate(ctx, roleMembershipID)
}

func (s *MembershipService) GetByClubID(ctx context.Context, clubID string) ([]entity.ClubMembership, error) {
	return s.storage.GetByClubID(ctx, clubID)
}

func (s *MembershipService) GetByUserID(ctx context.Context, userID string) ([]entity.ClubMembership, error) {
	return s.storage.GetByUserID(ctx, userID)
}

func (s *MembershipService) GetManagersByClubID(ctx context.Context, clubID string) ([]dto.ClubManager, error) {
	return s.roleStorage.GetManagersByClubID(ctx, clubID)
}
