package service

import (
	"context"

	"github.com/campushub/clubs-backend/internal/domain/entity"
)

type permissionUserStorage interface {
	Get(ctx context.Context, id string) (*entity.User, error)
}

type permissionRoleStorage interface {
	CountActive(ctx context.Context, userID, clubID string, roles []entity.ClubRole, teamID *string) (int64, error)
}

// PermissionService answers the role predicates the workflow services gate
// on. Club-scoped answers come from active role rows in the active semester.
type PermissionService struct {
	userStorage permissionUserStorage
	roleStorage permissionRoleStorage
}

func NewPermissionService(userStorage permissionUserStorage, roleStorage permissionRoleStorage) *PermissionService {
	return &PermissionService{
		userStorage: userStorage,
		roleStorage: roleStorage,
	}
}

func (s *PermissionService) IsStaff(ctx context.Context, userID string) (bool, error) {
	user, err := s.userStorage.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsStaff() && !user.IsBanned, nil
}

func (s *PermissionService) hasRole(ctx context.Context, userID, clubID string, roles []entity.ClubRole, teamID *string) (bool, error) {
	count, err := s.roleStorage.CountActive(ctx, userID, clubID, roles, teamID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PermissionService) IsClubPresident(ctx context.Context, userID, clubID string) (bool, error) {
	return s.hasRole(ctx, userID, clubID, []entity.ClubRole{entity.ClubRolePresident}, nil)
}

func (s *PermissionService) IsClubOfficer(ctx context.Context, userID, clubID string) (bool, error) {
	return s.hasRole(ctx, userID, clubID, []entity.ClubRole{entity.ClubRoleOfficer}, nil)
}

// IsClubManager reports whether the user holds any managing role in the club.
func (s *PermissionService) IsClubManager(ctx context.Context, userID, clubID string) (bool, error) {
	return s.hasRole(ctx, userID, clubID, []entity.ClubRole{entity.ClubRolePresident, entity.ClubRoleOfficer}, nil)
}

// IsLead reports whether the user leads any team of the club.
func (s *PermissionService) IsLead(ctx context.Context, userID, clubID string) (bool, error) {
	return s.hasRole(ctx, userID, clubID, []entity.ClubRole{entity.ClubRoleTeamLead}, nil)
}

// IsTeamLead reports whether the user leads this specific team.
func (s *PermissionService) IsTeamLead(ctx context.Context, userID, clubID, teamID string) (bool, error) {
	return s.hasRole(ctx, userID, clubID, []entity.ClubRole{entity.ClubRoleTeamLead}, &teamID)
}

func (s *PermissionService) CanCreateEvent(ctx context.Context, userID, clubID string) (bool, error) {
	return s.IsClubManager(ctx, userID, clubID)
}

// CanApproveAtClub - only presidents decide at the club stage.
func (s *PermissionService) CanApproveAtClub(ctx context.Context, userID, clubID string) (bool, error) {
	return s.IsClubPresident(ctx, userID, clubID)
}
