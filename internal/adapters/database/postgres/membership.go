package postgres

import (
	"context"
	"fmt"

	"github.com/campushub/clubs-backend/internal/domain/dto"
	"github.com/campushub/clubs-backend/internal/domain/entity"
	"gorm.io/gorm"
)

type ClubMembershipStorage struct {
	db *gorm.DB
}

func NewClubMembershipStorage(db *gorm.DB) *ClubMembershipStorage {
	return &ClubMembershipStorage{
		db: db,
	}
}

func (s *ClubMembershipStorage) Create(ctx context.Context, membership *entity.ClubMembership) (*entity.ClubMembership, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Check if club exists
		var clubExists int64
		if err := tx.Model(&entity.Club{}).Where("id = ?", membership.ClubID).Count(&clubExists).Error; err != nil {
			return err
		}
		if clubExists == 0 {
			return fmt.Errorf("club with id %s not found", membership.ClubID)
		}

		// Check if user exists
		var userExists int64
		if err := tx.Model(&entity.User{}).Where("id = ?", membership.UserID).Count(&userExists).Error; err != nil {
			return err
		}
		if userExists == 0 {
			return fmt.Errorf("user with id %s not found", membership.UserID)
		}

		return tx.Create(&membership).Error
	})

	return membership, err
}

func (s *ClubMembershipStorage) Get(ctx context.Context, clubID, userID string) (*entity.ClubMembership, error) {
	var membership entity.ClubMembership
	err := s.db.WithContext(ctx).Where("club_id = ? AND user_id = ?", clubID, userID).First(&membership).Error
	return &membership, err
}

func (s *ClubMembershipStorage) Update(ctx context.Context, membership *entity.ClubMembership) (*entity.ClubMembership, error) {
	err := s.db.WithContext(ctx).Save(&membership).Error
	return membership, err
}

func (s *ClubMembershipStorage) GetByClubID(ctx context.Context, clubID string) ([]entity.ClubMembership, error) {
	var memberships []entity.ClubMembership
	err := s.db.WithContext(ctx).Where("club_id = ? AND status = ?", clubID, entity.MembershipStatusActive).Find(&memberships).Error
	return memberships, err
}

func (s *ClubMembershipStorage) GetByUserID(ctx context.Context, userID string) ([]entity.ClubMembership, error) {
	var memberships []entity.ClubMembership
	err := s.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, entity.MembershipStatusActive).Find(&memberships).Error
	return memberships, err
}

type RoleMembershipStorage struct {
	db *gorm.DB
}

func NewRoleMembershipStorage(db *gorm.DB) *RoleMembershipStorage {
	return &RoleMembershipStorage{
		db: db,
	}
}

func (s *RoleMembershipStorage) Create(ctx context.Context, role *entity.RoleMembership) (*entity.RoleMembership, error) {
	err := s.db.WithContext(ctx).Create(&role).Error
	return role, err
}

func (s *RoleMembershipStorage) Deactivate(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&entity.RoleMembership{}).Where("id = ?", id).Update("is_active", false).Error
}

// CountActive counts the user's active role rows in the club for the current
// semester, optionally narrowed to specific roles and a team.
func (s *RoleMembershipStorage) CountActive(ctx context.Context, userID, clubID string, roles []entity.ClubRole, teamID *string) (int64, error) {
	query := s.db.WithContext(ctx).
		Table("role_memberships").
		Joins("JOIN club_memberships ON club_memberships.id = role_memberships.club_membership_id").
		Joins("JOIN semesters ON semesters.id = role_memberships.semester_id").
		Where("club_memberships.user_id = ? AND club_memberships.club_id = ?", userID, clubID).
		Where("club_memberships.status = ?", entity.MembershipStatusActive).
		Where("role_memberships.is_active = ? AND semesters.is_active = ?", true, true)

	if len(roles) > 0 {
		query = query.Where("role_memberships.role IN ?", roles)
	}
	if teamID != nil {
		query = query.Where("role_memberships.team_id = ?", *teamID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// GetManagersByClubID returns active president/officer role rows joined with
// their users.
func (s *RoleMembershipStorage) GetManagersByClubID(ctx context.Context, clubID string) ([]dto.ClubManager, error) {
	var result []dto.ClubManager
	err := s.db.WithContext(ctx).
		Table("role_memberships").
		Select("club_memberships.club_id, club_memberships.user_id, users.email, users.full_name, role_memberships.role, role_memberships.team_id, users.is_banned").
		Joins("JOIN club_memberships ON club_memberships.id = role_memberships.club_membership_id").
		Joins("JOIN semesters ON semesters.id = role_memberships.semester_id").
		Joins("LEFT JOIN users ON users.id = club_memberships.user_id").
		Where("club_memberships.club_id = ?", clubID).
		Where("role_memberships.role IN ?", []entity.ClubRole{entity.ClubRolePresident, entity.ClubRoleOfficer}).
		Where("role_memberships.is_active = ? AND semesters.is_active = ?", true, true).
		Scan(&result).Error
	return result, err
}
