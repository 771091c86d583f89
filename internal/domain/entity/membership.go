package entity

import (
	"time"

	"gorm.io/gorm"
)

type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusInactive MembershipStatus = "inactive"
)

// ClubRole is a club-scoped role granted through a RoleMembership.
type ClubRole string

const (
	ClubRolePresident ClubRole = "president"
	ClubRoleOfficer   ClubRole = "officer"
	ClubRoleTeamLead  ClubRole = "team_lead"
)

type Semester struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string    `gorm:"not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:false"`
}

// ClubMembership links a user to a club. Unique per (user, club).
type ClubMembership struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
	UserID    string `gorm:"not null;type:uuid;uniqueIndex:idx_member_user_club"`
	User      User
	ClubID    string `gorm:"not null;type:uuid;uniqueIndex:idx_member_user_club"`
	Club      Club
	Status    MembershipStatus `gorm:"not null;default:'active'"`
}

// RoleMembership is a time-boxed assignment of a club-scoped role to a member
// within a semester. Several can be active concurrently for different teams.
type RoleMembership struct {
	ID               string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ClubMembershipID string `gorm:"not null;type:uuid;index"`
	ClubMembership   ClubMembership
	Role             ClubRole `gorm:"not null"`
	TeamID           *string  `gorm:"type:uuid"`
	Team             *Team
	SemesterID       string `gorm:"not null;type:uuid;index"`
	Semester         Semester
	IsActive         bool `gorm:"not null;default:true"`
}
