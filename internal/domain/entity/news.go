package entity

import (
	"time"
)

type NewsType string

const (
	NewsTypeAnnouncement NewsType = "announcement"
	NewsTypeArticle      NewsType = "article"
	NewsTypeAchievement  NewsType = "achievement"
)

type News struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ClubID       *string `gorm:"type:uuid;index"` // nil means staff-global news
	Club         *Club
	TeamID       *string `gorm:"type:uuid"`
	Team         *Team
	CreatedByID  string `gorm:"not null;type:uuid"`
	CreatedBy    User
	UpdatedByID  *string `gorm:"type:uuid"`
	Title        string  `gorm:"not null"`
	Content      string  `gorm:"not null"`
	ThumbnailURL string
	Type         NewsType `gorm:"not null"`
	IsDraft      bool     `gorm:"not null;default:true"`
	// Submitted - the draft has been handed over to an approval request and
	// no longer appears in draft listings
	Submitted   bool    `gorm:"not null;default:false"`
	Hidden      bool    `gorm:"not null;default:false"`
	Spotlight   bool    `gorm:"not null;default:false"`
	Deleted     bool    `gorm:"not null;default:false"`
	DeletedByID *string `gorm:"type:uuid"`
	DeletedAt   *time.Time
}

// NewsRequest mirrors EventRequest for the news escalation path.
type NewsRequest struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NewsID      string `gorm:"not null;type:uuid;index"`
	News        News
	CreatedByID string `gorm:"not null;type:uuid"`
	CreatedBy   User
	Status      RequestStatus `gorm:"not null"`
	RequestDate time.Time     `gorm:"not null"`
}
