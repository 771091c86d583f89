package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Club struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt
	Name        string `gorm:"not null;unique"`
	Description string
	Link        string
	AvatarURL   string
	// AllowedEventTypes - event types this club is allowed to request
	AllowedEventTypes pq.StringArray `gorm:"type:text[]"`
}

// AllowsEventType reports whether the club may request events of this type.
// An empty list allows every type.
func (c *Club) AllowsEventType(eventType EventType) bool {
	if len(c.AllowedEventTypes) == 0 {
		return true
	}
	for _, allowed := range c.AllowedEventTypes {
		if allowed == string(eventType) {
			return true
		}
	}
	return false
}

type Team struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt
	ClubID      string `gorm:"not null;type:uuid;index"`
	Club        Club
	Name        string `gorm:"not null"`
	Description string
}
