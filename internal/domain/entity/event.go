package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type EventType string

const (
	EventTypeMeeting     EventType = "meeting"
	EventTypeWorkshop    EventType = "workshop"
	EventTypeSocial      EventType = "social"
	EventTypeLecture     EventType = "lecture"
	EventTypeCompetition EventType = "competition"
)

// RequestStatus tracks an approval ticket through the club -> university
// escalation. Club approval forwards the ticket to PENDING_UNIVERSITY;
// both rejected statuses are terminal.
type RequestStatus string

const (
	StatusPendingClub        RequestStatus = "PENDING_CLUB"
	StatusPendingUniversity  RequestStatus = "PENDING_UNIVERSITY"
	StatusApprovedUniversity RequestStatus = "APPROVED_UNIVERSITY"
	StatusRejectedClub       RequestStatus = "REJECTED_CLUB"
	StatusRejectedUniversity RequestStatus = "REJECTED_UNIVERSITY"
)

func (s RequestStatus) Terminal() bool {
	return s == StatusApprovedUniversity || s == StatusRejectedClub || s == StatusRejectedUniversity
}

type Event struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt
	ClubID       *string `gorm:"type:uuid;index"` // nil means staff-global event
	Club         *Club
	CreatedByID  string `gorm:"not null;type:uuid"`
	CreatedBy    User
	Title        string    `gorm:"not null"`
	Description  string    `gorm:"not null"`
	Location     string    `gorm:"not null"`
	StartTime    time.Time `gorm:"not null"`
	EndTime      time.Time
	Type         EventType `gorm:"not null"`
	IsDraft      bool      `gorm:"not null;default:true"`
	CancelReason string
	// AllowedRoles - system roles allowed to register; empty means everyone
	AllowedRoles pq.StringArray `gorm:"type:text[]"`
}

// Started reports whether the event has started, considering the additional
// time. A negative additionalTime treats the event as started that much
// earlier; a positive one grants a grace period after the nominal start.
func (e *Event) Started(additionalTime time.Duration) bool {
	return e.StartTime.Add(additionalTime).Before(time.Now())
}

// RoleAllowed reports whether accounts with the system role may register.
func (e *Event) RoleAllowed(role SystemRole) bool {
	if len(e.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range e.AllowedRoles {
		if allowed == string(role) {
			return true
		}
	}
	return false
}

// EventRequest is the approval ticket for a drafted event. An event has at
// most one request in flight at a time.
type EventRequest struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	EventID     string `gorm:"not null;type:uuid;index"`
	Event       Event
	CreatedByID string `gorm:"not null;type:uuid"`
	CreatedBy   User
	Status      RequestStatus `gorm:"not null"`
	RequestDate time.Time     `gorm:"not null"`
}
