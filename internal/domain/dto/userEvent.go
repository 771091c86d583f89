package dto

import (
	"time"

	"github.com/campushub/clubs-backend/internal/domain/entity"
)

// UserEvent is an event row annotated with the user's attendance status.
type UserEvent struct {
	ID        string
	ClubID    *string
	Title     string
	Location  string
	StartTime time.Time
	EndTime   time.Time
	Type      entity.EventType
	Status    entity.AttendanceStatus
}
