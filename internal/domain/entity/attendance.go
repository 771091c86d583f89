package entity

import "time"

type AttendanceStatus string

const (
	AttendanceStatusRegistered AttendanceStatus = "REGISTERED"
	AttendanceStatusPresent    AttendanceStatus = "PRESENT"
	AttendanceStatusAbsent     AttendanceStatus = "ABSENT"
	AttendanceStatusLate       AttendanceStatus = "LATE"
)

// Attendance tracks one user's registration for one event. REGISTERED is the
// initial state only; marking flips it to one of the outcome statuses.
type Attendance struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time
	UpdatedAt time.Time
	EventID   string `gorm:"not null;type:uuid;uniqueIndex:idx_attendance_event_user"`
	Event     Event
	UserID    string `gorm:"not null;type:uuid;uniqueIndex:idx_attendance_event_user"`
	User      User
	Status    AttendanceStatus `gorm:"not null;default:'REGISTERED'"`
	MarkedAt  *time.Time
}
