package entity

import "time"

type NotificationType string

const (
	NotificationTypeEventApproved  NotificationType = "event_approved"
	NotificationTypeEventRejected  NotificationType = "event_rejected"
	NotificationTypeNewsPublished  NotificationType = "news_published"
	NotificationTypeNewsSubmitted  NotificationType = "news_submitted"
	NotificationTypeEventSubmitted NotificationType = "event_submitted"
	NotificationTypeSystem         NotificationType = "system"
)

type NotificationPriority string

const (
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// Notification is a persisted notification row. Actor is nil when the
// triggering user is unknown or no longer exists.
type Notification struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	RecipientID string `gorm:"not null;type:uuid;index"`
	Recipient   User
	ActorID     *string `gorm:"type:uuid"`
	Actor       *User
	Title       string               `gorm:"not null"`
	Message     string               `gorm:"not null"`
	Type        NotificationType     `gorm:"not null"`
	Priority    NotificationPriority `gorm:"not null;default:'normal'"`
	IsRead      bool                 `gorm:"default:false"`
	ReadAt      *time.Time
	ActionURL   string
}
