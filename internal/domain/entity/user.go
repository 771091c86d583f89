package entity

import (
	"time"

	"gorm.io/gorm"
)

type SystemRole string

const (
	SystemRoleStaff   SystemRole = "staff"
	SystemRoleStudent SystemRole = "student"
)

type User struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
	Email     string     `gorm:"not null;unique"`
	FullName  string     `gorm:"not null"`
	Role      SystemRole `gorm:"not null;default:'student'"`
	IsBanned  bool       `gorm:"default:false"`
}

func (u *User) IsStaff() bool {
	return u.Role == SystemRoleStaff
}
