package dto

import "github.com/campushub/clubs-backend/internal/domain/entity"

// ClubManager is a role membership row joined with its user, as returned by
// the manager listing queries.
type ClubManager struct {
	ClubID   string
	UserID   string
	Email    string
	FullName string
	Role     entity.ClubRole
	TeamID   *string
	IsBanned bool
}
