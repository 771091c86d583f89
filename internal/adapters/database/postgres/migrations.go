package postgres

import "github.com/campushub/clubs-backend/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.User{},
	&entity.Club{},
	&entity.Team{},
	&entity.Semester{},
	&entity.ClubMembership{},
	&entity.RoleMembership{},
	&entity.Event{},
	&entity.EventRequest{},
	&entity.Attendance{},
	&entity.News{},
	&entity.NewsRequest{},
	&entity.Notification{},
}
