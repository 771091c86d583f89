package postgres

import (
	"context"

	"github.com/campushub/clubs-backend/internal/domain/dto"
	"github.com/campushub/clubs-backend/internal/domain/entity"
	"gorm.io/gorm"
)

type AttendanceStorage struct {
	db *gorm.DB
}

func NewAttendanceStorage(db *gorm.DB) *AttendanceStorage {
	return &AttendanceStorage{
		db: db,
	}
}

func (s *AttendanceStorage) Create(ctx context.Context, attendance *entity.Attendance) (*entity.Attendance, error) {
	err := s.db.WithContext(ctx).Create(&attendance).Error
	return attendance, err
}

func (s *AttendanceStorage) Get(ctx context.Context, eventID, userID string) (*entity.Attendance, error) {
	var attendance entity.Attendance
	err := s.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&attendance).Error
	return &attendance, err
}

func (s *AttendanceStorage) Update(ctx context.Context, attendance *entity.Attendance) (*entity.Attendance, error) {
	err := s.db.WithContext(ctx).Save(&attendance).Error
	return attendance, err
}

func (s *AttendanceStorage) Delete(ctx context.Context, eventID, userID string) error {
	return s.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&entity.Attendance{}).Error
}

func (s *AttendanceStorage) GetByEventID(ctx context.Context, eventID string) ([]entity.Attendance, error) {
	var attendances []entity.Attendance
	err := s.db.WithContext(ctx).Preload("User").Where("event_id = ?", eventID).Find(&attendances).Error
	return attendances, err
}

func (s *AttendanceStorage) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Attendance{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func (s *AttendanceStorage) CountPresentByEventID(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entity.Attendance{}).
		Where("event_id = ? AND status = ?", eventID, entity.AttendanceStatusPresent).
		Count(&count).Error
	return count, err
}

// GetUserEvents returns the user's events annotated with attendance status.
func (s *AttendanceStorage) GetUserEvents(ctx context.Context, userID string, limit, offset int) ([]dto.UserEvent, error) {
	var result []dto.UserEvent
	err := s.db.WithContext(ctx).
		Table("attendances").
		Select("events.id, events.club_id, events.title, events.location, events.start_time, events.end_time, events.type, attendances.status").
		Joins("JOIN events ON events.id = attendances.event_id").
		Where("attendances.user_id = ?", userID).
		Order("events.start_time DESC").
		Offset(offset).Limit(limit).
		Scan(&result).Error
	return result, err
}
