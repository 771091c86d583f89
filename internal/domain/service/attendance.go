package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/campushub/clubs-backend/internal/adapters/database/redis/codes"
	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"github.com/campushub/clubs-backend/internal/domain/dto"
	"github.com/campushub/clubs-backend/internal/domain/entity"
	"github.com/campushub/clubs-backend/internal/domain/workflow"
	"github.com/campushub/clubs-backend/pkg/generator"
	"github.com/campushub/clubs-backend/pkg/logger/types"
	"github.com/campushub/clubs-backend/pkg/qrcode"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const checkInCodeTTL = 4 * time.Hour

type attendanceStorage interface {
	Create(ctx context.Context, attendance *entity.Attendance) (*entity.Attendance, error)
	Get(ctx context.Context, eventID, userID string) (*entity.Attendance, error)
	Update(ctx context.Context, attendance *entity.Attendance) (*entity.Attendance, error)
	Delete(ctx context.Context, eventID, userID string) error
	GetByEventID(ctx context.Context, eventID string) ([]entity.Attendance, error)
	CountByEventID(ctx context.Context, eventID string) (int64, error)
	CountPresentByEventID(ctx context.Context, eventID string) (int64, error)
	GetUserEvents(ctx context.Context, userID string, limit, offset int) ([]dto.UserEvent, error)
}

type attendanceEventStorage interface {
	Get(ctx context.Context, id string) (*entity.Event, error)
	GetUpcoming(ctx context.Context, before time.Time) ([]entity.Event, error)
}

type attendanceUserStorage interface {
	Get(ctx context.Context, id string) (*entity.User, error)
}

type attendancePermissionOracle interface {
	IsStaff(ctx context.Context, userID string) (bool, error)
	IsClubManager(ctx context.Context, userID, clubID string) (bool, error)
}

type checkInCodeStorage interface {
	Get(ctx context.Context, key string) (codes.Code, error)
	Set(ctx context.Context, key, code, codeContext string, expiration time.Duration)
	Clear(ctx context.Context, key string)
}

type attendanceSMTPClient interface {
	Send(to, subject, body, attachmentName string, attachment *bytes.Buffer)
}

type AttendanceService struct {
	logger *types.Logger

	storage      attendanceStorage
	eventStorage attendanceEventStorage
	userStorage  attendanceUserStorage
	permissions  attendancePermissionOracle
	codeStorage  checkInCodeStorage
	smtpClient   attendanceSMTPClient

	passEmail string
}

func NewAttendanceService(
	logger *types.Logger,
	storage attendanceStorage,
	eventStorage attendanceEventStorage,
	userStorage attendanceUserStorage,
	permissions attendancePermissionOracle,
	codeStorage checkInCodeStorage,
	smtpClient attendanceSMTPClient,
	passEmail string,
) *AttendanceService {
	return &AttendanceService{
		logger:       logger,
		storage:      storage,
		eventStorage: eventStorage,
		userStorage:  userStorage,
		permissions:  permissions,
		codeStorage:  codeStorage,
		smtpClient:   smtpClient,
		passEmail:    passEmail,
	}
}

// Register signs a user up for an event. Draft events never accept
// registrations; started events accept them only for meetings; a duplicate
// registration is rejected, not silently ignored. Events that restrict
// registration to certain system roles turn everyone else away.
func (s *AttendanceService) Register(ctx context.Context, eventID, userID string) (*entity.Attendance, error) {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, "event")
	}

	if event.IsDraft {
		return nil, fmt.Errorf("event %s is a draft: %w", eventID, errorz.ErrInvalidState)
	}
	if event.Started(0) && event.Type != entity.EventTypeMeeting {
		return nil, fmt.Errorf("event %s has started: %w", eventID, errorz.ErrInvalidState)
	}

	user, err := s.userStorage.Get(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	if !event.RoleAllowed(user.Role) {
		return nil, fmt.Errorf("event %s is not open to role %s: %w", eventID, user.Role, errorz.ErrForbidden)
	}

	if _, err = s.storage.Get(ctx, eventID, userID); err == nil {
		return nil, fmt.Errorf("user %s already registered: %w", userID, errorz.ErrInvalidState)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.storage.Create(ctx, &entity.Attendance{
		EventID: eventID,
		UserID:  userID,
		Status:  entity.AttendanceStatusRegistered,
	})
}

// Unregister removes a registration before the event starts. Rows that
// already carry an outcome stay for the record.
func (s *AttendanceService) Unregister(ctx context.Context, eventID, userID string) error {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return notFoundOr(err, "event")
	}
	if event.Started(0) {
		return fmt.Errorf("event %s has started: %w", eventID, errorz.ErrInvalidState)
	}

	attendance, err := s.storage.Get(ctx, eventID, userID)
	if err != nil {
		return notFoundOr(err, "registration")
	}
	if attendance.Status != entity.AttendanceStatusRegistered {
		return fmt.Errorf("attendance of user %s is already marked: %w", userID, errorz.ErrInvalidState)
	}

	return s.storage.Delete(ctx, eventID, userID)
}

type MarkItem struct {
	UserID string
	Status entity.AttendanceStatus
}

// BatchMark records attendance outcomes for registered users. Every target
// status must be a valid outcome before anything is written; REGISTERED is
// never a valid target.
func (s *AttendanceService) BatchMark(ctx context.Context, eventID, actorID string, items []MarkItem) error {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return notFoundOr(err, "event")
	}

	if err = s.requireManager(ctx, event, actorID); err != nil {
		return err
	}

	for _, item := range items {
		if !workflow.ValidOutcome(item.Status) {
			return fmt.Errorf("status %s is not a valid attendance outcome: %w", item.Status, errorz.ErrValidation)
		}
	}

	now := time.Now()
	for _, item := range items {
		attendance, err := s.storage.Get(ctx, eventID, item.UserID)
		if err != nil {
			return notFoundOr(err, fmt.Sprintf("attendance of user %s", item.UserID))
		}
		attendance.Status = item.Status
		attendance.MarkedAt = &now
		if _, err = s.storage.Update(ctx, attendance); err != nil {
			return err
		}
	}

	s.logger.Infof("attendance marked (event_id=%s, count=%d)", eventID, len(items))
	return nil
}

// GenerateCheckInCode issues a short-lived check-in code for the event and
// renders it as a QR PNG.
func (s *AttendanceService) GenerateCheckInCode(ctx context.Context, eventID, actorID string) (string, []byte, error) {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return "", nil, notFoundOr(err, "event")
	}
	if err = s.requireManager(ctx, event, actorID); err != nil {
		return "", nil, err
	}

	code, err := generator.RandomCode(8)
	if err != nil {
		return "", nil, err
	}
	s.codeStorage.Set(ctx, code, code, eventID, checkInCodeTTL)

	config := qrcode.DefaultConfig
	config.Content = code
	image, err := config.Generate()
	if err != nil {
		return "", nil, err
	}

	s.logger.Infof("check-in code issued (event_id=%s)", eventID)
	return code, image, nil
}

// CheckInByCode marks the registered caller PRESENT using a check-in code.
func (s *AttendanceService) CheckInByCode(ctx context.Context, code, userID string) (*entity.Attendance, error) {
	stored, err := s.codeStorage.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("check-in code: %w", errorz.ErrInvalidCode)
	}
	eventID := stored.CodeContext

	attendance, err := s.storage.Get(ctx, eventID, userID)
	if err != nil {
		return nil, notFoundOr(err, "registration")
	}

	now := time.Now()
	attendance.Status = entity.AttendanceStatusPresent
	attendance.MarkedAt = &now
	return s.storage.Update(ctx, attendance)
}

func (s *AttendanceService) requireManager(ctx context.Context, event *entity.Event, actorID string) error {
	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return notFoundOr(err, "actor")
	}
	if isStaff {
		return nil
	}
	if event.ClubID != nil {
		isManager, err := s.permissions.IsClubManager(ctx, actorID, *event.ClubID)
		if err != nil {
			return err
		}
		if isManager {
			return nil
		}
	}
	return fmt.Errorf("event %s is not managed by actor: %w", event.ID, errorz.ErrForbidden)
}

func (s *AttendanceService) GetByEventID(ctx context.Context, eventID string) ([]entity.Attendance, error) {
	return s.storage.GetByEventID(ctx, eventID)
}

func (s *AttendanceService) CountByEventID(ctx context.Context, eventID string) (int, error) {
	count, err := s.storage.CountByEventID(ctx, eventID)
	return int(count), err
}

func (s *AttendanceService) CountPresentByEventID(ctx context.Context, eventID string) (int, error) {
	count, err := s.storage.CountPresentByEventID(ctx, eventID)
	return int(count), err
}

func (s *AttendanceService) GetUserEvents(ctx context.Context, userID string, limit, offset int) ([]dto.UserEvent, error) {
	return s.storage.GetUserEvents(ctx, userID, limit, offset)
}

// StartPassScheduler periodically mails participant lists of soon-starting
// events to the campus pass office.
func (s *AttendanceService) StartPassScheduler() {
	s.logger.Info("Starting pass scheduler")
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			s.checkAndSend(context.Background())
		}
	}()
}

func (s *AttendanceService) checkAndSend(ctx context.Context) {
	now := time.Now()

	events, err := s.eventStorage.GetUpcoming(ctx, now.Add(24*time.Hour))
	if err != nil {
		s.logger.Errorf("failed to get upcoming events: %v", err)
		return
	}

	for _, event := range events {
		// Only mail the list in the hour-long window a day before start.
		timeUntilStart := event.StartTime.Sub(now)
		if timeUntilStart < 23*time.Hour || timeUntilStart > 24*time.Hour {
			continue
		}

		attendances, err := s.storage.GetByEventID(ctx, event.ID)
		if err != nil {
			s.logger.Errorf("failed to get participants for event %s: %v", event.ID, err)
			continue
		}

		buf, err := participantsToXLSX(attendances)
		if err != nil {
			s.logger.Errorf("failed to export participants of event %s: %v", event.ID, err)
			continue
		}

		subject := fmt.Sprintf("Event passes: %s", event.Title)
		s.smtpClient.Send(s.passEmail, subject, subject, "participants.xlsx", buf)
		s.logger.Infof("pass list sent (event_id=%s, participants=%d)", event.ID, len(attendances))
	}
}

func participantsToXLSX(attendances []entity.Attendance) (*bytes.Buffer, error) {
	f := excelize.NewFile()

	sheet := "Sheet1"
	_ = f.SetCellValue(sheet, "A1", "Full name")
	_ = f.SetCellValue(sheet, "B1", "Email")
	_ = f.SetCellValue(sheet, "C1", "Status")
	for i, attendance := range attendances {
		row := i + 2
		_ = f.SetCellValue(sheet, "A"+strconv.Itoa(row), attendance.User.FullName)
		_ = f.SetCellValue(sheet, "B"+strconv.Itoa(row), attendance.User.Email)
		_ = f.SetCellValue(sheet, "C"+strconv.Itoa(row), string(attendance.Status))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return &buf, nil
}
