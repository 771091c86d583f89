package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"github.com/campushub/clubs-backend/internal/domain/entity"
)

type attendanceFixture struct {
	service     *AttendanceService
	storage     *fakeAttendanceStorage
	events      *fakeEventStorage
	users       *fakeUserStorage
	permissions *fakePermissions
	codes       *fakeCodeStorage
	smtp        *fakeSMTPClient
}

func newAttendanceFixture(permissions *fakePermissions, events *fakeEventStorage) *attendanceFixture {
	f := &attendanceFixture{
		storage: newFakeAttendanceStorage(),
		events:  events,
		users: newFakeUserStorage(
			&entity.User{ID: "user-1", Role: entity.SystemRoleStudent},
			&entity.User{ID: "user-2", Role: entity.SystemRoleStudent},
			&entity.User{ID: "staff-1", Role: entity.SystemRoleStaff},
		),
		permissions: permissions,
		codes:       newFakeCodeStorage(),
		smtp:        newFakeSMTPClient(),
	}
	f.service = NewAttendanceService(
		testLogger(),
		f.storage,
		f.events,
		f.users,
		f.permissions,
		f.codes,
		f.smtp,
		"passes@university.edu",
	)
	return f
}

func publishedEvent(id string, start time.Time, eventType entity.EventType) *entity.Event {
	return &entity.Event{
		ID:        id,
		ClubID:    strptr("club-1"),
		Title:     "Robotics intro night",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Type:      eventType,
		IsDraft:   false,
	}
}

func TestAttendanceRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-time.Hour)

	t.Run("draft events never accept registrations", func(t *testing.T) {
		draft := publishedEvent("event-1", future, entity.EventTypeWorkshop)
		draft.IsDraft = true
		f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage(draft))

		_, err := f.service.Register(ctx, "event-1", "user-1")
		require.ErrorIs(t, err, errorz.ErrInvalidState)
		assert.Empty(t, f.storage.rows)
	})

	t.Run("started events only accept meetings", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage(
			publishedEvent("workshop-1", past, entity.EventTypeWorkshop),
			publishedEvent("meeting-1", past, entity.EventTypeMeeting),
		))

		_, err := f.service.Register(ctx, "workshop-1", "user-1")
		require.ErrorIs(t, err, errorz.ErrInvalidState)

		attendance, err := f.service.Register(ctx, "meeting-1", "user-1")
		require.NoError(t, err)
		assert.Equal(t, entity.AttendanceStatusRegistered, attendance.Status)
	})

	t.Run("unregister frees the slot before the event starts", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage(
			publishedEvent("event-1", future, entity.EventTypeWorkshop),
		))

		_, err := f.service.Register(ctx, "event-1", "user-1")
		require.NoError(t, err)

		require.NoError(t, f.service.Unregister(ctx, "event-1", "user-1"))
		assert.Empty(t, f.storage.rows)

		_, err = f.service.Register(ctx, "event-1", "user-1")
		require.NoError(t, err)
	})

	t.Run("marked attendance cannot be unregistered", func(t *testing.T) {
		marked := time.Now()
		f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage(
			publishedEvent("event-1", future, entity.EventTypeWorkshop),
		))
		f.storage = newFakeAttendanceStorage(&entity.Attendance{
			EventID: "event-1", UserID: "user-1", Status: entity.AttendanceStatusPresent, MarkedAt: &marked,
		})
		f.service = NewAttendanceService(testLogger(), f.storage, f.events, f.users, f.permissions, f.codes, f.smtp, "passes@university.edu")

		err := f.service.Unregister(ctx, "event-1", "user-1")
		require.ErrorIs(t, err, errorz.ErrInvalidState)
	})

	t.Run("role-restricted events turn other roles away", func(t *testing.T) {
		restricted := publishedEvent("event-1", future, entity.EventTypeWorkshop)
		restricted.AllowedRoles = []string{string(entity.SystemRoleStaff)}
		f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage(restricted))

		_, err := f.service.Register(ctx, "event-1", "user-1")
		require.ErrorIs(t, err, errorz.ErrForbidden)
		assert.Empty(t, f.storage.rows)

		attendance, err := f.service.Register(ctx, "event-1", "staff-1")
		require.NoError(t, err)
		assert.Equal(t, entity.AttendanceStatusRegistered, attendance.Status)
	})

	t.Run("an empty role list admits everyone", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage(
			publishedEvent("event-1", future, entity.EventTypeWorkshop),
		))

		_, err := f.service.Register(ctx, "event-1", "user-1")
		require.NoError(t, err)
	})

	t.Run("duplicate registrations are rejected", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage(
			publishedEvent("event-1", future, entity.EventTypeWorkshop),
		))

		_, err := f.service.Register(ctx, "event-1", "user-1")
		require.NoError(t, err)

		_, err = f.service.Register(ctx, "event-1", "user-1")
		require.ErrorIs(t, err, errorz.ErrInvalidState)
	})
}

func TestAttendanceBatchMark(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	future := time.Now().Add(24 * time.Hour)

	registered := func(eventID, userID string) *entity.Attendance {
		return &entity.Attendance{EventID: eventID, UserID: userID, Status: entity.AttendanceStatusRegistered}
	}

	t.Run("only staff and club managers mark attendance", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage(
			publishedEvent("event-1", future, entity.EventTypeWorkshop),
		))
		f.storage = newFakeAttendanceStorage(registered("event-1", "user-1"))
		f.service = NewAttendanceService(testLogger(), f.storage, f.events, f.users, f.permissions, f.codes, f.smtp, "passes@university.edu")

		err := f.service.BatchMark(ctx, "event-1", "member-1", []MarkItem{
			{UserID: "user-1", Status: entity.AttendanceStatusPresent},
		})
		require.ErrorIs(t, err, errorz.ErrForbidden)
	})

	t.Run("REGISTERED is never a valid target and nothing is written", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{manager: true}, newFakeEventStorage(
			publishedEvent("event-1", future, entity.EventTypeWorkshop),
		))
		f.storage = newFakeAttendanceStorage(
			registered("event-1", "user-1"),
			registered("event-1", "user-2"),
		)
		f.service = NewAttendanceService(testLogger(), f.storage, f.events, f.users, f.permissions, f.codes, f.smtp, "passes@university.edu")

		err := f.service.BatchMark(ctx, "event-1", "manager-1", []MarkItem{
			{UserID: "user-1", Status: entity.AttendanceStatusPresent},
			{UserID: "user-2", Status: entity.AttendanceStatusRegistered},
		})
		require.ErrorIs(t, err, errorz.ErrValidation)
		assert.Equal(t, entity.AttendanceStatusRegistered, f.storage.rows["event-1/user-1"].Status)
	})

	t.Run("valid outcomes are recorded with a timestamp", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{staff: true}, newFakeEventStorage(
			publishedEvent("event-1", future, entity.EventTypeWorkshop),
		))
		f.storage = newFakeAttendanceStorage(
			registered("event-1", "user-1"),
			registered("event-1", "user-2"),
		)
		f.service = NewAttendanceService(testLogger(), f.storage, f.events, f.users, f.permissions, f.codes, f.smtp, "passes@university.edu")

		err := f.service.BatchMark(ctx, "event-1", "staff-1", []MarkItem{
			{UserID: "user-1", Status: entity.AttendanceStatusPresent},
			{UserID: "user-2", Status: entity.AttendanceStatusLate},
		})
		require.NoError(t, err)
		assert.Equal(t, entity.AttendanceStatusPresent, f.storage.rows["event-1/user-1"].Status)
		assert.Equal(t, entity.AttendanceStatusLate, f.storage.rows["event-1/user-2"].Status)
		require.NotNil(t, f.storage.rows["event-1/user-1"].MarkedAt)
	})
}

func TestAttendanceCheckInByCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	future := time.Now().Add(24 * time.Hour)

	t.Run("generated codes check registered users in", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{manager: true}, newFakeEventStorage(
			publishedEvent("event-1", future, entity.EventTypeWorkshop),
		))
		f.storage = newFakeAttendanceStorage(&entity.Attendance{
			EventID: "event-1", UserID: "user-1", Status: entity.AttendanceStatusRegistered,
		})
		f.service = NewAttendanceService(testLogger(), f.storage, f.events, f.users, f.permissions, f.codes, f.smtp, "passes@university.edu")

		code, image, err := f.service.GenerateCheckInCode(ctx, "event-1", "manager-1")
		require.NoError(t, err)
		require.NotEmpty(t, code)
		assert.NotEmpty(t, image)

		attendance, err := f.service.CheckInByCode(ctx, code, "user-1")
		require.NoError(t, err)
		assert.Equal(t, entity.AttendanceStatusPresent, attendance.Status)
		require.NotNil(t, attendance.MarkedAt)
	})

	t.Run("unknown codes are rejected", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage())

		_, err := f.service.CheckInByCode(ctx, "bogus", "user-1")
		require.ErrorIs(t, err, errorz.ErrInvalidCode)
	})

	t.Run("unregistered users cannot check in", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{manager: true}, newFakeEventStorage(
			publishedEvent("event-1", future, entity.EventTypeWorkshop),
		))

		code, _, err := f.service.GenerateCheckInCode(ctx, "event-1", "manager-1")
		require.NoError(t, err)

		_, err = f.service.CheckInByCode(ctx, code, "stranger-1")
		require.ErrorIs(t, err, errorz.ErrNotFound)
	})

	t.Run("only managers issue codes", func(t *testing.T) {
		f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage(
			publishedEvent("event-1", future, entity.EventTypeWorkshop),
		))

		_, _, err := f.service.GenerateCheckInCode(ctx, "event-1", "member-1")
		require.ErrorIs(t, err, errorz.ErrForbidden)
	})
}

func TestAttendancePassExport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	soon := time.Now().Add(23*time.Hour + 30*time.Minute)
	far := time.Now().Add(72 * time.Hour)

	f := newAttendanceFixture(&fakePermissions{}, newFakeEventStorage(
		publishedEvent("soon-1", soon, entity.EventTypeWorkshop),
		publishedEvent("far-1", far, entity.EventTypeWorkshop),
	))
	f.storage = newFakeAttendanceStorage(
		&entity.Attendance{EventID: "soon-1", UserID: "user-1", Status: entity.AttendanceStatusRegistered},
		&entity.Attendance{EventID: "soon-1", UserID: "user-2", Status: entity.AttendanceStatusRegistered},
	)
	f.service = NewAttendanceService(testLogger(), f.storage, f.events, f.users, f.permissions, f.codes, f.smtp, "passes@university.edu")

	f.service.checkAndSend(ctx)

	// Only the event inside the day-ahead window is exported.
	require.Len(t, f.smtp.sends, 1)
	assert.Equal(t, "passes@university.edu", f.smtp.sends[0].to)
	assert.Contains(t, f.smtp.sends[0].subject, "Robotics intro night")
}
