package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"github.com/campushub/clubs-backend/internal/domain/dto"
	"github.com/campushub/clubs-backend/internal/domain/entity"
	"github.com/campushub/clubs-backend/internal/domain/utils/validator"
	"github.com/campushub/clubs-backend/internal/domain/workflow"
	"github.com/campushub/clubs-backend/pkg/logger/types"
)

// ChannelEvents is the realtime channel for event lifecycle pushes.
const ChannelEvents = "events"

type eventStorage interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Get(ctx context.Context, id string) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Delete(ctx context.Context, id string) error
	GetPublished(ctx context.Context, limit, offset int) ([]entity.Event, error)
	GetDraftsByClubID(ctx context.Context, clubID string) ([]entity.Event, error)
}

type eventRequestStorage interface {
	Create(ctx context.Context, request *entity.EventRequest) (*entity.EventRequest, error)
	Get(ctx context.Context, id string) (*entity.EventRequest, error)
	GetByStatus(ctx context.Context, status entity.RequestStatus) ([]entity.EventRequest, error)
	CountPending(ctx context.Context, eventID string) (int64, error)
	UpdateStatus(ctx context.Context, id string, from, to entity.RequestStatus) (bool, error)
}

type eventClubStorage interface {
	Get(ctx context.Context, id string) (*entity.Club, error)
}

type eventPermissionOracle interface {
	IsStaff(ctx context.Context, userID string) (bool, error)
	IsClubPresident(ctx context.Context, userID, clubID string) (bool, error)
	CanCreateEvent(ctx context.Context, userID, clubID string) (bool, error)
}

type eventNotifier interface {
	SendToUser(ctx context.Context, recipientID, actorID string, input NotificationInput) (*entity.Notification, error)
	SendToUsers(ctx context.Context, recipientIDs []string, actorID string, input NotificationInput) error
}

type eventManagerStorage interface {
	GetManagersByClubID(ctx context.Context, clubID string) ([]dto.ClubManager, error)
}

type EventService struct {
	logger *types.Logger

	storage        eventStorage
	requestStorage eventRequestStorage
	managerStorage eventManagerStorage
	clubStorage    eventClubStorage
	permissions    eventPermissionOracle
	notifier       eventNotifier
	broadcaster    broadcaster
}

func NewEventService(
	logger *types.Logger,
	storage eventStorage,
	requestStorage eventRequestStorage,
	managerStorage eventManagerStorage,
	clubStorage eventClubStorage,
	permissions eventPermissionOracle,
	notifier eventNotifier,
	broadcaster broadcaster,
) *EventService {
	return &EventService{
		logger:         logger,
		storage:        storage,
		requestStorage: requestStorage,
		managerStorage: managerStorage,
		clubStorage:    clubStorage,
		permissions:    permissions,
		notifier:       notifier,
		broadcaster:    broadcaster,
	}
}

type CreateEventInput struct {
	ClubID       *string
	Title        string
	Description  string
	Location     string
	StartTime    time.Time
	EndTime      time.Time
	Type         entity.EventType
	AllowedRoles []string
}

func (i CreateEventInput) validate() error {
	switch {
	case !validator.EventTitle(i.Title):
		return fmt.Errorf("title: %w", errorz.ErrValidation)
	case !validator.EventDescription(i.Description):
		return fmt.Errorf("description: %w", errorz.ErrValidation)
	case !validator.EventLocation(i.Location):
		return fmt.Errorf("location: %w", errorz.ErrValidation)
	case !validator.EventTimeWindow(i.StartTime, i.EndTime):
		return fmt.Errorf("time window: %w", errorz.ErrValidation)
	}
	return nil
}

// Create drafts an event for the actor. Staff-created events (except
// meetings, which are reserved for club internal use) are saved directly
// without a request; club managers get an approval ticket whose initial
// stage depends on their role.
func (s *EventService) Create(ctx context.Context, actorID string, input CreateEventInput) (*entity.Event, *entity.EventRequest, error) {
	if err := input.validate(); err != nil {
		return nil, nil, err
	}

	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return nil, nil, notFoundOr(err, "actor")
	}

	event := &entity.Event{
		ClubID:       input.ClubID,
		CreatedByID:  actorID,
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		Type:         input.Type,
		IsDraft:      true,
		AllowedRoles: input.AllowedRoles,
	}

	if isStaff {
		if input.Type == entity.EventTypeMeeting {
			return nil, nil, fmt.Errorf("staff cannot create meetings: %w", errorz.ErrForbidden)
		}
		event, err = s.storage.Create(ctx, event)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Infof("staff event drafted (event_id=%s, actor_id=%s)", event.ID, actorID)
		return event, nil, nil
	}

	if input.ClubID == nil {
		return nil, nil, fmt.Errorf("club required for non-staff creator: %w", errorz.ErrInvalidState)
	}
	clubID := *input.ClubID

	allowed, err := s.permissions.CanCreateEvent(ctx, actorID, clubID)
	if err != nil {
		return nil, nil, err
	}
	if !allowed {
		return nil, nil, fmt.Errorf("cannot create events for club %s: %w", clubID, errorz.ErrForbidden)
	}

	club, err := s.clubStorage.Get(ctx, clubID)
	if err != nil {
		return nil, nil, notFoundOr(err, "club")
	}
	if !club.AllowsEventType(input.Type) {
		return nil, nil, fmt.Errorf("club %s may not request %s events: %w", clubID, input.Type, errorz.ErrForbidden)
	}

	creator := workflow.CreatorClubOfficer
	isPresident, err := s.permissions.IsClubPresident(ctx, actorID, clubID)
	if err != nil {
		return nil, nil, err
	}
	if isPresident {
		creator = workflow.CreatorClubPresident
	}

	initial, err := workflow.InitialStatus(creator)
	if err != nil {
		return nil, nil, err
	}

	event, err = s.storage.Create(ctx, event)
	if err != nil {
		return nil, nil, err
	}

	request := &entity.EventRequest{
		EventID:     event.ID,
		CreatedByID: actorID,
		Status:      initial,
		RequestDate: time.Now(),
	}
	request, err = s.requestStorage.Create(ctx, request)
	if err != nil {
		return nil, nil, err
	}

	if err = s.broadcaster.BroadcastToClub(ctx, clubID, ChannelEvents, "event.submitted", request); err != nil {
		s.logger.Errorf("failed to broadcast event submission %s: %v", request.ID, err)
	}

	s.logger.Infof("event request created (request_id=%s, event_id=%s, status=%s)", request.ID, event.ID, initial)
	return event, request, nil
}

// ApproveByClub decides a request sitting at the club stage. Only the club's
// president may decide; the request must still be PENDING_CLUB.
func (s *EventService) ApproveByClub(ctx context.Context, requestID, actorID string, decision workflow.Decision) (*entity.EventRequest, error) {
	request, err := s.requestStorage.Get(ctx, requestID)
	if err != nil {
		return nil, notFoundOr(err, "event request")
	}
	if request.Status != entity.StatusPendingClub {
		return nil, fmt.Errorf("request %s is %s: %w", requestID, request.Status, errorz.ErrInvalidState)
	}
	if request.Event.ClubID == nil {
		return nil, fmt.Errorf("request %s has no club: %w", requestID, errorz.ErrInvalidState)
	}

	isPresident, err := s.permissions.IsClubPresident(ctx, actorID, *request.Event.ClubID)
	if err != nil {
		return nil, err
	}
	if !isPresident {
		return nil, fmt.Errorf("club approval requires the president: %w", errorz.ErrForbidden)
	}

	next, err := workflow.Next(request.Status, workflow.ActorClubPresident, decision)
	if err != nil {
		return nil, err
	}

	moved, err := s.requestStorage.UpdateStatus(ctx, requestID, request.Status, next)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("request %s already decided: %w", requestID, errorz.ErrInvalidState)
	}
	request.Status = next

	notification := NotificationInput{
		Title:    "Event request update",
		Message:  fmt.Sprintf("Your event %q is now %s", request.Event.Title, next),
		Type:     entity.NotificationTypeEventSubmitted,
		Priority: entity.NotificationPriorityNormal,
	}
	if next == entity.StatusRejectedClub {
		notification.Type = entity.NotificationTypeEventRejected
	}
	if _, err = s.notifier.SendToUser(ctx, request.CreatedByID, actorID, notification); err != nil {
		s.logger.Errorf("failed to notify creator of request %s: %v", requestID, err)
	}

	s.logger.Infof("event request decided at club stage (request_id=%s, status=%s)", requestID, next)
	return request, nil
}

// ApproveByStaff decides a request sitting at the university stage. Approval
// publishes the linked event.
func (s *EventService) ApproveByStaff(ctx context.Context, requestID, actorID string, decision workflow.Decision) (*entity.EventRequest, error) {
	request, err := s.requestStorage.Get(ctx, requestID)
	if err != nil {
		return nil, notFoundOr(err, "event request")
	}
	if request.Status != entity.StatusPendingUniversity {
		return nil, fmt.Errorf("request %s is %s: %w", requestID, request.Status, errorz.ErrInvalidState)
	}

	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !isStaff {
		return nil, fmt.Errorf("university approval requires staff: %w", errorz.ErrForbidden)
	}

	next, err := workflow.Next(request.Status, workflow.ActorStaff, decision)
	if err != nil {
		return nil, err
	}

	moved, err := s.requestStorage.UpdateStatus(ctx, requestID, request.Status, next)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("request %s already decided: %w", requestID, errorz.ErrInvalidState)
	}
	request.Status = next

	if next == entity.StatusApprovedUniversity {
		event := request.Event
		event.IsDraft = false
		if _, err = s.storage.Update(ctx, &event); err != nil {
			return nil, err
		}
		request.Event = event
		s.fanOutPublished(ctx, request, actorID)
	} else {
		if _, err = s.notifier.SendToUser(ctx, request.CreatedByID, actorID, NotificationInput{
			Title:    "Event request rejected",
			Message:  fmt.Sprintf("Your event %q was rejected by the university", request.Event.Title),
			Type:     entity.NotificationTypeEventRejected,
			Priority: entity.NotificationPriorityNormal,
		}); err != nil {
			s.logger.Errorf("failed to notify creator of request %s: %v", requestID, err)
		}
	}

	s.logger.Infof("event request decided at university stage (request_id=%s, status=%s)", requestID, next)
	return request, nil
}

func (s *EventService) fanOutPublished(ctx context.Context, request *entity.EventRequest, actorID string) {
	if _, err := s.notifier.SendToUser(ctx, request.CreatedByID, actorID, NotificationInput{
		Title:    "Event approved",
		Message:  fmt.Sprintf("Your event %q has been published", request.Event.Title),
		Type:     entity.NotificationTypeEventApproved,
		Priority: entity.NotificationPriorityHigh,
	}); err != nil {
		s.logger.Errorf("failed to notify creator of request %s: %v", request.ID, err)
	}

	if request.Event.ClubID != nil {
		managers, err := s.managerStorage.GetManagersByClubID(ctx, *request.Event.ClubID)
		if err != nil {
			s.logger.Errorf("failed to load managers of club %s: %v", *request.Event.ClubID, err)
		} else {
			ids := make([]string, 0, len(managers))
			for _, manager := range managers {
				if manager.UserID != request.CreatedByID {
					ids = append(ids, manager.UserID)
				}
			}
			if err = s.notifier.SendToUsers(ctx, ids, actorID, NotificationInput{
				Title:    "Club event published",
				Message:  fmt.Sprintf("Event %q has been published", request.Event.Title),
				Type:     entity.NotificationTypeEventApproved,
				Priority: entity.NotificationPriorityNormal,
			}); err != nil {
				s.logger.Errorf("failed to notify managers of club %s: %v", *request.Event.ClubID, err)
			}
		}

		if err = s.broadcaster.BroadcastToClub(ctx, *request.Event.ClubID, ChannelEvents, "event.published", request.Event); err != nil {
			s.logger.Errorf("failed to broadcast event %s to club: %v", request.Event.ID, err)
		}
	}

	if err := s.broadcaster.BroadcastSystemWide(ctx, ChannelEvents, "event.published", request.Event); err != nil {
		s.logger.Errorf("failed to broadcast event %s: %v", request.Event.ID, err)
	}
}

// Cancel sets a published event back to draft with a reason. Staff only,
// independent of the request history.
func (s *EventService) Cancel(ctx context.Context, eventID, actorID, reason string) (*entity.Event, error) {
	event, err := s.staffEvent(ctx, eventID, actorID)
	if err != nil {
		return nil, err
	}

	event.IsDraft = true
	event.CancelReason = reason
	event, err = s.storage.Update(ctx, event)
	if err != nil {
		return nil, err
	}

	if err = s.broadcaster.BroadcastSystemWide(ctx, ChannelEvents, "event.cancelled", event); err != nil {
		s.logger.Errorf("failed to broadcast cancellation of event %s: %v", eventID, err)
	}
	return event, nil
}

// Restore returns a cancelled event to the published state. Staff only.
func (s *EventService) Restore(ctx context.Context, eventID, actorID string) (*entity.Event, error) {
	event, err := s.staffEvent(ctx, eventID, actorID)
	if err != nil {
		return nil, err
	}

	event.IsDraft = false
	event.CancelReason = ""
	event, err = s.storage.Update(ctx, event)
	if err != nil {
		return nil, err
	}

	if err = s.broadcaster.BroadcastSystemWide(ctx, ChannelEvents, "event.restored", event); err != nil {
		s.logger.Errorf("failed to broadcast restore of event %s: %v", eventID, err)
	}
	return event, nil
}

func (s *EventService) staffEvent(ctx context.Context, eventID, actorID string) (*entity.Event, error) {
	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return nil, notFoundOr(err, "actor")
	}
	if !isStaff {
		return nil, fmt.Errorf("staff only: %w", errorz.ErrForbidden)
	}

	event, err := s.storage.Get(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, "event")
	}
	return event, nil
}

// DeleteDraft removes a drafted event. Only permitted while no request is
// pending for it.
func (s *EventService) DeleteDraft(ctx context.Context, eventID, actorID string) error {
	event, err := s.storage.Get(ctx, eventID)
	if err != nil {
		return notFoundOr(err, "event")
	}
	if !event.IsDraft {
		return fmt.Errorf("event %s is published: %w", eventID, errorz.ErrInvalidState)
	}

	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return notFoundOr(err, "actor")
	}
	if !isStaff && event.CreatedByID != actorID {
		allowed := false
		if event.ClubID != nil {
			allowed, err = s.permissions.CanCreateEvent(ctx, actorID, *event.ClubID)
			if err != nil {
				return err
			}
		}
		if !allowed {
			return fmt.Errorf("only staff, the creator or a club manager may delete a draft: %w", errorz.ErrForbidden)
		}
	}

	pending, err := s.requestStorage.CountPending(ctx, eventID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("event %s has a pending request: %w", eventID, errorz.ErrInvalidState)
	}

	return s.storage.Delete(ctx, eventID)
}

func (s *EventService) Get(ctx context.Context, id string) (*entity.Event, error) {
	event, err := s.storage.Get(ctx, id)
	return event, notFoundOr(err, "event")
}

func (s *EventService) GetPublished(ctx context.Context, limit, offset int) ([]entity.Event, error) {
	return s.storage.GetPublished(ctx, limit, offset)
}

func (s *EventService) GetDraftsByClubID(ctx context.Context, clubID string) ([]entity.Event, error) {
	return s.storage.GetDraftsByClubID(ctx, clubID)
}

func (s *EventService) GetRequestsByStatus(ctx context.Context, status entity.RequestStatus) ([]entity.EventRequest, error) {
	return s.requestStorage.GetByStatus(ctx, status)
}
