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

// ChannelNews is the realtime channel for news lifecycle pushes.
const ChannelNews = "news"

type newsStorage interface {
	Create(ctx context.Context, news *entity.News) (*entity.News, error)
	Get(ctx context.Context, id string) (*entity.News, error)
	Update(ctx context.Context, news *entity.News) (*entity.News, error)
	Delete(ctx context.Context, id string) error
	SetHidden(ctx context.Context, id string, hidden bool) error
	SetSpotlight(ctx context.Context, id string, spotlight bool) error
	GetPublished(ctx context.Context, limit, offset int) ([]entity.News, error)
	GetSpotlight(ctx context.Context) ([]entity.News, error)
	GetDraftsByCreator(ctx context.Context, userID string) ([]entity.News, error)
	GetDraftsByClubID(ctx context.Context, clubID string) ([]entity.News, error)
}

type newsRequestStorage interface {
	Create(ctx context.Context, request *entity.NewsRequest) (*entity.NewsRequest, error)
	Get(ctx context.Context, id string) (*entity.NewsRequest, error)
	GetByStatus(ctx context.Context, status entity.RequestStatus) ([]entity.NewsRequest, error)
	CountPending(ctx context.Context, newsID string) (int64, error)
	UpdateStatus(ctx context.Context, id string, from, to entity.RequestStatus) (bool, error)
}

type newsPermissionOracle interface {
	IsStaff(ctx context.Context, userID string) (bool, error)
	IsClubPresident(ctx context.Context, userID, clubID string) (bool, error)
	IsClubOfficer(ctx context.Context, userID, clubID string) (bool, error)
	IsClubManager(ctx context.Context, userID, clubID string) (bool, error)
	IsLead(ctx context.Context, userID, clubID string) (bool, error)
	IsTeamLead(ctx context.Context, userID, clubID, teamID string) (bool, error)
	CanApproveAtClub(ctx context.Context, userID, clubID string) (bool, error)
}

type newsManagerStorage interface {
	GetManagersByClubID(ctx context.Context, clubID string) ([]dto.ClubManager, error)
}

type NewsService struct {
	logger *types.Logger

	storage        newsStorage
	requestStorage newsRequestStorage
	managerStorage newsManagerStorage
	permissions    newsPermissionOracle
	notifier       eventNotifier
	broadcaster    broadcaster
}

func NewNewsService(
	logger *types.Logger,
	storage newsStorage,
	requestStorage newsRequestStorage,
	managerStorage newsManagerStorage,
	permissions newsPermissionOracle,
	notifier eventNotifier,
	broadcaster broadcaster,
) *NewsService {
	return &NewsService{
		logger:         logger,
		storage:        storage,
		requestStorage: requestStorage,
		managerStorage: managerStorage,
		permissions:    permissions,
		notifier:       notifier,
		broadcaster:    broadcaster,
	}
}

type CreateNewsInput struct {
	ClubID       *string
	TeamID       *string
	Title        string
	Content      string
	ThumbnailURL string
	Type         entity.NewsType
}

func (i CreateNewsInput) validate() error {
	switch {
	case !validator.NewsTitle(i.Title):
		return fmt.Errorf("title: %w", errorz.ErrValidation)
	case !validator.NewsContent(i.Content):
		return fmt.Errorf("content: %w", errorz.ErrValidation)
	}
	return nil
}

// CreateDraft drafts a news item. Staff need no club; club managers need a
// club; team leads additionally need to actually lead the given team.
func (s *NewsService) CreateDraft(ctx context.Context, actorID string, input CreateNewsInput) (*entity.News, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return nil, notFoundOr(err, "actor")
	}

	if !isStaff {
		if input.ClubID == nil {
			return nil, fmt.Errorf("club required for non-staff creator: %w", errorz.ErrInvalidState)
		}
		clubID := *input.ClubID

		if input.TeamID != nil {
			isLead, err := s.permissions.IsTeamLead(ctx, actorID, clubID, *input.TeamID)
			if err != nil {
				return nil, err
			}
			if !isLead {
				return nil, fmt.Errorf("actor does not lead team %s: %w", *input.TeamID, errorz.ErrForbidden)
			}
		} else {
			isManager, err := s.permissions.IsClubManager(ctx, actorID, clubID)
			if err != nil {
				return nil, err
			}
			if !isManager {
				return nil, fmt.Errorf("actor does not manage club %s: %w", clubID, errorz.ErrForbidden)
			}
		}
	}

	news := &entity.News{
		ClubID:       input.ClubID,
		TeamID:       input.TeamID,
		CreatedByID:  actorID,
		Title:        input.Title,
		Content:      input.Content,
		ThumbnailURL: input.ThumbnailURL,
		Type:         input.Type,
		IsDraft:      true,
	}
	news, err = s.storage.Create(ctx, news)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("news draft created (news_id=%s, actor_id=%s)", news.ID, actorID)
	return news, nil
}

// canAccessDraft - staff, the creator, and (for club drafts) club approvers
// and leads may view or edit a draft.
func (s *NewsService) canAccessDraft(ctx context.Context, news *entity.News, actorID string) (bool, error) {
	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return false, notFoundOr(err, "actor")
	}
	if isStaff || news.CreatedByID == actorID {
		return true, nil
	}
	if news.ClubID == nil {
		return false, nil
	}

	canApprove, err := s.permissions.CanApproveAtClub(ctx, actorID, *news.ClubID)
	if err != nil {
		return false, err
	}
	if canApprove {
		return true, nil
	}
	return s.permissions.IsLead(ctx, actorID, *news.ClubID)
}

func (s *NewsService) GetDraft(ctx context.Context, newsID, actorID string) (*entity.News, error) {
	news, err := s.storage.Get(ctx, newsID)
	if err != nil {
		return nil, notFoundOr(err, "news")
	}

	allowed, err := s.canAccessDraft(ctx, news, actorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("news %s: %w", newsID, errorz.ErrForbidden)
	}
	return news, nil
}

type UpdateNewsInput struct {
	Title        string
	Content      string
	ThumbnailURL string
}

func (s *NewsService) UpdateDraft(ctx context.Context, newsID, actorID string, input UpdateNewsInput) (*entity.News, error) {
	news, err := s.GetDraft(ctx, newsID, actorID)
	if err != nil {
		return nil, err
	}
	if news.Deleted {
		return nil, fmt.Errorf("news %s is deleted: %w", newsID, errorz.ErrInvalidState)
	}
	if !news.IsDraft || news.Submitted {
		return nil, fmt.Errorf("news %s is not an editable draft: %w", newsID, errorz.ErrInvalidState)
	}
	if !validator.NewsTitle(input.Title) || !validator.NewsContent(input.Content) {
		return nil, fmt.Errorf("news update: %w", errorz.ErrValidation)
	}

	news.Title = input.Title
	news.Content = input.Content
	news.ThumbnailURL = input.ThumbnailURL
	news.UpdatedByID = &actorID
	return s.storage.Update(ctx, news)
}

// DeleteDraft removes a draft; only permitted while no request is pending.
func (s *NewsService) DeleteDraft(ctx context.Context, newsID, actorID string) error {
	news, err := s.GetDraft(ctx, newsID, actorID)
	if err != nil {
		return err
	}
	if news.Deleted {
		return fmt.Errorf("news %s is deleted: %w", newsID, errorz.ErrInvalidState)
	}
	if !news.IsDraft {
		return fmt.Errorf("news %s is published: %w", newsID, errorz.ErrInvalidState)
	}

	pending, err := s.requestStorage.CountPending(ctx, newsID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("news %s has a pending request: %w", newsID, errorz.ErrInvalidState)
	}

	return s.storage.Delete(ctx, newsID)
}

// SubmitDraft hands a draft over to an approval request. The draft leaves
// the draft pool; draft and in-flight request are mutually exclusive
// representations of the same content.
func (s *NewsService) SubmitDraft(ctx context.Context, newsID, actorID string) (*entity.NewsRequest, error) {
	news, err := s.storage.Get(ctx, newsID)
	if err != nil {
		return nil, notFoundOr(err, "news")
	}
	if news.Deleted {
		return nil, fmt.Errorf("news %s is deleted: %w", newsID, errorz.ErrInvalidState)
	}
	if !news.IsDraft || news.Submitted {
		return nil, fmt.Errorf("news %s is not a submittable draft: %w", newsID, errorz.ErrInvalidState)
	}

	pending, err := s.requestStorage.CountPending(ctx, newsID)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, fmt.Errorf("news %s already has a pending request: %w", newsID, errorz.ErrInvalidState)
	}

	creator, err := s.creatorClass(ctx, news, actorID)
	if err != nil {
		return nil, err
	}
	initial, err := workflow.InitialStatus(creator)
	if err != nil {
		return nil, err
	}

	request := &entity.NewsRequest{
		NewsID:      newsID,
		CreatedByID: actorID,
		Status:      initial,
		RequestDate: time.Now(),
	}
	request, err = s.requestStorage.Create(ctx, request)
	if err != nil {
		return nil, err
	}

	news.Submitted = true
	if _, err = s.storage.Update(ctx, news); err != nil {
		return nil, err
	}

	if creator == workflow.CreatorStaff {
		if err = s.broadcaster.BroadcastToSystemRole(ctx, string(entity.SystemRoleStaff), ChannelNews, "news.submitted", request); err != nil {
			s.logger.Errorf("failed to broadcast news submission %s: %v", request.ID, err)
		}
	} else if news.ClubID != nil {
		if err = s.broadcaster.BroadcastToClub(ctx, *news.ClubID, ChannelNews, "news.submitted", request); err != nil {
			s.logger.Errorf("failed to broadcast news submission %s: %v", request.ID, err)
		}
	}

	s.logger.Infof("news request created (request_id=%s, news_id=%s, status=%s)", request.ID, newsID, initial)
	return request, nil
}

func (s *NewsService) creatorClass(ctx context.Context, news *entity.News, actorID string) (workflow.CreatorClass, error) {
	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return "", notFoundOr(err, "actor")
	}
	if isStaff {
		return workflow.CreatorStaff, nil
	}
	if news.ClubID == nil {
		return "", fmt.Errorf("club required for non-staff creator: %w", errorz.ErrInvalidState)
	}
	clubID := *news.ClubID

	if news.TeamID != nil {
		isLead, err := s.permissions.IsTeamLead(ctx, actorID, clubID, *news.TeamID)
		if err != nil {
			return "", err
		}
		if isLead {
			return workflow.CreatorTeamLead, nil
		}
	}

	isPresident, err := s.permissions.IsClubPresident(ctx, actorID, clubID)
	if err != nil {
		return "", err
	}
	if isPresident {
		return workflow.CreatorClubPresident, nil
	}

	isOfficer, err := s.permissions.IsClubOfficer(ctx, actorID, clubID)
	if err != nil {
		return "", err
	}
	if isOfficer {
		return workflow.CreatorClubOfficer, nil
	}

	return "", fmt.Errorf("actor may not submit for club %s: %w", clubID, errorz.ErrForbidden)
}

// ApproveByClub decides a news request at the club stage.
func (s *NewsService) ApproveByClub(ctx context.Context, requestID, actorID string, decision workflow.Decision) (*entity.NewsRequest, error) {
	request, err := s.requestStorage.Get(ctx, requestID)
	if err != nil {
		return nil, notFoundOr(err, "news request")
	}
	if request.Status != entity.StatusPendingClub {
		return nil, fmt.Errorf("request %s is %s: %w", requestID, request.Status, errorz.ErrInvalidState)
	}
	if request.News.ClubID == nil {
		return nil, fmt.Errorf("request %s has no club: %w", requestID, errorz.ErrInvalidState)
	}

	canApprove, err := s.permissions.CanApproveAtClub(ctx, actorID, *request.News.ClubID)
	if err != nil {
		return nil, err
	}
	if !canApprove {
		return nil, fmt.Errorf("club approval requires a club approver: %w", errorz.ErrForbidden)
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

	if _, err = s.notifier.SendToUser(ctx, request.CreatedByID, actorID, NotificationInput{
		Title:    "News request update",
		Message:  fmt.Sprintf("Your news %q is now %s", request.News.Title, next),
		Type:     entity.NotificationTypeNewsSubmitted,
		Priority: entity.NotificationPriorityNormal,
	}); err != nil {
		s.logger.Errorf("failed to notify creator of request %s: %v", requestID, err)
	}

	s.logger.Infof("news request decided at club stage (request_id=%s, status=%s)", requestID, next)
	return request, nil
}

// ApproveByStaff decides a news request at the university stage. Approval
// publishes the news item.
func (s *NewsService) ApproveByStaff(ctx context.Context, requestID, actorID string, decision workflow.Decision) (*entity.NewsRequest, error) {
	request, err := s.requestStorage.Get(ctx, requestID)
	if err != nil {
		return nil, notFoundOr(err, "news request")
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
		news := request.News
		news.IsDraft = false
		news.UpdatedByID = &actorID
		if _, err = s.storage.Update(ctx, &news); err != nil {
			return nil, err
		}
		request.News = news
		s.fanOutNewsPublished(ctx, &news, actorID)
	} else {
		if _, err = s.notifier.SendToUser(ctx, request.CreatedByID, actorID, NotificationInput{
			Title:    "News request rejected",
			Message:  fmt.Sprintf("Your news %q was rejected by the university", request.News.Title),
			Type:     entity.NotificationTypeNewsSubmitted,
			Priority: entity.NotificationPriorityNormal,
		}); err != nil {
			s.logger.Errorf("failed to notify creator of request %s: %v", requestID, err)
		}
	}

	s.logger.Infof("news request decided at university stage (request_id=%s, status=%s)", requestID, next)
	return request, nil
}

// PublishDraftByStaff publishes a draft directly, skipping the request
// workflow. Staff only.
func (s *NewsService) PublishDraftByStaff(ctx context.Context, newsID, actorID string) (*entity.News, error) {
	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return nil, notFoundOr(err, "actor")
	}
	if !isStaff {
		return nil, fmt.Errorf("direct publish requires staff: %w", errorz.ErrForbidden)
	}

	news, err := s.storage.Get(ctx, newsID)
	if err != nil {
		return nil, notFoundOr(err, "news")
	}
	if news.Deleted {
		return nil, fmt.Errorf("news %s is deleted: %w", newsID, errorz.ErrInvalidState)
	}
	if !news.IsDraft {
		return nil, fmt.Errorf("news %s is already published: %w", newsID, errorz.ErrInvalidState)
	}

	news.IsDraft = false
	news.UpdatedByID = &actorID
	news, err = s.storage.Update(ctx, news)
	if err != nil {
		return nil, err
	}

	s.fanOutNewsPublished(ctx, news, actorID)
	return news, nil
}

func (s *NewsService) fanOutNewsPublished(ctx context.Context, news *entity.News, actorID string) {
	if _, err := s.notifier.SendToUser(ctx, news.CreatedByID, actorID, NotificationInput{
		Title:    "News published",
		Message:  fmt.Sprintf("Your news %q has been published", news.Title),
		Type:     entity.NotificationTypeNewsPublished,
		Priority: entity.NotificationPriorityHigh,
	}); err != nil {
		s.logger.Errorf("failed to notify creator of news %s: %v", news.ID, err)
	}

	if news.ClubID != nil {
		managers, err := s.managerStorage.GetManagersByClubID(ctx, *news.ClubID)
		if err != nil {
			s.logger.Errorf("failed to load managers of club %s: %v", *news.ClubID, err)
		} else {
			ids := make([]string, 0, len(managers))
			for _, manager := range managers {
				if manager.UserID != news.CreatedByID {
					ids = append(ids, manager.UserID)
				}
			}
			if err = s.notifier.SendToUsers(ctx, ids, actorID, NotificationInput{
				Title:    "Club news published",
				Message:  fmt.Sprintf("News %q has been published", news.Title),
				Type:     entity.NotificationTypeNewsPublished,
				Priority: entity.NotificationPriorityNormal,
			}); err != nil {
				s.logger.Errorf("failed to notify managers of club %s: %v", *news.ClubID, err)
			}
		}
	}

	if err := s.broadcaster.BroadcastSystemWide(ctx, ChannelNews, "news.published", news); err != nil {
		s.logger.Errorf("failed to broadcast news %s: %v", news.ID, err)
	}
}

// Hide makes a published item invisible without touching the soft-delete
// state. Staff only.
func (s *NewsService) Hide(ctx context.Context, newsID, actorID string) error {
	if err := s.requireStaffNews(ctx, newsID, actorID); err != nil {
		return err
	}
	return s.storage.SetHidden(ctx, newsID, true)
}

func (s *NewsService) Unhide(ctx context.Context, newsID, actorID string) error {
	if err := s.requireStaffNews(ctx, newsID, actorID); err != nil {
		return err
	}
	return s.storage.SetHidden(ctx, newsID, false)
}

// SoftDelete stamps the deleting actor and time; reversible via Restore.
func (s *NewsService) SoftDelete(ctx context.Context, newsID, actorID string) (*entity.News, error) {
	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return nil, notFoundOr(err, "actor")
	}
	if !isStaff {
		return nil, fmt.Errorf("soft delete requires staff: %w", errorz.ErrForbidden)
	}

	news, err := s.storage.Get(ctx, newsID)
	if err != nil {
		return nil, notFoundOr(err, "news")
	}
	if news.Deleted {
		return nil, fmt.Errorf("news %s is already deleted: %w", newsID, errorz.ErrInvalidState)
	}

	now := time.Now()
	news.Deleted = true
	news.DeletedByID = &actorID
	news.DeletedAt = &now
	return s.storage.Update(ctx, news)
}

// Restore clears the soft-delete flag and both stamps.
func (s *NewsService) Restore(ctx context.Context, newsID, actorID string) (*entity.News, error) {
	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return nil, notFoundOr(err, "actor")
	}
	if !isStaff {
		return nil, fmt.Errorf("restore requires staff: %w", errorz.ErrForbidden)
	}

	news, err := s.storage.Get(ctx, newsID)
	if err != nil {
		return nil, notFoundOr(err, "news")
	}
	if !news.Deleted {
		return nil, fmt.Errorf("news %s is not deleted: %w", newsID, errorz.ErrInvalidState)
	}

	news.Deleted = false
	news.DeletedByID = nil
	news.DeletedAt = nil
	return s.storage.Update(ctx, news)
}

// Spotlight promotes a published item onto the homepage. Staff only.
func (s *NewsService) Spotlight(ctx context.Context, newsID, actorID string) error {
	news, err := s.storage.Get(ctx, newsID)
	if err != nil {
		return notFoundOr(err, "news")
	}
	if news.IsDraft || news.Deleted {
		return fmt.Errorf("news %s is not published: %w", newsID, errorz.ErrInvalidState)
	}
	if err = s.requireStaff(ctx, actorID); err != nil {
		return err
	}
	return s.storage.SetSpotlight(ctx, newsID, true)
}

func (s *NewsService) Unspotlight(ctx context.Context, newsID, actorID string) error {
	if err := s.requireStaffNews(ctx, newsID, actorID); err != nil {
		return err
	}
	return s.storage.SetSpotlight(ctx, newsID, false)
}

func (s *NewsService) requireStaff(ctx context.Context, actorID string) error {
	isStaff, err := s.permissions.IsStaff(ctx, actorID)
	if err != nil {
		return notFoundOr(err, "actor")
	}
	if !isStaff {
		return fmt.Errorf("staff only: %w", errorz.ErrForbidden)
	}
	return nil
}

// requireStaffNews - soft-deleted rows accept no mutation besides restore,
// so the visibility toggles behind this guard reject them too.
func (s *NewsService) requireStaffNews(ctx context.Context, newsID, actorID string) error {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return err
	}
	news, err := s.storage.Get(ctx, newsID)
	if err != nil {
		return notFoundOr(err, "news")
	}
	if news.Deleted {
		return fmt.Errorf("news %s is deleted: %w", newsID, errorz.ErrInvalidState)
	}
	return nil
}

func (s *NewsService) GetPublished(ctx context.Context, limit, offset int) ([]entity.News, error) {
	return s.storage.GetPublished(ctx, limit, offset)
}

func (s *NewsService) GetSpotlight(ctx context.Context) ([]entity.News, error) {
	return s.storage.GetSpotlight(ctx)
}

func (s *NewsService) GetDraftsByCreator(ctx context.Context, userID string) ([]entity.News, error) {
	return s.storage.GetDraftsByCreator(ctx, userID)
}

func (s *NewsService) GetDraftsByClubID(ctx context.Context, clubID string) ([]entity.News, error) {
	return s.storage.GetDraftsByClubID(ctx, clubID)
}

func (s *NewsService) GetRequestsByStatus(ctx context.Context, status entity.RequestStatus) ([]entity.NewsRequest, error) {
	return s.requestStorage.GetByStatus(ctx, status)
}
