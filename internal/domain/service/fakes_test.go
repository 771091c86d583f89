package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/campushub/clubs-backend/internal/adapters/database/redis/codes"
	"github.com/campushub/clubs-backend/internal/domain/dto"
	"github.com/campushub/clubs-backend/internal/domain/entity"
	"github.com/campushub/clubs-backend/pkg/logger/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testLogger() *types.Logger {
	return &types.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakeUserStorage struct {
	users map[string]*entity.User
}

func newFakeUserStorage(users ...*entity.User) *fakeUserStorage {
	s := &fakeUserStorage{users: make(map[string]*entity.User)}
	for _, user := range users {
		s.users[user.ID] = user
	}
	return s
}

func (s *fakeUserStorage) Get(_ context.Context, id string) (*entity.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *user
	return &c, nil
}

type fakeClubStorage struct {
	clubs map[string]*entity.Club
}

func newFakeClubStorage(clubs ...*entity.Club) *fakeClubStorage {
	s := &fakeClubStorage{clubs: make(map[string]*entity.Club)}
	for _, club := range clubs {
		s.clubs[club.ID] = club
	}
	return s
}

func (s *fakeClubStorage) Get(_ context.Context, id string) (*entity.Club, error) {
	club, ok := s.clubs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *club
	return &c, nil
}

// fakePermissions answers every role predicate from fixed flags.
type fakePermissions struct {
	staff     bool
	president bool
	officer   bool
	manager   bool
	lead      bool
	teamLead  bool
}

func (p *fakePermissions) IsStaff(context.Context, string) (bool, error) {
	return p.staff, nil
}

func (p *fakePermissions) IsClubPresident(context.Context, string, string) (bool, error) {
	return p.president, nil
}

func (p *fakePermissions) IsClubOfficer(context.Context, string, string) (bool, error) {
	return p.officer, nil
}

func (p *fakePermissions) IsClubManager(context.Context, string, string) (bool, error) {
	return p.manager, nil
}

func (p *fakePermissions) IsLead(context.Context, string, string) (bool, error) {
	return p.lead, nil
}

func (p *fakePermissions) IsTeamLead(context.Context, string, string, string) (bool, error) {
	return p.teamLead, nil
}

func (p *fakePermissions) CanCreateEvent(context.Context, string, string) (bool, error) {
	return p.manager, nil
}

func (p *fakePermissions) CanApproveAtClub(context.Context, string, string) (bool, error) {
	return p.president, nil
}

type broadcastCall struct {
	target    string
	channel   string
	eventType string
}

type fakeBroadcaster struct {
	calls []broadcastCall
}

func (b *fakeBroadcaster) BroadcastToUser(_ context.Context, email, channel, eventType string, _ interface{}) error {
	b.calls = append(b.calls, broadcastCall{"user:" + email, channel, eventType})
	return nil
}

func (b *fakeBroadcaster) BroadcastToClub(_ context.Context, clubID, channel, eventType string, _ interface{}) error {
	b.calls = append(b.calls, broadcastCall{"club:" + clubID, channel, eventType})
	return nil
}

func (b *fakeBroadcaster) BroadcastToSystemRole(_ context.Context, role, channel, eventType string, _ interface{}) error {
	b.calls = append(b.calls, broadcastCall{"role:" + role, channel, eventType})
	return nil
}

func (b *fakeBroadcaster) BroadcastSystemWide(_ context.Context, channel, eventType string, _ interface{}) error {
	b.calls = append(b.calls, broadcastCall{"system", channel, eventType})
	return nil
}

type sentNotification struct {
	recipientID string
	actorID     string
	input       NotificationInput
}

type fakeNotifier struct {
	sent []sentNotification
}

func (n *fakeNotifier) SendToUser(_ context.Context, recipientID, actorID string, input NotificationInput) (*entity.Notification, error) {
	n.sent = append(n.sent, sentNotification{recipientID, actorID, input})
	return &entity.Notification{RecipientID: recipientID}, nil
}

func (n *fakeNotifier) SendToUsers(ctx context.Context, recipientIDs []string, actorID string, input NotificationInput) error {
	for _, recipientID := range recipientIDs {
		if _, err := n.SendToUser(ctx, recipientID, actorID, input); err != nil {
			return err
		}
	}
	return nil
}

type fakeEventStorage struct {
	seq    int
	events map[string]*entity.Event
}

func newFakeEventStorage(events ...*entity.Event) *fakeEventStorage {
	s := &fakeEventStorage{events: make(map[string]*entity.Event)}
	for _, event := range events {
		s.events[event.ID] = event
	}
	return s
}

func (s *fakeEventStorage) Create(_ context.Context, event *entity.Event) (*entity.Event, error) {
	if event.ID == "" {
		s.seq++
		event.ID = fmt.Sprintf("event-%d", s.seq)
	}
	c := *event
	s.events[event.ID] = &c
	return event, nil
}

func (s *fakeEventStorage) Get(_ context.Context, id string) (*entity.Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *event
	return &c, nil
}

func (s *fakeEventStorage) Update(_ context.Context, event *entity.Event) (*entity.Event, error) {
	c := *event
	s.events[event.ID] = &c
	return event, nil
}

func (s *fakeEventStorage) Delete(_ context.Context, id string) error {
	delete(s.events, id)
	return nil
}

func (s *fakeEventStorage) GetPublished(context.Context, int, int) ([]entity.Event, error) {
	var out []entity.Event
	for _, event := range s.events {
		if !event.IsDraft {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (s *fakeEventStorage) GetDraftsByClubID(_ context.Context, clubID string) ([]entity.Event, error) {
	var out []entity.Event
	for _, event := range s.events {
		if event.IsDraft && event.ClubID != nil && *event.ClubID == clubID {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (s *fakeEventStorage) GetUpcoming(_ context.Context, before time.Time) ([]entity.Event, error) {
	var out []entity.Event
	for _, event := range s.events {
		if !event.IsDraft && event.StartTime.Before(before) && event.StartTime.After(time.Now()) {
			out = append(out, *event)
		}
	}
	return out, nil
}

type fakeEventRequestStorage struct {
	seq      int
	requests map[string]*entity.EventRequest
}

func newFakeEventRequestStorage(requests ...*entity.EventRequest) *fakeEventRequestStorage {
	s := &fakeEventRequestStorage{requests: make(map[string]*entity.EventRequest)}
	for _, request := range requests {
		s.requests[request.ID] = request
	}
	return s
}

func (s *fakeEventRequestStorage) Create(_ context.Context, request *entity.EventRequest) (*entity.EventRequest, error) {
	if request.ID == "" {
		s.seq++
		request.ID = fmt.Sprintf("request-%d", s.seq)
	}
	c := *request
	s.requests[request.ID] = &c
	return request, nil
}

func (s *fakeEventRequestStorage) Get(_ context.Context, id string) (*entity.EventRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *request
	return &c, nil
}

func (s *fakeEventRequestStorage) GetByStatus(_ context.Context, status entity.RequestStatus) ([]entity.EventRequest, error) {
	var out []entity.EventRequest
	for _, request := range s.requests {
		if request.Status == status {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (s *fakeEventRequestStorage) CountPending(_ context.Context, eventID string) (int64, error) {
	var count int64
	for _, request := range s.requests {
		if request.EventID == eventID && !request.Status.Terminal() {
			count++
		}
	}
	return count, nil
}

func (s *fakeEventRequestStorage) UpdateStatus(_ context.Context, id string, from, to entity.RequestStatus) (bool, error) {
	request, ok := s.requests[id]
	if !ok || request.Status != from {
		return false, nil
	}
	request.Status = to
	return true, nil
}

type fakeNewsStorage struct {
	seq  int
	news map[string]*entity.News

	hiddenCalls    []string
	spotlightCalls []string
}

func newFakeNewsStorage(news ...*entity.News) *fakeNewsStorage {
	s := &fakeNewsStorage{news: make(map[string]*entity.News)}
	for _, item := range news {
		s.news[item.ID] = item
	}
	return s
}

func (s *fakeNewsStorage) Create(_ context.Context, news *entity.News) (*entity.News, error) {
	if news.ID == "" {
		s.seq++
		news.ID = fmt.Sprintf("news-%d", s.seq)
	}
	c := *news
	s.news[news.ID] = &c
	return news, nil
}

func (s *fakeNewsStorage) Get(_ context.Context, id string) (*entity.News, error) {
	news, ok := s.news[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *news
	return &c, nil
}

func (s *fakeNewsStorage) Update(_ context.Context, news *entity.News) (*entity.News, error) {
	c := *news
	s.news[news.ID] = &c
	return news, nil
}

func (s *fakeNewsStorage) Delete(_ context.Context, id string) error {
	delete(s.news, id)
	return nil
}

func (s *fakeNewsStorage) SetHidden(_ context.Context, id string, hidden bool) error {
	s.hiddenCalls = append(s.hiddenCalls, fmt.Sprintf("%s=%t", id, hidden))
	s.news[id].Hidden = hidden
	return nil
}

func (s *fakeNewsStorage) SetSpotlight(_ context.Context, id string, spotlight bool) error {
	s.spotlightCalls = append(s.spotlightCalls, fmt.Sprintf("%s=%t", id, spotlight))
	s.news[id].Spotlight = spotlight
	return nil
}

func (s *fakeNewsStorage) GetPublished(context.Context, int, int) ([]entity.News, error) {
	var out []entity.News
	for _, news := range s.news {
		if !news.IsDraft && !news.Hidden && !news.Deleted {
			out = append(out, *news)
		}
	}
	return out, nil
}

func (s *fakeNewsStorage) GetSpotlight(context.Context) ([]entity.News, error) {
	var out []entity.News
	for _, news := range s.news {
		if news.Spotlight {
			out = append(out, *news)
		}
	}
	return out, nil
}

func (s *fakeNewsStorage) GetDraftsByCreator(_ context.Context, userID string) ([]entity.News, error) {
	var out []entity.News
	for _, news := range s.news {
		if news.IsDraft && !news.Submitted && news.CreatedByID == userID {
			out = append(out, *news)
		}
	}
	return out, nil
}

func (s *fakeNewsStorage) GetDraftsByClubID(_ context.Context, clubID string) ([]entity.News, error) {
	var out []entity.News
	for _, news := range s.news {
		if news.IsDraft && !news.Submitted && news.ClubID != nil && *news.ClubID == clubID {
			out = append(out, *news)
		}
	}
	return out, nil
}

type fakeNewsRequestStorage struct {
	seq      int
	requests map[string]*entity.NewsRequest
}

func newFakeNewsRequestStorage(requests ...*entity.NewsRequest) *fakeNewsRequestStorage {
	s := &fakeNewsRequestStorage{requests: make(map[string]*entity.NewsRequest)}
	for _, request := range requests {
		s.requests[request.ID] = request
	}
	return s
}

func (s *fakeNewsRequestStorage) Create(_ context.Context, request *entity.NewsRequest) (*entity.NewsRequest, error) {
	if request.ID == "" {
		s.seq++
		request.ID = fmt.Sprintf("request-%d", s.seq)
	}
	c := *request
	s.requests[request.ID] = &c
	return request, nil
}

func (s *fakeNewsRequestStorage) Get(_ context.Context, id string) (*entity.NewsRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *request
	return &c, nil
}

func (s *fakeNewsRequestStorage) GetByStatus(_ context.Context, status entity.RequestStatus) ([]entity.NewsRequest, error) {
	var out []entity.NewsRequest
	for _, request := range s.requests {
		if request.Status == status {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (s *fakeNewsRequestStorage) CountPending(_ context.Context, newsID string) (int64, error) {
	var count int64
	for _, request := range s.requests {
		if request.NewsID == newsID && !request.Status.Terminal() {
			count++
		}
	}
	return count, nil
}

func (s *fakeNewsRequestStorage) UpdateStatus(_ context.Context, id string, from, to entity.RequestStatus) (bool, error) {
	request, ok := s.requests[id]
	if !ok || request.Status != from {
		return false, nil
	}
	request.Status = to
	return true, nil
}

type fakeManagerStorage struct {
	managers []dto.ClubManager
}

func (s *fakeManagerStorage) GetManagersByClubID(context.Context, string) ([]dto.ClubManager, error) {
	return s.managers, nil
}

type fakeAttendanceStorage struct {
	rows map[string]*entity.Attendance
}

func newFakeAttendanceStorage(rows ...*entity.Attendance) *fakeAttendanceStorage {
	s := &fakeAttendanceStorage{rows: make(map[string]*entity.Attendance)}
	for _, row := range rows {
		s.rows[row.EventID+"/"+row.UserID] = row
	}
	return s
}

func (s *fakeAttendanceStorage) Create(_ context.Context, attendance *entity.Attendance) (*entity.Attendance, error) {
	c := *attendance
	s.rows[attendance.EventID+"/"+attendance.UserID] = &c
	return attendance, nil
}

func (s *fakeAttendanceStorage) Get(_ context.Context, eventID, userID string) (*entity.Attendance, error) {
	row, ok := s.rows[eventID+"/"+userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *row
	return &c, nil
}

func (s *fakeAttendanceStorage) Update(_ context.Context, attendance *entity.Attendance) (*entity.Attendance, error) {
	c := *attendance
	s.rows[attendance.EventID+"/"+attendance.UserID] = &c
	return attendance, nil
}

func (s *fakeAttendanceStorage) Delete(_ context.Context, eventID, userID string) error {
	delete(s.rows, eventID+"/"+userID)
	return nil
}

func (s *fakeAttendanceStorage) GetByEventID(_ context.Context, eventID string) ([]entity.Attendance, error) {
	var out []entity.Attendance
	for _, row := range s.rows {
		if row.EventID == eventID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *fakeAttendanceStorage) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	rows, _ := s.GetByEventID(ctx, eventID)
	return int64(len(rows)), nil
}

func (s *fakeAttendanceStorage) CountPresentByEventID(_ context.Context, eventID string) (int64, error) {
	var count int64
	for _, row := range s.rows {
		if row.EventID == eventID && row.Status == entity.AttendanceStatusPresent {
			count++
		}
	}
	return count, nil
}

func (s *fakeAttendanceStorage) GetUserEvents(context.Context, string, int, int) ([]dto.UserEvent, error) {
	return nil, nil
}

type fakeCodeStorage struct {
	codes map[string]codes.Code
}

func newFakeCodeStorage() *fakeCodeStorage {
	return &fakeCodeStorage{codes: make(map[string]codes.Code)}
}

func (s *fakeCodeStorage) Get(_ context.Context, key string) (codes.Code, error) {
	code, ok := s.codes[key]
	if !ok {
		return codes.Code{}, fmt.Errorf("code %s not found", key)
	}
	return code, nil
}

func (s *fakeCodeStorage) Set(_ context.Context, key, code, codeContext string, _ time.Duration) {
	s.codes[key] = codes.Code{Code: code, CodeContext: codeContext}
}

func (s *fakeCodeStorage) Clear(_ context.Context, key string) {
	delete(s.codes, key)
}

type smtpSend struct {
	to      string
	subject string
}

type fakeSMTPClient struct {
	confirmations map[string]string
	sends         []smtpSend
}

func newFakeSMTPClient() *fakeSMTPClient {
	return &fakeSMTPClient{confirmations: make(map[string]string)}
}

func (c *fakeSMTPClient) SendConfirmationEmail(to string, code string) {
	c.confirmations[to] = code
}

func (c *fakeSMTPClient) Send(to, subject, _, _ string, _ *bytes.Buffer) {
	c.sends = append(c.sends, smtpSend{to: to, subject: subject})
}
