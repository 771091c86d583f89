package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/clubs-backend/internal/adapters/database/redis/codes"
	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"github.com/campushub/clubs-backend/internal/domain/entity"
	"github.com/campushub/clubs-backend/pkg/generator"
)

const confirmationCodeTTL = 15 * time.Minute

type userStorage interface {
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Get(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) (*entity.User, error)
	Count(ctx context.Context) (int64, error)
	GetWithPagination(ctx context.Context, limit, offset int, order string) ([]entity.User, error)
}

type confirmationCodeStorage interface {
	Get(ctx context.Context, key string) (codes.Code, error)
	Set(ctx context.Context, key, code, codeContext string, expiration time.Duration)
	Clear(ctx context.Context, key string)
}

type smtpClient interface {
	SendConfirmationEmail(to string, code string)
}

type UserService struct {
	storage     userStorage
	codeStorage confirmationCodeStorage
	smtpClient  smtpClient
}

func NewUserService(storage userStorage, codeStorage confirmationCodeStorage, smtpClient smtpClient) *UserService {
	return &UserService{
		storage:     storage,
		codeStorage: codeStorage,
		smtpClient:  smtpClient,
	}
}

func (s *UserService) Create(ctx context.Context, user entity.User) (*entity.User, error) {
	if user.Role == "" {
		user.Role = entity.SystemRoleStudent
	}
	return s.storage.Create(ctx, &user)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.storage.Get(ctx, id)
	return user, notFoundOr(err, "user")
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.storage.GetByEmail(ctx, email)
	return user, notFoundOr(err, "user")
}

func (s *UserService) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	return s.storage.Update(ctx, user)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.storage.Count(ctx)
}

func (s *UserService) GetWithPagination(ctx context.Context, limit, offset int, order string) ([]entity.User, error) {
	return s.storage.GetWithPagination(ctx, limit, offset, order)
}

// Ban toggles the user's ban flag.
func (s *UserService) Ban(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	user.IsBanned = !user.IsBanned
	return s.storage.Update(ctx, user)
}

// SendConfirmationCode mails a short-lived confirmation code to the address.
func (s *UserService) SendConfirmationCode(ctx context.Context, email string) error {
	code, err := generator.RandomCode(8)
	if err != nil {
		return err
	}

	s.codeStorage.Set(ctx, email, code, "", confirmationCodeTTL)
	s.smtpClient.SendConfirmationEmail(email, code)
	return nil
}

// ConfirmEmail checks the code previously mailed to the address.
func (s *UserService) ConfirmEmail(ctx context.Context, email, code string) error {
	stored, err := s.codeStorage.Get(ctx, email)
	if err != nil || stored.Code != code {
		return fmt.Errorf("confirmation of %s: %w", email, errorz.ErrInvalidCode)
	}

	s.codeStorage.Clear(ctx, email)
	return nil
}
