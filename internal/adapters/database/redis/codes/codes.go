package codes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"github.com/redis/go-redis/v9"
)

// Storage keeps short-lived codes (event check-in, email confirmation) with
// an optional context string attached.
type Storage struct {
	redis  *redis.Client
	prefix string
}

func NewStorage(client *redis.Client, prefix string) *Storage {
	return &Storage{
		redis:  client,
		prefix: prefix,
	}
}

type Code struct {
	Code        string
	CodeContext string
}

func (s *Storage) key(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

func (s *Storage) Get(ctx context.Context, key string) (Code, error) {
	codeData, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		return Code{}, err
	}

	codeSlice := strings.SplitN(codeData, ":", 2)
	switch len(codeSlice) {
	case 1:
		return Code{Code: codeSlice[0]}, nil
	case 2:
		return Code{Code: codeSlice[0], CodeContext: codeSlice[1]}, nil
	}
	return Code{}, errorz.ErrInvalidCode
}

func (s *Storage) Set(ctx context.Context, key, code, codeContext string, expiration time.Duration) {
	s.redis.Set(ctx, s.key(key), fmt.Sprintf("%s:%s", code, codeContext), expiration)
}

func (s *Storage) Clear(ctx context.Context, key string) {
	s.redis.Del(ctx, s.key(key))
}
