package service

import (
	"errors"
	"fmt"

	"github.com/campushub/clubs-backend/internal/domain/common/errorz"
	"gorm.io/gorm"
)

// notFoundOr maps a storage miss onto the NotFound error kind and passes
// every other storage error through untouched.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, errorz.ErrNotFound)
	}
	return err
}
