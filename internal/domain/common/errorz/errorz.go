package errorz

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidCode  = errors.New("invalid code")
	ErrUpload       = errors.New("upload failed")
)
