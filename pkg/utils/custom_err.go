package utils

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrMissingSecret = errors.New("jwt secret is not configured")
)
