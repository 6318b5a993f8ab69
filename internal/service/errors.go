package service

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
)
