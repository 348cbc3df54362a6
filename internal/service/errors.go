package service

import "errors"

var (
	ErrValidation        = errors.New("invalid request")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("already exists")
	ErrInvalidTransition = errors.New("invalid token transition")
	ErrAlreadyUsed       = errors.New("this verification link has already been used")
	ErrLinkExpired       = errors.New("this verification link has expired")
	ErrLinkMalformed     = errors.New("invalid or corrupted verification link")
)
