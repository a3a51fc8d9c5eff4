package services

import "errors"

// Common errors
var (
	ErrTaskNotFound            = errors.New("task not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrRequestNotFound         = errors.New("request not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidToken            = errors.New("invalid token")
	ErrForbidden               = errors.New("forbidden")
	ErrSelfAction              = errors.New("cannot perform this action on your own account")
	ErrUsernameTaken           = errors.New("username already taken")
	ErrWeakPassword            = errors.New("password must be at least 8 characters")
	ErrTaskAlreadyCompleted    = errors.New("task is already completed")
	ErrDuplicatePendingRequest = errors.New("task already has a pending completion request")
	ErrRequestAlreadyResolved  = errors.New("request has already been resolved")
	ErrInternal                = errors.New("internal server error")
)
