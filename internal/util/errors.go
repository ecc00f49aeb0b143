package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyEnrolled   = errors.New("already enrolled in course")
	ErrNotEnrolled       = errors.New("not enrolled in course")
	ErrCourseNotFound    = errors.New("course not found")
	ErrQuizNotActive     = errors.New("quiz not active")
	ErrAttemptLimit      = errors.New("quiz attempt limit reached")
	ErrNotEligible       = errors.New("course not completed, certificate not available")
	ErrCertificateIssued = errors.New("certificate already issued")
)
