package service

import "errors"

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	ErrEmailTaken               = errors.New("service: email already registered")
	ErrCurrentPasswordIncorrect = errors.New("service: current password incorrect")
	ErrUserNotFound             = errors.New("service: user not found")
)
