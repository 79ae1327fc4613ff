package user

import (
	"errors"
)

var (
	ErrIdentifierAlreadyExists = errors.New("identifier already exists")
	ErrUserDoesNotExist        = errors.New("user does not exist")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrSessionDoesNotExist     = errors.New("session does not exist")
	ErrAccountDisabled         = errors.New("account is disabled")
	ErrInvalidResetSecret      = errors.New("invalid password reset secret")

	ErrIdentifierIsEmpty = errors.New("identifier must not be empty")
	ErrPasswordIsEmpty   = errors.New("password must not be empty")
	ErrPasswordTooShort  = errors.New("password is too short")
)
