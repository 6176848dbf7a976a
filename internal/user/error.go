package user

import "errors"

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrSelfDelete         = errors.New("cannot delete your own account")
)
