package checkout

import "errors"

var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInvalidCart       = errors.New("invalid cart")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrPersistence       = errors.New("failed to persist order")
	ErrTimeout           = errors.New("checkout deadline exceeded")
	ErrIllegalTransition = errors.New("illegal checkout state transition")
)
