package domain

import "errors"

var (
	ErrPoolNotResolved   = errors.New("UsersPoolNotFound")
	ErrPayloadMissing    = errors.New("PayloadDoesntExist")
	ErrUsernameMissing   = errors.New("NotFoundUsername")
	ErrPasswordMissing   = errors.New("NotFoundPasswordForAuth")
	ErrUnsupportedMethod = errors.New("method not allowed")

	ErrNoPoolSelected = errors.New("no user pool matched the selection")
	ErrAmbiguousPool  = errors.New("more than one user pool available")
)
