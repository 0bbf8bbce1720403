package service

import "errors"

// Failure kinds surfaced by the account services. Handlers translate these
// with errors.Is; internal distinctions (user missing vs. wrong password) are
// deliberately collapsed into ErrInvalidCredentials so responses never leak
// which part of a credential was wrong.
var (
	ErrInvalidCredentials = errors.New("service: invalid credentials")
	ErrAccountDisabled    = errors.New("service: account disabled")
	ErrEmailTaken         = errors.New("service: email already taken")
	ErrSelfAction         = errors.New("service: cannot change own status")
	ErrUserNotFound       = errors.New("service: user not found")
)
