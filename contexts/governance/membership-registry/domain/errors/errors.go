package errors

import "errors"

var (
	ErrInvalidMintInput    = errors.New("invalid mint input")
	ErrInvalidUpdateInput  = errors.New("invalid token update input")
	ErrInvalidProfileField = errors.New("unknown profile field")
	ErrDuplicateToken      = errors.New("token already exists for this account")
	ErrTokenNotFound       = errors.New("membership token not found")
	ErrUnauthorized        = errors.New("caller is not the registry administrator")
	ErrNonTransferable     = errors.New("membership tokens are non-transferable")
	ErrConflict            = errors.New("registry state conflict")
)
