package errors

import "errors"

var (
	ErrInvalidProposalInput = errors.New("invalid proposal input")
	ErrInvalidVoteInput     = errors.New("invalid vote input")
	ErrProposalNotFound     = errors.New("proposal not found")
	ErrProposalNotActive    = errors.New("proposal is not active")
	ErrAlreadyVoted         = errors.New("account has already voted")
	ErrNotTokenHolder       = errors.New("caller does not hold a membership token")
	ErrConflict             = errors.New("proposal state conflict")
)
