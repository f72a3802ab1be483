package domain

import "errors"

// ErrInvalidID and related errors describe validation failures.
var (
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidTitle     = errors.New("invalid title")
	ErrInvalidRevenue   = errors.New("invalid revenue")
	ErrInvalidTimeTaken = errors.New("invalid time taken")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidStatus    = errors.New("invalid status")
)
