package purchases

import "errors"

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrInvalidTransition is returned when a webhook tries to move a
	// purchase out of a terminal status (e.g. failed -> completed).
	ErrInvalidTransition = errors.New("invalid purchase status transition")

	// ErrUpstream wraps payment provider failures.
	ErrUpstream = errors.New("payment provider request failed")
)
