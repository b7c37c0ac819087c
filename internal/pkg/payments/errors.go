package payments

import "errors"

var (
	// ErrInvalidSignature marks webhook payloads whose signature did not
	// verify; callers must answer with an explicit error status so the
	// provider retries.
	ErrInvalidSignature = errors.New("webhook signature verification failed")

	// ErrSessionNotFound is returned when no checkout session exists for a
	// payment intent. The session lookup is a best-effort fallback, so this
	// is expected for payments that did not originate here.
	ErrSessionNotFound = errors.New("checkout session not found")
)
