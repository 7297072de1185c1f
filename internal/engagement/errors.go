package engagement

import "errors"

var (
	// ErrAlreadyLiked is returned when the store's unique index rejects a
	// duplicate like. Callers surface it as a distinguishable conflict,
	// never a silent success.
	ErrAlreadyLiked = errors.New("already liked")

	// ErrNotFound covers a missing post, comment or like subject.
	ErrNotFound = errors.New("not found")

	// ErrValidation wraps input problems: empty or over-length content,
	// cross-post parents, replies to replies.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition is returned for moderation moves outside
	// pending→approved and pending→spam.
	ErrInvalidTransition = errors.New("invalid moderation transition")
)
