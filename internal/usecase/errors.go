package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrSquadLocked is raised by the request layer when the active matchday
	// forbids roster mutation. The roster engine itself never checks it.
	ErrSquadLocked = errors.New("matchday is locked")
)
