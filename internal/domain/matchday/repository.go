package matchday

import "context"

// Repository describes matchday and match persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Matchday, error)
	GetByID(ctx context.Context, matchdayID string) (Matchday, bool, error)
	// ActiveMatchday is the earliest non-RESULTS matchday by start date, or
	// the most recent one when every matchday has reached RESULTS.
	ActiveMatchday(ctx context.Context) (Matchday, bool, error)
	UpdateStatus(ctx context.Context, matchdayID string, status Status) error

	ListMatches(ctx context.Context, matchdayID string) ([]Match, error)
	SaveMatch(ctx context.Context, m Match) error
}
