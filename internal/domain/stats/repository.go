package stats

import "context"

// Repository describes per-match player stat persistence.
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]PlayerMatchStat, error)
	// ListByMatches returns stats for the given matches preserving the order
	// of matchIDs, so callers can resolve "first stat per player" policies
	// deterministically.
	ListByMatches(ctx context.Context, matchIDs []string) ([]PlayerMatchStat, error)
	// Insert writes a stat row; it must fail or no-op when a row for the same
	// (player, match) pair already exists, never duplicate it.
	Insert(ctx context.Context, s PlayerMatchStat) error
	Exists(ctx context.Context, playerID, matchID string) (bool, error)
}
