package scoring

import "context"

// Repository describes points persistence. UpsertMatchdayPoints and
// ReplacePlayerPoints together implement the delete-then-recreate contract:
// calling them twice with the same inputs leaves identical state.
type Repository interface {
	GetMatchdayPoints(ctx context.Context, userID, matchdayID string) (MatchdayPoints, bool, error)
	ListByMatchday(ctx context.Context, matchdayID string) ([]MatchdayPoints, error)
	ListAll(ctx context.Context) ([]MatchdayPoints, error)
	UpsertMatchdayPoints(ctx context.Context, p MatchdayPoints) (MatchdayPoints, error)

	ListPlayerPoints(ctx context.Context, matchdayPointsID string) ([]SquadPlayerPoints, error)
	ReplacePlayerPoints(ctx context.Context, matchdayPointsID string, rows []SquadPlayerPoints) error
}
