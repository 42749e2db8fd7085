package player

import "context"

// Filters narrows and orders catalog listings.
type Filters struct {
	Search   string
	Position Position
	TeamID   string
	// SortBy is one of "price", "rating", "name". Empty means "rating".
	SortBy   string
	SortAsc  bool
	Page     int
	PageSize int
}

// Repository describes player reference-data reads from use cases.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	ListByTeams(ctx context.Context, teamIDs []string) ([]Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
}
