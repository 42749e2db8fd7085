package squad

import "context"

// Repository describes squad persistence needs from use cases. Save replaces
// the full squad state in one transaction; callers do read-validate-save.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (Squad, bool, error)
	ListUserIDs(ctx context.Context) ([]string, error)
	Save(ctx context.Context, s Squad) error
	Delete(ctx context.Context, squadID string) error
}
