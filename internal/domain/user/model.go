package user

import "fmt"

// Principal is the authenticated caller identity resolved by the request
// layer. Auth internals live outside this service.
type Principal struct {
	UserID string
	Name   string
	Email  string
}

func (p Principal) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("principal user id is required")
	}

	return nil
}
