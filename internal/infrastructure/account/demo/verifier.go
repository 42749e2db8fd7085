package demo

import (
	"context"
	"fmt"
	"strings"

	"github.com/fantasyfecha/fantasy-api/internal/domain/user"
	"github.com/fantasyfecha/fantasy-api/internal/usecase"
)

// Verifier accepts any non-empty bearer token and treats it as the user ID.
// Used when no account service is configured, so local and demo deployments
// can exercise the authorized routes without real auth.
type Verifier struct{}

func NewVerifier() Verifier {
	return Verifier{}
}

func (Verifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	userID := strings.TrimSpace(token)
	if userID == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID: userID,
		Name:   userID,
	}, nil
}
