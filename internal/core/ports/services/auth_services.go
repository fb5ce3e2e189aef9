package services

import (
	"context"
	"time"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
)

// AuthSvcFacade checks credentials and issues access tokens.
type AuthSvcFacade interface {
	// Login verifies the password against the stored hash and returns a signed
	// access token with its expiry. Fails with apperrors.ErrUnauthorized on an
	// unknown username or a wrong password, without distinguishing the two.
	Login(ctx context.Context, username, password string) (token string, expiresAt time.Time, account *domain.Account, err error)
}
