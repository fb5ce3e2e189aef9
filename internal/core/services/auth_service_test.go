package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/services"
	"github.com/edmbank/edmbank_backend/internal/platform/config"
	"github.com/edmbank/edmbank_backend/internal/utils"
)

func authConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "edmbank-test",
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAuthService(repo, authConfig())

	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)

	acc := account("alice", 100, "IBANEDM00000000000000001")
	acc.PasswordHash = hash
	repo.On("FindByUsername", mock.Anything, "alice").Return(acc, nil)

	token, expiresAt, got, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "edmbank-test", claims.Issuer)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAuthService(repo, authConfig())

	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)

	acc := account("alice", 100, "IBANEDM00000000000000001")
	acc.PasswordHash = hash
	repo.On("FindByUsername", mock.Anything, "alice").Return(acc, nil)

	_, _, _, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAuthService(repo, authConfig())

	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

	_, _, _, err := svc.Login(context.Background(), "ghost", "whatever")
	// Unknown usernames fail the same way as bad passwords.
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
