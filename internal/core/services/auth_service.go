package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
	"github.com/edmbank/edmbank_backend/internal/middleware"
	"github.com/edmbank/edmbank_backend/internal/platform/config"
	"github.com/edmbank/edmbank_backend/internal/utils"
)

// authService verifies credentials against the stored bcrypt hash and issues
// JWT access tokens.
type authService struct {
	accountRepo portsrepo.AccountReader
	cfg         *config.Config
}

// NewAuthService creates a new AuthSvcFacade.
func NewAuthService(accountRepo portsrepo.AccountReader, cfg *config.Config) portssvc.AuthSvcFacade {
	return &authService{
		accountRepo: accountRepo,
		cfg:         cfg,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, *domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same failure as a wrong password, so callers cannot probe which
			// usernames exist.
			return "", time.Time{}, nil, apperrors.ErrUnauthorized
		}
		return "", time.Time{}, nil, fmt.Errorf("looking up account for login: %w", err)
	}

	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		logger.Warn("Login rejected", slog.String("username", username))
		return "", time.Time{}, nil, apperrors.ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(account.Username, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, nil, fmt.Errorf("generating access token: %w", err)
	}

	logger.Info("Login succeeded", slog.String("username", username))
	return token, expiresAt, account, nil
}
