package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
	"github.com/edmbank/edmbank_backend/internal/middleware"
)

// supportService files customer concerns for the external support team.
type supportService struct {
	requestRepo portsrepo.SupportRequestRepository
}

// NewSupportService creates a new SupportSvcFacade.
func NewSupportService(requestRepo portsrepo.SupportRequestRepository) portssvc.SupportSvcFacade {
	return &supportService{requestRepo: requestRepo}
}

var _ portssvc.SupportSvcFacade = (*supportService)(nil)

func (s *supportService) CreateSupportRequest(ctx context.Context, username, email, title, concern string) (string, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(concern) == "" {
		return "", fmt.Errorf("%w: title and concern must not be empty", apperrors.ErrValidation)
	}
	if err := domain.ValidateEmail(email); err != nil {
		return "", err
	}

	req := domain.SupportRequest{
		RequestID: uuid.NewString(),
		Username:  username,
		Email:     email,
		Title:     title,
		Concern:   concern,
		Status:    domain.RequestOpen,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.requestRepo.SaveRequest(ctx, req); err != nil {
		return "", fmt.Errorf("saving support request: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Support request filed",
		slog.String("request_id", req.RequestID),
		slog.String("username", username),
	)
	return req.RequestID, nil
}

func (s *supportService) ListSupportRequests(ctx context.Context, username string) ([]domain.SupportRequest, error) {
	return s.requestRepo.ListRequestsByUsername(ctx, username)
}
