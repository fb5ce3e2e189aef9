package repositories

import (
	"context"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
)

// SupportRequestRepository persists customer support requests.
type SupportRequestRepository interface {
	// SaveRequest persists a new support request.
	SaveRequest(ctx context.Context, req domain.SupportRequest) error

	// ListRequestsByUsername returns the user's requests, newest first.
	ListRequestsByUsername(ctx context.Context, username string) ([]domain.SupportRequest, error)
}
