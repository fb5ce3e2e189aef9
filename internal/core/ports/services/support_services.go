package services

import (
	"context"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
)

// SupportSvcFacade files customer concerns. The ledger passes these through
// untouched; resolution happens in an external support system.
type SupportSvcFacade interface {
	// CreateSupportRequest files a new request and returns its generated ID.
	CreateSupportRequest(ctx context.Context, username, email, title, concern string) (requestID string, err error)

	// ListSupportRequests returns the user's filed requests, newest first.
	ListSupportRequests(ctx context.Context, username string) ([]domain.SupportRequest, error)
}
