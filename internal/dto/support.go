package dto

import (
	"time"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
)

// CreateSupportRequestRequest files a customer concern.
type CreateSupportRequestRequest struct {
	Email   string `json:"email" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Concern string `json:"concern" binding:"required"`
}

// SupportRequestResponse is a filed request as returned to the client.
type SupportRequestResponse struct {
	RequestID string    `json:"requestID"`
	Title     string    `json:"title"`
	Concern   string    `json:"concern"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToSupportRequestResponse converts a domain.SupportRequest to its DTO.
func ToSupportRequestResponse(req domain.SupportRequest) SupportRequestResponse {
	return SupportRequestResponse{
		RequestID: req.RequestID,
		Title:     req.Title,
		Concern:   req.Concern,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
	}
}
