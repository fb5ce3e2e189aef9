package domain

import "time"

// SupportRequestStatus tracks the lifecycle of a customer concern.
type SupportRequestStatus string

const (
	RequestOpen   SupportRequestStatus = "Open"
	RequestClosed SupportRequestStatus = "Closed"
)

// SupportRequest is a customer concern filed through the contact screen. It is
// passed through to the support backend untouched by the ledger.
type SupportRequest struct {
	RequestID string               `json:"requestID"`
	Username  string               `json:"username"`
	Email     string               `json:"email"`
	Title     string               `json:"title"`
	Concern   string               `json:"concern"`
	Status    SupportRequestStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
}
