package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
	"github.com/edmbank/edmbank_backend/internal/utils"
)

// CardResponse exposes the card issued to the account.
type CardResponse struct {
	Number     string `json:"number"`
	CVV        string `json:"cvv"`
	ExpiryDate string `json:"expiryDate"`
	IBAN       string `json:"iban"`
}

// AccountResponse is the account as shown on the profile screen. The balance
// is pre-formatted for display; the password hash is never included.
type AccountResponse struct {
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Balance  string       `json:"balance"`
	Card     CardResponse `json:"card"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		Username: account.Username,
		Email:    account.Email,
		Balance:  utils.FormatBalance(account.Balance),
		Card: CardResponse{
			Number:     account.Card.Number,
			CVV:        account.Card.CVV,
			ExpiryDate: account.Card.ExpiryDate,
			IBAN:       account.Card.IBAN,
		},
	}
}

// DepositRequest credits the account from an external source.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Source string          `json:"source" binding:"required"`
}

// WithdrawRequest debits the account towards an external destination.
type WithdrawRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Destination string          `json:"destination" binding:"required"`
}

// RenameRequest changes the account's username.
type RenameRequest struct {
	NewUsername string `json:"newUsername" binding:"required"`
}

// UpdateEmailRequest changes the account's contact address.
type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// PaymentResponse is one history entry.
type PaymentResponse struct {
	PaymentID string    `json:"paymentID"`
	Amount    string    `json:"amount"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryResponse wraps an account's payment history, oldest first.
type HistoryResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// ToHistoryResponse converts a domain.PaymentHistory to its response DTO.
func ToHistoryResponse(history domain.PaymentHistory) HistoryResponse {
	payments := make([]PaymentResponse, len(history))
	for i, p := range history {
		payments[i] = PaymentResponse{
			PaymentID: p.PaymentID,
			Amount:    p.Amount.String(),
			Sender:    p.Sender,
			Receiver:  p.Receiver,
			Timestamp: p.Timestamp,
		}
	}
	return HistoryResponse{Payments: payments}
}
