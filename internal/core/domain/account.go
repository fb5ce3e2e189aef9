package domain

import (
	"fmt"
	"strings"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Card holds the payment card issued to an account at registration.
// Number and IBAN are globally unique across all accounts.
type Card struct {
	Number     string `json:"number"`     // 16-digit numeric string
	CVV        string `json:"cvv"`        // 3-digit numeric string
	ExpiryDate string `json:"expiryDate"` // MM/YY
	IBAN       string `json:"iban"`       // "IBANEDM" prefix + 17 digits, 24 chars total
}

// Account represents a customer's banking record. Username is the primary key
// and is immutable outside the explicit rename flow.
type Account struct {
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"` // opaque bcrypt hash, never leaves the auth boundary
	Email        string          `json:"email"`
	Balance      decimal.Decimal `json:"balance"` // invariant: >= 0 after any committed operation
	Card         Card            `json:"card"`
	History      PaymentHistory  `json:"history"`
}

// NewAccount builds a fresh account with zero balance and empty history.
// Validation happens here, at the construction boundary.
func NewAccount(username, passwordHash, email string, card Card) (Account, error) {
	if strings.TrimSpace(username) == "" {
		return Account{}, fmt.Errorf("%w: username must not be empty", apperrors.ErrValidation)
	}
	if passwordHash == "" {
		return Account{}, fmt.Errorf("%w: password hash must not be empty", apperrors.ErrValidation)
	}
	if err := ValidateEmail(email); err != nil {
		return Account{}, err
	}
	return Account{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		Balance:      decimal.Zero,
		Card:         card,
		History:      PaymentHistory{},
	}, nil
}

// ValidateEmail applies the registration email rule: the address must contain
// both "@" and ".".
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fmt.Errorf("%w: invalid email %q", apperrors.ErrValidation, email)
	}
	return nil
}
