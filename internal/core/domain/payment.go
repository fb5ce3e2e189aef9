package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Payment is an immutable log entry for one completed money movement.
// Sender is either a username or an external source label (deposits).
type Payment struct {
	PaymentID string          `json:"paymentID"`
	Amount    decimal.Decimal `json:"amount"` // always positive
	Sender    string          `json:"sender"`
	Receiver  string          `json:"receiver"`
	Timestamp time.Time       `json:"timestamp"`
}

// PaymentHistory is the ordered, append-only sequence of an account's payments.
// Insertion order is chronological.
type PaymentHistory []Payment

// Append returns the history with the record added. Existing records are never
// modified or deduplicated.
func (h PaymentHistory) Append(p Payment) PaymentHistory {
	return append(h, p)
}

// EncodeLegacyRow renders a payment in the row format the old document store
// used: "{sender} -> {amount} -> {receiver}".
func (p Payment) EncodeLegacyRow() string {
	return fmt.Sprintf("%s -> %s -> %s", p.Sender, p.Amount.String(), p.Receiver)
}

// ParseLegacyRow parses a "{sender} -> {amount} -> {receiver}" row back into a
// payment. Only sender, receiver and amount survive the round trip; the
// timestamp and ID are not part of the legacy encoding.
func ParseLegacyRow(row string) (Payment, error) {
	parts := strings.Split(row, " -> ")
	if len(parts) != 3 {
		return Payment{}, fmt.Errorf("%w: malformed history row %q", apperrors.ErrValidation, row)
	}
	amount, err := decimal.NewFromString(parts[1])
	if err != nil {
		return Payment{}, fmt.Errorf("%w: bad amount in history row %q", apperrors.ErrValidation, row)
	}
	return Payment{
		Amount:   amount,
		Sender:   parts[0],
		Receiver: parts[2],
	}, nil
}
