package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransferSvcFacade moves money between two accounts atomically. Both variants
// share one commit path; they differ only in how the receiver is resolved.
type TransferSvcFacade interface {
	// Transfer moves amount from the sender to the receiver, both identified
	// by username. Fails with apperrors.ErrInvalidAmount, ErrNotFound,
	// ErrSelfTransfer or ErrInsufficientFunds; on any failure no state changes.
	Transfer(ctx context.Context, senderUsername, receiverUsername string, amount decimal.Decimal) error

	// TransferByIBAN is Transfer with the receiver resolved by IBAN lookup.
	TransferByIBAN(ctx context.Context, senderUsername, recipientIBAN string, amount decimal.Decimal) error
}
