package repositories

import (
	"context"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindByUsername retrieves an account by its username (the primary key).
	// Returns apperrors.ErrNotFound when no such account exists.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)

	// FindByIBAN retrieves an account by its card's IBAN.
	FindByIBAN(ctx context.Context, iban string) (*domain.Account, error)

	// UsernameExists reports whether an account with the username exists.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// CardNumberExists reports whether any account holds a card with the number.
	CardNumberExists(ctx context.Context, number string) (bool, error)

	// IBANExists reports whether any account holds a card with the IBAN.
	IBANExists(ctx context.Context, iban string) (bool, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists an account with full-record replace semantics (upsert).
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes the account permanently. No soft delete, no undo.
	DeleteAccount(ctx context.Context, username string) error

	// UpdateEmail changes the contact address of an existing account.
	UpdateEmail(ctx context.Context, username, email string) error

	// RenameAccount re-keys an account under a new username in one atomic step.
	// Fails with apperrors.ErrDuplicate when the new username is taken.
	RenameAccount(ctx context.Context, oldUsername, newUsername string) error
}

// TransferRecorder applies money movements as single all-or-nothing units.
// Implementations must serialize concurrent movements touching the same
// account and re-check funds after acquiring exclusive access, so that two
// racing debits can never both observe the same pre-transfer balance.
type TransferRecorder interface {
	// RecordTransfer debits payment.Sender, credits payment.Receiver and
	// appends the payment to both histories atomically. Returns the updated
	// accounts. Fails with apperrors.ErrInsufficientFunds when the sender's
	// balance, read under exclusive access, does not cover the amount.
	RecordTransfer(ctx context.Context, payment domain.Payment) (sender, receiver domain.Account, err error)

	// RecordDeposit credits payment.Receiver from an external source
	// (payment.Sender is a source label, not an account) and appends the
	// payment to the receiver's history.
	RecordDeposit(ctx context.Context, payment domain.Payment) (domain.Account, error)

	// RecordWithdrawal debits payment.Sender to an external destination
	// (payment.Receiver is a destination label) with the same funds re-check
	// as RecordTransfer.
	RecordWithdrawal(ctx context.Context, payment domain.Payment) (domain.Account, error)
}

// HistoryReader defines read operations for payment history.
type HistoryReader interface {
	// ListHistory returns the account's payments in chronological order.
	ListHistory(ctx context.Context, username string) (domain.PaymentHistory, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	TransferRecorder
	HistoryReader
}
