package services

import (
	"context"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade covers the account lifecycle: registration, deposits and
// withdrawals against external sources, profile edits and deletion.
type AccountSvcFacade interface {
	// Register creates a new account with zero balance, an empty history and a
	// freshly issued unique card. The password is hashed here; it is never
	// stored in cleartext. Fails with apperrors.ErrDuplicate when the username
	// is taken.
	Register(ctx context.Context, username, password, email string) (*domain.Account, error)

	// Deposit credits the account from an external source identified by
	// sourceLabel (e.g. a card number outside this ledger).
	Deposit(ctx context.Context, username string, amount decimal.Decimal, sourceLabel string) error

	// Withdraw debits the account towards an external destination.
	Withdraw(ctx context.Context, username string, amount decimal.Decimal, destLabel string) error

	// GetAccount returns the account's current state.
	GetAccount(ctx context.Context, username string) (*domain.Account, error)

	// GetHistory returns the account's payment history in chronological order.
	GetHistory(ctx context.Context, username string) (domain.PaymentHistory, error)

	// DeleteAccount removes the account permanently.
	DeleteAccount(ctx context.Context, username string) error

	// RenameAccount re-keys the account under a new unique username.
	RenameAccount(ctx context.Context, oldUsername, newUsername string) error

	// UpdateEmail changes the account's contact address after validation.
	UpdateEmail(ctx context.Context, username, email string) error

	// IsUsernameAvailable reports whether the username is free to register.
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)

	// IsCardNumberAvailable reports whether no account holds the card number.
	IsCardNumberAvailable(ctx context.Context, number string) (bool, error)
}
