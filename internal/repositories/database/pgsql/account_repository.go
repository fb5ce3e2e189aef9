package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
)

// PgxAccountRepository persists accounts and payments in Postgres. Money
// movements run in a single database transaction with the touched account
// rows locked FOR UPDATE, so racing debits of the same sender serialize and
// the funds check is re-run on the locked balance.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = "username, password_hash, email, balance, card_number, cvv, expiry_date, iban"

// row abstracts pgx.Row/pgx.Rows for the scan helper.
type row interface {
	Scan(dest ...any) error
}

func scanAccount(r row) (domain.Account, error) {
	var a domain.Account
	err := r.Scan(
		&a.Username,
		&a.PasswordHash,
		&a.Email,
		&a.Balance,
		&a.Card.Number,
		&a.Card.CVV,
		&a.Card.ExpiryDate,
		&a.Card.IBAN,
	)
	return a, err
}

// FindByUsername returns the account keyed by username. The History field is
// not populated here; use ListHistory.
func (r *PgxAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1;`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, username)
		}
		return nil, apperrors.NewAppError(500, "failed to find account by username", err)
	}
	return &account, nil
}

func (r *PgxAccountRepository) FindByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE iban = $1;`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, iban))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no account holds IBAN %q", apperrors.ErrNotFound, iban)
		}
		return nil, apperrors.NewAppError(500, "failed to find account by IBAN", err)
	}
	return &account, nil
}

func (r *PgxAccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1);`, username)
}

func (r *PgxAccountRepository) CardNumberExists(ctx context.Context, number string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE card_number = $1);`, number)
}

func (r *PgxAccountRepository) IBANExists(ctx context.Context, iban string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE iban = $1);`, iban)
}

func (r *PgxAccountRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var found bool
	if err := r.Pool.QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, apperrors.NewAppError(500, "failed to run existence check", err)
	}
	return found, nil
}

// SaveAccount upserts the account with full-record replace semantics.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (username, password_hash, email, balance, card_number, cvv, expiry_date, iban, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			email         = EXCLUDED.email,
			balance       = EXCLUDED.balance,
			card_number   = EXCLUDED.card_number,
			cvv           = EXCLUDED.cvv,
			expiry_date   = EXCLUDED.expiry_date,
			iban          = EXCLUDED.iban,
			updated_at    = now();
	`
	_, err := r.Pool.Exec(ctx, query,
		account.Username,
		account.PasswordHash,
		account.Email,
		account.Balance,
		account.Card.Number,
		account.Card.CVV,
		account.Card.ExpiryDate,
		account.Card.IBAN,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save account "+account.Username, err)
	}
	return nil
}

func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, username string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE username = $1;`, username)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete account "+username, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %q", apperrors.ErrNotFound, username)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateEmail(ctx context.Context, username, email string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE accounts SET email = $2, updated_at = now() WHERE username = $1;`, username, email)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update email for "+username, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %q", apperrors.ErrNotFound, username)
	}
	return nil
}

// RenameAccount re-keys the account and its payment references in one
// transaction, replacing the old store's delete-and-rewrite of the document.
func (r *PgxAccountRepository) RenameAccount(ctx context.Context, oldUsername, newUsername string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var taken bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1);`, newUsername).Scan(&taken); err != nil {
		return apperrors.NewAppError(500, "failed to check new username", err)
	}
	if taken {
		return fmt.Errorf("%w: username %q", apperrors.ErrDuplicate, newUsername)
	}

	tag, err := tx.Exec(ctx, `UPDATE accounts SET username = $2, updated_at = now() WHERE username = $1;`, oldUsername, newUsername)
	if err != nil {
		return apperrors.NewAppError(500, "failed to rename account", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %q", apperrors.ErrNotFound, oldUsername)
	}

	// Keep history readable under the new key.
	if _, err := tx.Exec(ctx, `UPDATE payments SET sender = $2 WHERE sender = $1;`, oldUsername, newUsername); err != nil {
		return apperrors.NewAppError(500, "failed to re-key sent payments", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE payments SET receiver = $2 WHERE receiver = $1;`, oldUsername, newUsername); err != nil {
		return apperrors.NewAppError(500, "failed to re-key received payments", err)
	}

	return r.Commit(ctx, tx)
}

// lockBalance selects an account's balance FOR UPDATE, serializing all money
// movements touching that account until the surrounding transaction ends.
func lockBalance(ctx context.Context, tx pgx.Tx, username string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE username = $1 FOR UPDATE;`, username).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, username)
	}
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to lock account "+username, err)
	}
	return balance, nil
}

func insertPayment(ctx context.Context, tx pgx.Tx, p domain.Payment) error {
	query := `
		INSERT INTO payments (payment_id, sender, receiver, amount, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := tx.Exec(ctx, query, p.PaymentID, p.Sender, p.Receiver, p.Amount, p.Timestamp); err != nil {
		return apperrors.NewAppError(500, "failed to insert payment "+p.PaymentID, err)
	}
	return nil
}

func addToBalance(ctx context.Context, tx pgx.Tx, username string, delta decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $2, updated_at = now() WHERE username = $1;`
	if _, err := tx.Exec(ctx, query, username, delta); err != nil {
		return apperrors.NewAppError(500, "failed to update balance of "+username, err)
	}
	return nil
}

func findAccountInTx(ctx context.Context, tx pgx.Tx, username string) (domain.Account, error) {
	account, err := scanAccount(tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1;`, username))
	if err != nil {
		return domain.Account{}, apperrors.NewAppError(500, "failed to re-read account "+username, err)
	}
	return account, nil
}

// RecordTransfer applies debit, credit and the shared payment record as one
// all-or-nothing unit. Rows are locked in username order so two transfers
// touching the same pair cannot deadlock.
func (r *PgxAccountRepository) RecordTransfer(ctx context.Context, payment domain.Payment) (domain.Account, domain.Account, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}
	defer r.Rollback(ctx, tx)

	first, second := payment.Sender, payment.Receiver
	if second < first {
		first, second = second, first
	}

	balances := make(map[string]decimal.Decimal, 2)
	for _, username := range []string{first, second} {
		balance, err := lockBalance(ctx, tx, username)
		if err != nil {
			return domain.Account{}, domain.Account{}, err
		}
		balances[username] = balance
	}

	// The sender's balance may have changed since the service's fail-fast
	// check; the decision that counts is made on the locked row.
	if balances[payment.Sender].LessThan(payment.Amount) {
		return domain.Account{}, domain.Account{}, fmt.Errorf("%w: balance %s < amount %s",
			apperrors.ErrInsufficientFunds, balances[payment.Sender].String(), payment.Amount.String())
	}

	if err := addToBalance(ctx, tx, payment.Sender, payment.Amount.Neg()); err != nil {
		return domain.Account{}, domain.Account{}, err
	}
	if err := addToBalance(ctx, tx, payment.Receiver, payment.Amount); err != nil {
		return domain.Account{}, domain.Account{}, err
	}
	if err := insertPayment(ctx, tx, payment); err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	sender, err := findAccountInTx(ctx, tx, payment.Sender)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}
	receiver, err := findAccountInTx(ctx, tx, payment.Receiver)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return domain.Account{}, domain.Account{}, err
	}
	return sender, receiver, nil
}

// RecordDeposit credits payment.Receiver from an external source.
func (r *PgxAccountRepository) RecordDeposit(ctx context.Context, payment domain.Payment) (domain.Account, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := lockBalance(ctx, tx, payment.Receiver); err != nil {
		return domain.Account{}, err
	}
	if err := addToBalance(ctx, tx, payment.Receiver, payment.Amount); err != nil {
		return domain.Account{}, err
	}
	if err := insertPayment(ctx, tx, payment); err != nil {
		return domain.Account{}, err
	}

	account, err := findAccountInTx(ctx, tx, payment.Receiver)
	if err != nil {
		return domain.Account{}, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// RecordWithdrawal debits payment.Sender towards an external destination,
// re-checking funds on the locked row.
func (r *PgxAccountRepository) RecordWithdrawal(ctx context.Context, payment domain.Payment) (domain.Account, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	defer r.Rollback(ctx, tx)

	balance, err := lockBalance(ctx, tx, payment.Sender)
	if err != nil {
		return domain.Account{}, err
	}
	if balance.LessThan(payment.Amount) {
		return domain.Account{}, fmt.Errorf("%w: balance %s < amount %s",
			apperrors.ErrInsufficientFunds, balance.String(), payment.Amount.String())
	}

	if err := addToBalance(ctx, tx, payment.Sender, payment.Amount.Neg()); err != nil {
		return domain.Account{}, err
	}
	if err := insertPayment(ctx, tx, payment); err != nil {
		return domain.Account{}, err
	}

	account, err := findAccountInTx(ctx, tx, payment.Sender)
	if err != nil {
		return domain.Account{}, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// ListHistory returns every payment the account sent or received, oldest
// first. Insertion order is chronological, so this is the account's full
// payment history.
func (r *PgxAccountRepository) ListHistory(ctx context.Context, username string) (domain.PaymentHistory, error) {
	query := `
		SELECT payment_id, sender, receiver, amount, created_at
		FROM payments
		WHERE sender = $1 OR receiver = $1
		ORDER BY created_at, payment_id;
	`
	rows, err := r.Pool.Query(ctx, query, username)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list history for "+username, err)
	}
	defer rows.Close()

	var history domain.PaymentHistory
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.PaymentID, &p.Sender, &p.Receiver, &p.Amount, &p.Timestamp); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row", err)
		}
		history = history.Append(p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate payment rows", err)
	}
	return history, nil
}
