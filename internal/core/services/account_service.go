package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
	"github.com/edmbank/edmbank_backend/internal/middleware"
	"github.com/edmbank/edmbank_backend/internal/utils"
)

// accountService implements the account lifecycle: registration with card
// issuance, deposits and withdrawals against external sources, profile edits
// and deletion.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	cards       *cardIssuer
	publisher   portssvc.AccountPublisher
}

// NewAccountService creates a new AccountSvcFacade. The publisher may be nil.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, publisher portssvc.AccountPublisher) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		cards:       newCardIssuer(accountRepo),
		publisher:   publisher,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) Register(ctx context.Context, username, password, email string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	taken, err := s.accountRepo.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("checking username availability: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: username %q", apperrors.ErrDuplicate, username)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	card, err := s.cards.Issue(ctx)
	if err != nil {
		return nil, err
	}

	account, err := domain.NewAccount(username, hash, email, card)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("saving new account %q: %w", username, err)
	}

	logger.Info("Account registered",
		slog.String("username", username),
		slog.String("iban", card.IBAN),
	)
	s.publish(ctx, account)
	return &account, nil
}

func (s *accountService) Deposit(ctx context.Context, username string, amount decimal.Decimal, sourceLabel string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if _, err := s.accountRepo.FindByUsername(ctx, username); err != nil {
		return fmt.Errorf("account %q: %w", username, err)
	}

	payment := domain.Payment{
		PaymentID: uuid.NewString(),
		Amount:    amount,
		Sender:    sourceLabel,
		Receiver:  username,
		Timestamp: time.Now().UTC(),
	}
	updated, err := s.accountRepo.RecordDeposit(ctx, payment)
	if err != nil {
		return fmt.Errorf("recording deposit %s: %w", payment.PaymentID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Deposit committed",
		slog.String("username", username),
		slog.String("amount", amount.String()),
		slog.String("source", sourceLabel),
	)
	s.publish(ctx, updated)
	return nil
}

func (s *accountService) Withdraw(ctx context.Context, username string, amount decimal.Decimal, destLabel string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("account %q: %w", username, err)
	}
	if account.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s < amount %s", apperrors.ErrInsufficientFunds, account.Balance.String(), amount.String())
	}

	payment := domain.Payment{
		PaymentID: uuid.NewString(),
		Amount:    amount,
		Sender:    username,
		Receiver:  destLabel,
		Timestamp: time.Now().UTC(),
	}
	updated, err := s.accountRepo.RecordWithdrawal(ctx, payment)
	if err != nil {
		return fmt.Errorf("recording withdrawal %s: %w", payment.PaymentID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Withdrawal committed",
		slog.String("username", username),
		slog.String("amount", amount.String()),
	)
	s.publish(ctx, updated)
	return nil
}

func (s *accountService) GetAccount(ctx context.Context, username string) (*domain.Account, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", username, err)
	}
	return account, nil
}

func (s *accountService) GetHistory(ctx context.Context, username string) (domain.PaymentHistory, error) {
	if _, err := s.accountRepo.FindByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("account %q: %w", username, err)
	}
	return s.accountRepo.ListHistory(ctx, username)
}

func (s *accountService) DeleteAccount(ctx context.Context, username string) error {
	if err := s.accountRepo.DeleteAccount(ctx, username); err != nil {
		return fmt.Errorf("deleting account %q: %w", username, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Account deleted", slog.String("username", username))
	return nil
}

func (s *accountService) RenameAccount(ctx context.Context, oldUsername, newUsername string) error {
	if strings.TrimSpace(newUsername) == "" {
		return fmt.Errorf("%w: new username must not be empty", apperrors.ErrValidation)
	}
	if oldUsername == newUsername {
		return nil
	}
	if err := s.accountRepo.RenameAccount(ctx, oldUsername, newUsername); err != nil {
		return fmt.Errorf("renaming account %q: %w", oldUsername, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Account renamed",
		slog.String("old_username", oldUsername),
		slog.String("new_username", newUsername),
	)
	if updated, err := s.accountRepo.FindByUsername(ctx, newUsername); err == nil {
		s.publish(ctx, *updated)
	}
	return nil
}

func (s *accountService) UpdateEmail(ctx context.Context, username, email string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	if err := s.accountRepo.UpdateEmail(ctx, username, email); err != nil {
		return fmt.Errorf("updating email for %q: %w", username, err)
	}
	if updated, err := s.accountRepo.FindByUsername(ctx, username); err == nil {
		s.publish(ctx, *updated)
	}
	return nil
}

func (s *accountService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	taken, err := s.accountRepo.UsernameExists(ctx, username)
	if err != nil {
		return false, fmt.Errorf("checking username %q: %w", username, err)
	}
	return !taken, nil
}

func (s *accountService) IsCardNumberAvailable(ctx context.Context, number string) (bool, error) {
	taken, err := s.accountRepo.CardNumberExists(ctx, number)
	if err != nil {
		return false, fmt.Errorf("checking card number: %w", err)
	}
	return !taken, nil
}

func (s *accountService) publish(ctx context.Context, account domain.Account) {
	if s.publisher != nil {
		s.publisher.PublishAccountChange(ctx, account)
	}
}
