package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
	"github.com/edmbank/edmbank_backend/internal/middleware"
)

// transferService executes money movement between two accounts. Both public
// variants funnel into one validate-then-commit path; they differ only in the
// receiver resolution strategy.
type transferService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	publisher   portssvc.AccountPublisher
}

// NewTransferService creates a new TransferSvcFacade. The publisher may be nil
// when change notification is not wired.
func NewTransferService(accountRepo portsrepo.AccountRepositoryFacade, publisher portssvc.AccountPublisher) portssvc.TransferSvcFacade {
	return &transferService{
		accountRepo: accountRepo,
		publisher:   publisher,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// receiverResolver maps a receiver reference (username, IBAN) to an account.
type receiverResolver func(ctx context.Context, ref string) (*domain.Account, error)

// Transfer moves amount from senderUsername to receiverUsername.
func (s *transferService) Transfer(ctx context.Context, senderUsername, receiverUsername string, amount decimal.Decimal) error {
	return s.execute(ctx, senderUsername, receiverUsername, amount, func(ctx context.Context, ref string) (*domain.Account, error) {
		return s.accountRepo.FindByUsername(ctx, ref)
	})
}

// TransferByIBAN moves amount from senderUsername to the account holding
// recipientIBAN.
func (s *transferService) TransferByIBAN(ctx context.Context, senderUsername, recipientIBAN string, amount decimal.Decimal) error {
	return s.execute(ctx, senderUsername, recipientIBAN, amount, func(ctx context.Context, ref string) (*domain.Account, error) {
		return s.accountRepo.FindByIBAN(ctx, ref)
	})
}

// execute validates the transfer fail-fast (no writes before the commit
// point), then hands the debit, credit and history appends to the repository
// as one atomic unit. The repository re-checks funds under exclusive access,
// so a stale balance read here can narrow but never widen what commits.
func (s *transferService) execute(ctx context.Context, senderUsername, receiverRef string, amount decimal.Decimal, resolve receiverResolver) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}

	sender, err := s.accountRepo.FindByUsername(ctx, senderUsername)
	if err != nil {
		return fmt.Errorf("sender %q: %w", senderUsername, err)
	}
	receiver, err := resolve(ctx, receiverRef)
	if err != nil {
		return fmt.Errorf("receiver %q: %w", receiverRef, err)
	}

	if sender.Username == receiver.Username {
		return fmt.Errorf("%w: %q", apperrors.ErrSelfTransfer, sender.Username)
	}

	if sender.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s < amount %s", apperrors.ErrInsufficientFunds, sender.Balance.String(), amount.String())
	}

	payment := domain.Payment{
		PaymentID: uuid.NewString(),
		Amount:    amount,
		Sender:    sender.Username,
		Receiver:  receiver.Username,
		Timestamp: time.Now().UTC(),
	}

	updatedSender, updatedReceiver, err := s.accountRepo.RecordTransfer(ctx, payment)
	if err != nil {
		return fmt.Errorf("recording transfer %s: %w", payment.PaymentID, err)
	}

	logger.Info("Transfer committed",
		slog.String("payment_id", payment.PaymentID),
		slog.String("sender", payment.Sender),
		slog.String("receiver", payment.Receiver),
		slog.String("amount", amount.String()),
	)

	if s.publisher != nil {
		s.publisher.PublishAccountChange(ctx, updatedSender)
		s.publisher.PublishAccountChange(ctx, updatedReceiver)
	}
	return nil
}
