package services_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
	"github.com/edmbank/edmbank_backend/internal/core/services"
	"github.com/edmbank/edmbank_backend/internal/utils"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	ibanPattern       = regexp.MustCompile(`^IBANEDM\d{17}$`)
)

func TestRegisterSuccess(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("UsernameExists", mock.Anything, "alice").Return(false, nil)
	repo.On("CardNumberExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("IBANExists", mock.Anything, mock.Anything).Return(false, nil)

	var saved domain.Account
	repo.On("SaveAccount", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.Account)
	}).Return(nil)

	account, err := svc.Register(context.Background(), "alice", "s3cret", "alice@bank.example")
	require.NoError(t, err)
	repo.AssertExpectations(t)

	assert.Equal(t, "alice", account.Username)
	assert.True(t, account.Balance.IsZero())
	assert.Empty(t, account.History)

	// The password is hashed before it reaches the store.
	assert.NotEqual(t, "s3cret", saved.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("s3cret", saved.PasswordHash))

	assert.Regexp(t, cardNumberPattern, saved.Card.Number)
	assert.Regexp(t, cvvPattern, saved.Card.CVV)
	assert.Regexp(t, expiryPattern, saved.Card.ExpiryDate)
	assert.Regexp(t, ibanPattern, saved.Card.IBAN)
	assert.Len(t, saved.Card.IBAN, 24)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("UsernameExists", mock.Anything, "alice").Return(true, nil)

	_, err := svc.Register(context.Background(), "alice", "s3cret", "alice@bank.example")
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	repo.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
}

func TestRegisterInvalidEmail(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("UsernameExists", mock.Anything, "alice").Return(false, nil)
	repo.On("CardNumberExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("IBANExists", mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.Register(context.Background(), "alice", "s3cret", "not-an-email")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	repo.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
}

func TestRegisterCardCollisionRetries(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("UsernameExists", mock.Anything, "alice").Return(false, nil)
	// First draw collides on the card number; the issuer must draw again.
	repo.On("CardNumberExists", mock.Anything, mock.Anything).Return(true, nil).Once()
	repo.On("IBANExists", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("CardNumberExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("IBANExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("SaveAccount", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Register(context.Background(), "alice", "s3cret", "alice@bank.example")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRegisterCardGenerationExhausted(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("UsernameExists", mock.Anything, "alice").Return(false, nil)
	// Every draw collides; issuance must give up instead of looping forever.
	repo.On("CardNumberExists", mock.Anything, mock.Anything).Return(true, nil)
	repo.On("IBANExists", mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.Register(context.Background(), "alice", "s3cret", "alice@bank.example")
	assert.ErrorIs(t, err, apperrors.ErrCardGenerationExhausted)

	repo.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
}

func TestDepositSuccess(t *testing.T) {
	repo := new(MockAccountRepository)
	publisher := &recordingPublisher{}
	svc := services.NewAccountService(repo, publisher)

	repo.On("FindByUsername", mock.Anything, "alice").Return(account("alice", 100, "IBANEDM00000000000000001"), nil)
	repo.On("RecordDeposit", mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Sender == "EXTERNAL-CARD-1234" &&
			p.Receiver == "alice" &&
			p.Amount.Equal(decimal.NewFromInt(25))
	})).Return(*account("alice", 125, "IBANEDM00000000000000001"), nil)

	err := svc.Deposit(context.Background(), "alice", decimal.NewFromInt(25), "EXTERNAL-CARD-1234")
	require.NoError(t, err)
	repo.AssertExpectations(t)

	published := publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, "125", published[0].Balance.String())
}

func TestDepositInvalidAmount(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	err := svc.Deposit(context.Background(), "alice", decimal.Zero, "ATM")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	repo.AssertNotCalled(t, "RecordDeposit", mock.Anything, mock.Anything)
}

func TestDepositUnknownAccount(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

	err := svc.Deposit(context.Background(), "ghost", decimal.NewFromInt(25), "ATM")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("FindByUsername", mock.Anything, "alice").Return(account("alice", 10, "IBANEDM00000000000000001"), nil)

	err := svc.Withdraw(context.Background(), "alice", decimal.NewFromInt(50), "ATM")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	repo.AssertNotCalled(t, "RecordWithdrawal", mock.Anything, mock.Anything)
}

func TestWithdrawSuccess(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("FindByUsername", mock.Anything, "alice").Return(account("alice", 100, "IBANEDM00000000000000001"), nil)
	repo.On("RecordWithdrawal", mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Sender == "alice" && p.Receiver == "ATM-42"
	})).Return(*account("alice", 60, "IBANEDM00000000000000001"), nil)

	err := svc.Withdraw(context.Background(), "alice", decimal.NewFromInt(40), "ATM-42")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteAccountNotFound(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("DeleteAccount", mock.Anything, "ghost").Return(apperrors.ErrNotFound)

	err := svc.DeleteAccount(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRenameAccount(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("RenameAccount", mock.Anything, "alice", "alice2").Return(nil)
	repo.On("FindByUsername", mock.Anything, "alice2").Return(account("alice2", 100, "IBANEDM00000000000000001"), nil)

	require.NoError(t, svc.RenameAccount(context.Background(), "alice", "alice2"))
	repo.AssertExpectations(t)
}

func TestRenameAccountNoopOnSameName(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	require.NoError(t, svc.RenameAccount(context.Background(), "alice", "alice"))
	repo.AssertNotCalled(t, "RenameAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateEmailRejectsInvalid(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	err := svc.UpdateEmail(context.Background(), "alice", "broken-address")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	repo.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailabilityChecks(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("UsernameExists", mock.Anything, "taken").Return(true, nil)
	repo.On("UsernameExists", mock.Anything, "free").Return(false, nil)
	repo.On("CardNumberExists", mock.Anything, "4321432143214321").Return(true, nil)

	available, err := svc.IsUsernameAvailable(context.Background(), "taken")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.IsUsernameAvailable(context.Background(), "free")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = svc.IsCardNumberAvailable(context.Background(), "4321432143214321")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestGetHistory(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	history := domain.PaymentHistory{
		{PaymentID: "p1", Sender: "alice", Receiver: "bob", Amount: decimal.NewFromInt(30)},
	}
	repo.On("FindByUsername", mock.Anything, "alice").Return(account("alice", 70, "IBANEDM00000000000000001"), nil)
	repo.On("ListHistory", mock.Anything, "alice").Return(history, nil)

	got, err := svc.GetHistory(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].PaymentID)
}

func TestGeneratedCardsDistinct(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := services.NewAccountService(repo, nil)

	repo.On("UsernameExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("CardNumberExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("IBANExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("SaveAccount", mock.Anything, mock.Anything).Return(nil)

	numbers := make(map[string]bool)
	ibans := make(map[string]bool)
	for _, username := range []string{"u1", "u2", "u3", "u4", "u5"} {
		acc, err := svc.Register(context.Background(), username, "s3cret", username+"@bank.example")
		require.NoError(t, err)
		assert.False(t, numbers[acc.Card.Number], "card number issued twice")
		assert.False(t, ibans[acc.Card.IBAN], "IBAN issued twice")
		numbers[acc.Card.Number] = true
		ibans[acc.Card.IBAN] = true
		assert.True(t, strings.HasPrefix(acc.Card.IBAN, "IBANEDM"))
	}
}
