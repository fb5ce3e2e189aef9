package services_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	args := m.Called(ctx, iban)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) CardNumberExists(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) IBANExists(ctx context.Context, iban string) (bool, error) {
	args := m.Called(ctx, iban)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateEmail(ctx context.Context, username, email string) error {
	args := m.Called(ctx, username, email)
	return args.Error(0)
}

func (m *MockAccountRepository) RenameAccount(ctx context.Context, oldUsername, newUsername string) error {
	args := m.Called(ctx, oldUsername, newUsername)
	return args.Error(0)
}

func (m *MockAccountRepository) RecordTransfer(ctx context.Context, payment domain.Payment) (domain.Account, domain.Account, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(domain.Account), args.Get(1).(domain.Account), args.Error(2)
}

func (m *MockAccountRepository) RecordDeposit(ctx context.Context, payment domain.Payment) (domain.Account, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(domain.Account), args.Error(1)
}

func (m *MockAccountRepository) RecordWithdrawal(ctx context.Context, payment domain.Payment) (domain.Account, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListHistory(ctx context.Context, username string) (domain.PaymentHistory, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.PaymentHistory), args.Error(1)
}

// --- Mock SupportRequestRepository ---

type MockSupportRequestRepository struct {
	mock.Mock
}

var _ portsrepo.SupportRequestRepository = (*MockSupportRequestRepository)(nil)

func (m *MockSupportRequestRepository) SaveRequest(ctx context.Context, req domain.SupportRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockSupportRequestRepository) ListRequestsByUsername(ctx context.Context, username string) ([]domain.SupportRequest, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SupportRequest), args.Error(1)
}

// --- Recording publisher ---

// recordingPublisher captures published account changes for assertions.
type recordingPublisher struct {
	mu       sync.Mutex
	accounts []domain.Account
}

func (p *recordingPublisher) PublishAccountChange(_ context.Context, account domain.Account) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts = append(p.accounts, account)
}

func (p *recordingPublisher) published() []domain.Account {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Account(nil), p.accounts...)
}
