package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
)

// Store is an in-memory implementation of the account and support-request
// repositories. It backs unit tests and the dev-mode fallback when no database
// is configured. A single mutex guards every read-modify-write, which gives
// the same serialization guarantee the Postgres adapter gets from row locks:
// two racing debits of one sender can never both see the pre-transfer balance.
type Store struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	payments []domain.Payment
	requests []domain.SupportRequest
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{accounts: make(map[string]domain.Account)}
}

// NewRepositoryProvider wires the in-memory store as every repository.
func NewRepositoryProvider() (*portsrepo.RepositoryProvider, *Store) {
	s := NewStore()
	return &portsrepo.RepositoryProvider{
		Account:        s,
		SupportRequest: s,
	}, s
}

var (
	_ portsrepo.AccountRepositoryFacade  = (*Store)(nil)
	_ portsrepo.SupportRequestRepository = (*Store)(nil)
)

func (s *Store) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[username]
	if !ok {
		return nil, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, username)
	}
	return &account, nil
}

func (s *Store) FindByIBAN(_ context.Context, iban string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Card.IBAN == iban {
			account := account
			return &account, nil
		}
	}
	return nil, fmt.Errorf("%w: no account holds IBAN %q", apperrors.ErrNotFound, iban)
}

func (s *Store) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[username]
	return ok, nil
}

func (s *Store) CardNumberExists(_ context.Context, number string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Card.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) IBANExists(_ context.Context, iban string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Card.IBAN == iban {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Username] = account
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[username]; !ok {
		return fmt.Errorf("%w: account %q", apperrors.ErrNotFound, username)
	}
	delete(s.accounts, username)
	return nil
}

func (s *Store) UpdateEmail(_ context.Context, username, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[username]
	if !ok {
		return fmt.Errorf("%w: account %q", apperrors.ErrNotFound, username)
	}
	account.Email = email
	s.accounts[username] = account
	return nil
}

func (s *Store) RenameAccount(_ context.Context, oldUsername, newUsername string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[newUsername]; taken {
		return fmt.Errorf("%w: username %q", apperrors.ErrDuplicate, newUsername)
	}
	account, ok := s.accounts[oldUsername]
	if !ok {
		return fmt.Errorf("%w: account %q", apperrors.ErrNotFound, oldUsername)
	}
	delete(s.accounts, oldUsername)
	account.Username = newUsername
	s.accounts[newUsername] = account

	for i := range s.payments {
		if s.payments[i].Sender == oldUsername {
			s.payments[i].Sender = newUsername
		}
		if s.payments[i].Receiver == oldUsername {
			s.payments[i].Receiver = newUsername
		}
	}
	return nil
}

func (s *Store) RecordTransfer(_ context.Context, payment domain.Payment) (domain.Account, domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender, ok := s.accounts[payment.Sender]
	if !ok {
		return domain.Account{}, domain.Account{}, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, payment.Sender)
	}
	receiver, ok := s.accounts[payment.Receiver]
	if !ok {
		return domain.Account{}, domain.Account{}, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, payment.Receiver)
	}

	// Funds decision happens here, under the lock.
	if sender.Balance.LessThan(payment.Amount) {
		return domain.Account{}, domain.Account{}, fmt.Errorf("%w: balance %s < amount %s",
			apperrors.ErrInsufficientFunds, sender.Balance.String(), payment.Amount.String())
	}

	sender.Balance = sender.Balance.Sub(payment.Amount)
	receiver.Balance = receiver.Balance.Add(payment.Amount)
	s.accounts[sender.Username] = sender
	s.accounts[receiver.Username] = receiver
	s.payments = append(s.payments, payment)

	return sender, receiver, nil
}

func (s *Store) RecordDeposit(_ context.Context, payment domain.Payment) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[payment.Receiver]
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, payment.Receiver)
	}
	account.Balance = account.Balance.Add(payment.Amount)
	s.accounts[account.Username] = account
	s.payments = append(s.payments, payment)
	return account, nil
}

func (s *Store) RecordWithdrawal(_ context.Context, payment domain.Payment) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[payment.Sender]
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, payment.Sender)
	}
	if account.Balance.LessThan(payment.Amount) {
		return domain.Account{}, fmt.Errorf("%w: balance %s < amount %s",
			apperrors.ErrInsufficientFunds, account.Balance.String(), payment.Amount.String())
	}
	account.Balance = account.Balance.Sub(payment.Amount)
	s.accounts[account.Username] = account
	s.payments = append(s.payments, payment)
	return account, nil
}

func (s *Store) ListHistory(_ context.Context, username string) (domain.PaymentHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history domain.PaymentHistory
	for _, p := range s.payments {
		if p.Sender == username || p.Receiver == username {
			history = history.Append(p)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})
	return history, nil
}

func (s *Store) SaveRequest(_ context.Context, req domain.SupportRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return nil
}

func (s *Store) ListRequestsByUsername(_ context.Context, username string) ([]domain.SupportRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.SupportRequest
	for _, req := range s.requests {
		if req.Username == username {
			out = append(out, req)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// TotalBalance sums every account's balance. Tests use it to assert the
// conservation invariant.
func (s *Store) TotalBalance() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, account := range s.accounts {
		total = total.Add(account.Balance)
	}
	return total.String()
}
