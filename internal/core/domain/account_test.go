package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
)

var testCard = domain.Card{
	Number:     "4321432143214321",
	CVV:        "123",
	ExpiryDate: "06/30",
	IBAN:       "IBANEDM12345678901234567",
}

func TestNewAccount(t *testing.T) {
	account, err := domain.NewAccount("alice", "$2a$10$hash", "alice@example.com", testCard)
	require.NoError(t, err)

	assert.Equal(t, "alice", account.Username)
	assert.True(t, account.Balance.IsZero(), "new accounts start with zero balance")
	assert.Empty(t, account.History)
	assert.Equal(t, testCard, account.Card)
}

func TestNewAccountValidation(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		hash     string
		email    string
	}{
		{"empty username", "", "hash", "a@b.c"},
		{"whitespace username", "   ", "hash", "a@b.c"},
		{"empty password hash", "alice", "", "a@b.c"},
		{"email without at", "alice", "hash", "alice.example.com"},
		{"email without dot", "alice", "hash", "alice@examplecom"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewAccount(tc.username, tc.hash, tc.email, testCard)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, domain.ValidateEmail("user@bank.example"))
	assert.ErrorIs(t, domain.ValidateEmail("user@bankexample"), apperrors.ErrValidation)
	assert.ErrorIs(t, domain.ValidateEmail("user.bank.example"), apperrors.ErrValidation)
}
