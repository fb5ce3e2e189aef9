package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edmbank/edmbank_backend/internal/apperrors"
	"github.com/edmbank/edmbank_backend/internal/core/domain"
	"github.com/edmbank/edmbank_backend/internal/core/services"
)

func TestCreateSupportRequest(t *testing.T) {
	repo := new(MockSupportRequestRepository)
	svc := services.NewSupportService(repo)

	var saved domain.SupportRequest
	repo.On("SaveRequest", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(domain.SupportRequest)
	}).Return(nil)

	id, err := svc.CreateSupportRequest(context.Background(), "alice", "alice@bank.example", "Card blocked", "My card stopped working abroad.")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, saved.RequestID)
	assert.Equal(t, "alice", saved.Username)
	assert.Equal(t, domain.RequestOpen, saved.Status)
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestCreateSupportRequestValidation(t *testing.T) {
	repo := new(MockSupportRequestRepository)
	svc := services.NewSupportService(repo)

	tests := []struct {
		name    string
		email   string
		title   string
		concern string
	}{
		{name: "empty title", email: "alice@bank.example", title: "  ", concern: "help"},
		{name: "empty concern", email: "alice@bank.example", title: "Card blocked", concern: ""},
		{name: "bad email", email: "not-an-email", title: "Card blocked", concern: "help"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSupportRequest(context.Background(), "alice", tc.email, tc.title, tc.concern)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
	repo.AssertNotCalled(t, "SaveRequest", mock.Anything, mock.Anything)
}

func TestListSupportRequests(t *testing.T) {
	repo := new(MockSupportRequestRepository)
	svc := services.NewSupportService(repo)

	repo.On("ListRequestsByUsername", mock.Anything, "alice").Return([]domain.SupportRequest{
		{RequestID: "r1", Username: "alice"},
	}, nil)

	got, err := svc.ListSupportRequests(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].RequestID)
}
