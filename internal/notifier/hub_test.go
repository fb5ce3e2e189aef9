package notifier_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
	"github.com/edmbank/edmbank_backend/internal/notifier"
)

func waitFor(t *testing.T, ch <-chan domain.Account) domain.Account {
	t.Helper()
	select {
	case account := <-ch:
		return account
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for account change")
		return domain.Account{}
	}
}

func TestHubDeliversToSubscriber(t *testing.T) {
	hub := notifier.NewHub()
	got := make(chan domain.Account, 1)

	unsubscribe := hub.Subscribe("alice", func(a domain.Account) { got <- a })
	defer unsubscribe()

	hub.PublishAccountChange(context.Background(), domain.Account{
		Username: "alice",
		Balance:  decimal.NewFromInt(70),
	})

	account := waitFor(t, got)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "70", account.Balance.String())
}

func TestHubScopesDeliveryByUsername(t *testing.T) {
	hub := notifier.NewHub()
	aliceCh := make(chan domain.Account, 1)
	bobCh := make(chan domain.Account, 1)

	defer hub.Subscribe("alice", func(a domain.Account) { aliceCh <- a })()
	defer hub.Subscribe("bob", func(a domain.Account) { bobCh <- a })()

	hub.PublishAccountChange(context.Background(), domain.Account{Username: "bob"})

	account := waitFor(t, bobCh)
	assert.Equal(t, "bob", account.Username)
	select {
	case <-aliceCh:
		t.Fatal("subscriber for another username must not be notified")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := notifier.NewHub()
	got := make(chan domain.Account, 1)

	unsubscribe := hub.Subscribe("alice", func(a domain.Account) { got <- a })
	unsubscribe()
	// Double unsubscribe must not panic.
	unsubscribe()

	hub.PublishAccountChange(context.Background(), domain.Account{Username: "alice"})
	select {
	case <-got:
		t.Fatal("unsubscribed callback must not fire")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubMultipleSubscribersPerUsername(t *testing.T) {
	hub := notifier.NewHub()
	first := make(chan domain.Account, 1)
	second := make(chan domain.Account, 1)

	defer hub.Subscribe("alice", func(a domain.Account) { first <- a })()
	defer hub.Subscribe("alice", func(a domain.Account) { second <- a })()

	hub.PublishAccountChange(context.Background(), domain.Account{Username: "alice"})

	waitFor(t, first)
	waitFor(t, second)
}

func TestMultiPublisherFansOut(t *testing.T) {
	first := notifier.NewHub()
	second := notifier.NewHub()
	firstCh := make(chan domain.Account, 1)
	secondCh := make(chan domain.Account, 1)

	defer first.Subscribe("alice", func(a domain.Account) { firstCh <- a })()
	defer second.Subscribe("alice", func(a domain.Account) { secondCh <- a })()

	multi := notifier.MultiPublisher{first, second}
	multi.PublishAccountChange(context.Background(), domain.Account{Username: "alice"})

	assert.Equal(t, "alice", waitFor(t, firstCh).Username)
	assert.Equal(t, "alice", waitFor(t, secondCh).Username)
}
