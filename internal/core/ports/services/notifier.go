package services

import (
	"context"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
)

// AccountWatcher lets callers observe account mutations. Delivery is
// at-least-once; ordering across fields of the same account is not guaranteed.
type AccountWatcher interface {
	// Subscribe registers onChange for the username's mutations and returns a
	// function that cancels the subscription.
	Subscribe(username string, onChange func(domain.Account)) (unsubscribe func())
}

// AccountPublisher is the emitting side of change notification. Services call
// it after a successful commit; the concrete push transport (in-process hub,
// message broker) is an adapter detail.
type AccountPublisher interface {
	// PublishAccountChange announces the account's new persisted state.
	PublishAccountChange(ctx context.Context, account domain.Account)
}
