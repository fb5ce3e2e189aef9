package notifier

import (
	"context"
	"sync"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
)

// Hub is the in-process fanout for account change notifications. Services
// publish after a successful commit; subscribers (one per watched username)
// receive the account's new state. Delivery is at-least-once and asynchronous;
// ordering between deliveries is not guaranteed.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[int]func(domain.Account)
	next int
}

// NewHub creates an empty notification hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]func(domain.Account))}
}

var (
	_ portssvc.AccountWatcher   = (*Hub)(nil)
	_ portssvc.AccountPublisher = (*Hub)(nil)
)

// Subscribe registers onChange for the username's mutations. The returned
// function cancels the subscription and is safe to call more than once.
func (h *Hub) Subscribe(username string, onChange func(domain.Account)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[username] == nil {
		h.subs[username] = make(map[int]func(domain.Account))
	}
	id := h.next
	h.next++
	h.subs[username][id] = onChange

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[username], id)
		if len(h.subs[username]) == 0 {
			delete(h.subs, username)
		}
	}
}

// PublishAccountChange delivers the account's new state to all subscribers of
// its username. Callbacks run on their own goroutines so a slow subscriber
// cannot stall the committing operation.
func (h *Hub) PublishAccountChange(_ context.Context, account domain.Account) {
	h.mu.RLock()
	callbacks := make([]func(domain.Account), 0, len(h.subs[account.Username]))
	for _, fn := range h.subs[account.Username] {
		callbacks = append(callbacks, fn)
	}
	h.mu.RUnlock()

	for _, fn := range callbacks {
		go fn(account)
	}
}

// MultiPublisher fans one change out to several publishers (e.g. the
// in-process hub plus a message broker).
type MultiPublisher []portssvc.AccountPublisher

var _ portssvc.AccountPublisher = (MultiPublisher)(nil)

func (m MultiPublisher) PublishAccountChange(ctx context.Context, account domain.Account) {
	for _, p := range m {
		p.PublishAccountChange(ctx, account)
	}
}
