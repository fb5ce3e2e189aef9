package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
	"github.com/edmbank/edmbank_backend/internal/dto"
)

// eventsHandler streams account change notifications to the client as
// server-sent events, so the UI can refresh balances without polling.
type eventsHandler struct {
	watcher portssvc.AccountWatcher
}

// registerEventRoutes registers the change notification stream.
func registerEventRoutes(rg *gin.RouterGroup, watcher portssvc.AccountWatcher) {
	h := &eventsHandler{watcher: watcher}
	rg.GET("/accounts/me/events", h.stream)
}

func (h *eventsHandler) stream(c *gin.Context) {
	username, ok := callerUsername(c)
	if !ok {
		return
	}

	// Buffered so a burst of mutations does not block the publisher; the
	// stream delivers the latest states, not a guaranteed total order.
	changes := make(chan domain.Account, 16)
	unsubscribe := h.watcher.Subscribe(username, func(account domain.Account) {
		select {
		case changes <- account:
		default:
		}
	})
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case account := <-changes:
			c.SSEvent("account", dto.ToAccountResponse(&account))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
