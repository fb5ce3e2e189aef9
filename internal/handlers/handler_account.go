package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
	"github.com/edmbank/edmbank_backend/internal/dto"
	"github.com/edmbank/edmbank_backend/internal/middleware"
)

// accountHandler handles requests against the authenticated user's own
// account: profile, history, deposits, withdrawals and settings edits.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to the caller's account.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	me := rg.Group("/accounts/me")
	{
		me.GET("", h.getAccount)
		me.GET("/history", h.getHistory)
		me.POST("/deposit", h.deposit)
		me.POST("/withdraw", h.withdraw)
		me.DELETE("", h.deleteAccount)
		me.PUT("/username", h.rename)
		me.PUT("/email", h.updateEmail)
	}
}

// registerAvailabilityRoutes registers the public pre-submit checks the
// registration form uses.
func registerAvailabilityRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	group := rg.Group("/availability")
	{
		group.GET("/username/:username", h.usernameAvailability)
	}
}

// callerUsername extracts the authenticated username or aborts with 401.
func callerUsername(c *gin.Context) (string, bool) {
	username, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return username, true
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	username, ok := callerUsername(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), username)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	username, ok := callerUsername(c)
	if !ok {
		return
	}

	history, err := h.accountService.GetHistory(c.Request.Context(), username)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToHistoryResponse(history))
}

func (h *accountHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	username, ok := callerUsername(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.accountService.Deposit(c.Request.Context(), username, req.Amount, req.Source); err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	username, ok := callerUsername(c)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.accountService.Withdraw(c.Request.Context(), username, req.Amount, req.Destination); err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	username, ok := callerUsername(c)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), username); err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) rename(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	username, ok := callerUsername(c)
	if !ok {
		return
	}

	var req dto.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for rename", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.accountService.RenameAccount(c.Request.Context(), username, req.NewUsername); err != nil {
		respondWithError(c, logger, err)
		return
	}
	// The old token's subject no longer exists; the client must log in again.
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) updateEmail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	username, ok := callerUsername(c)
	if !ok {
		return
	}

	var req dto.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for email update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.accountService.UpdateEmail(c.Request.Context(), username, req.Email); err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) usernameAvailability(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	available, err := h.accountService.IsUsernameAvailable(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}
