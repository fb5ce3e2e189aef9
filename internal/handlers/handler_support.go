package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
	"github.com/edmbank/edmbank_backend/internal/dto"
	"github.com/edmbank/edmbank_backend/internal/middleware"
)

// supportHandler files customer concerns with the external support team.
type supportHandler struct {
	supportService portssvc.SupportSvcFacade
}

func newSupportHandler(ss portssvc.SupportSvcFacade) *supportHandler {
	return &supportHandler{supportService: ss}
}

// registerSupportRoutes registers routes related to support requests.
func registerSupportRoutes(rg *gin.RouterGroup, supportService portssvc.SupportSvcFacade) {
	h := newSupportHandler(supportService)

	group := rg.Group("/support-requests")
	{
		group.POST("", h.createRequest)
		group.GET("", h.listRequests)
	}
}

func (h *supportHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	username, ok := callerUsername(c)
	if !ok {
		return
	}

	var req dto.CreateSupportRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for support request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestID, err := h.supportService.CreateSupportRequest(c.Request.Context(), username, req.Email, req.Title, req.Concern)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"requestID": requestID})
}

func (h *supportHandler) listRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	username, ok := callerUsername(c)
	if !ok {
		return
	}

	requests, err := h.supportService.ListSupportRequests(c.Request.Context(), username)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	out := make([]dto.SupportRequestResponse, len(requests))
	for i, r := range requests {
		out[i] = dto.ToSupportRequestResponse(r)
	}
	c.JSON(http.StatusOK, gin.H{"requests": out})
}
