package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"command-center/infrastructure/logger"
	"command-center/usecase"
)

type IWebhookHandler interface {
	Receive(c *gin.Context)
	ListEvents(c *gin.Context)
}

type webhookHandler struct {
	webhookUsecase usecase.IWebhookUsecase
}

func NewWebhookHandler(webhookUsecase usecase.IWebhookUsecase) IWebhookHandler {
	return &webhookHandler{webhookUsecase: webhookUsecase}
}

// Receive verifies the signature over the raw body before anything is
// persisted. A mismatch returns 401 with no side effects.
func (h *webhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	event, err := h.webhookUsecase.Ingest(
		c.Request.Context(),
		c.GetHeader("X-Hub-Signature-256"),
		c.GetHeader("X-GitHub-Event"),
		c.GetHeader("X-GitHub-Delivery"),
		body,
	)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "signature_mismatch"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Failed to land webhook event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest_failed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": event.ID})
}

func (h *webhookHandler) ListEvents(c *gin.Context) {
	repoName := c.Query("repo")
	limit := 50
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		limit = v
	}
	events, err := h.webhookUsecase.ListByRepo(c.Request.Context(), repoName, limit)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to list webhook events")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
