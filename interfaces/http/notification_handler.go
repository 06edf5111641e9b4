package http

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"command-center/domain/dto"
	"command-center/infrastructure/logger"
	"command-center/infrastructure/realtime"
	"command-center/usecase"
)

type INotificationHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Banners(c *gin.Context)
	UnreadCount(c *gin.Context)
	MarkRead(c *gin.Context)
	MarkAllRead(c *gin.Context)
	Delete(c *gin.Context)
	GetPreferences(c *gin.Context)
	UpdatePreferences(c *gin.Context)
	Stream(c *gin.Context)
}

type notificationHandler struct {
	notificationUsecase usecase.INotificationUsecase
	hub                 *realtime.Hub
}

func NewNotificationHandler(notificationUsecase usecase.INotificationUsecase, hub *realtime.Hub) INotificationHandler {
	return &notificationHandler{notificationUsecase: notificationUsecase, hub: hub}
}

func (h *notificationHandler) Create(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.notificationUsecase.Create(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *notificationHandler) List(c *gin.Context) {
	opts := dto.NotificationListOptions{
		UnreadOnly:     c.Query("unread") == "true",
		PersistentOnly: c.Query("persistent") == "true",
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		opts.Limit = v
	}
	notifications, err := h.notificationUsecase.List(c.Request.Context(), requestUserID(c), opts)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to list notifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *notificationHandler) Banners(c *gin.Context) {
	banners, err := h.notificationUsecase.Banners(c.Request.Context(), requestUserID(c))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to list banners")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

func (h *notificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationUsecase.CountUnread(c.Request.Context(), requestUserID(c))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to count unread notifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *notificationHandler) MarkRead(c *gin.Context) {
	var req dto.MarkReadRequest
	req.Read = true
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	err := h.notificationUsecase.MarkRead(c.Request.Context(), requestUserID(c), c.Param("id"), req.Read)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Failed to mark notification read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": req.Read})
}

func (h *notificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notificationUsecase.MarkAllRead(c.Request.Context(), requestUserID(c))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to mark all notifications read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *notificationHandler) Delete(c *gin.Context) {
	err := h.notificationUsecase.Delete(c.Request.Context(), requestUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Failed to delete notification")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *notificationHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.notificationUsecase.GetPreferences(c.Request.Context(), requestUserID(c))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to load preferences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "preferences_unavailable"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *notificationHandler) UpdatePreferences(c *gin.Context) {
	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prefs, err := h.notificationUsecase.UpdatePreferences(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to update preferences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Stream attaches the caller to the SSE hub.
func (h *notificationHandler) Stream(c *gin.Context) {
	h.hub.Serve(c)
}
