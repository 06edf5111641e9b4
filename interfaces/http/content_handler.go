package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"command-center/domain/dto"
	"command-center/infrastructure/logger"
	"command-center/usecase"
)

type IContentHandler interface {
	CreateIdea(c *gin.Context)
	ListIdeas(c *gin.Context)
	UpdateIdea(c *gin.Context)
	DeleteIdea(c *gin.Context)

	CreateDraft(c *gin.Context)
	ListDrafts(c *gin.Context)
	UpdateDraft(c *gin.Context)
	DeleteDraft(c *gin.Context)

	CreateScheduledPost(c *gin.Context)
	ListScheduledPosts(c *gin.Context)
	DeleteScheduledPost(c *gin.Context)

	CreateAsset(c *gin.Context)
	ListAssets(c *gin.Context)
	DeleteAsset(c *gin.Context)

	Stats(c *gin.Context)
}

type contentHandler struct {
	contentUsecase usecase.IContentUsecase
}

func NewContentHandler(contentUsecase usecase.IContentUsecase) IContentHandler {
	return &contentHandler{contentUsecase: contentUsecase}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func writeContentError(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrContentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	logger.GetLogger().WithField("error", err).Error("Content pipeline request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

func (h *contentHandler) CreateIdea(c *gin.Context) {
	var req dto.IdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	idea, err := h.contentUsecase.CreateIdea(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idea)
}

func (h *contentHandler) ListIdeas(c *gin.Context) {
	ideas, err := h.contentUsecase.ListIdeas(c.Request.Context(), requestUserID(c))
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

func (h *contentHandler) UpdateIdea(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.IdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	idea, err := h.contentUsecase.UpdateIdea(c.Request.Context(), requestUserID(c), id, req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, idea)
}

func (h *contentHandler) DeleteIdea(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.contentUsecase.DeleteIdea(c.Request.Context(), requestUserID(c), id); err != nil {
		writeContentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *contentHandler) CreateDraft(c *gin.Context) {
	var req dto.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft, err := h.contentUsecase.CreateDraft(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

func (h *contentHandler) ListDrafts(c *gin.Context) {
	drafts, err := h.contentUsecase.ListDrafts(c.Request.Context(), requestUserID(c))
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

func (h *contentHandler) UpdateDraft(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft, err := h.contentUsecase.UpdateDraft(c.Request.Context(), requestUserID(c), id, req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *contentHandler) DeleteDraft(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.contentUsecase.DeleteDraft(c.Request.Context(), requestUserID(c), id); err != nil {
		writeContentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *contentHandler) CreateScheduledPost(c *gin.Context) {
	var req dto.ScheduledPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.contentUsecase.CreateScheduledPost(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *contentHandler) ListScheduledPosts(c *gin.Context) {
	posts, err := h.contentUsecase.ListScheduledPosts(c.Request.Context(), requestUserID(c))
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scheduled_posts": posts})
}

func (h *contentHandler) DeleteScheduledPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.contentUsecase.DeleteScheduledPost(c.Request.Context(), requestUserID(c), id); err != nil {
		writeContentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *contentHandler) CreateAsset(c *gin.Context) {
	var req dto.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	asset, err := h.contentUsecase.CreateAsset(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (h *contentHandler) ListAssets(c *gin.Context) {
	assets, err := h.contentUsecase.ListAssets(c.Request.Context(), requestUserID(c))
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

func (h *contentHandler) DeleteAsset(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.contentUsecase.DeleteAsset(c.Request.Context(), requestUserID(c), id); err != nil {
		writeContentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *contentHandler) Stats(c *gin.Context) {
	stats, err := h.contentUsecase.Stats(c.Request.Context(), requestUserID(c))
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
