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

type IResearchNoteHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Summarize(c *gin.Context)
}

type researchNoteHandler struct {
	noteUsecase usecase.IResearchNoteUsecase
}

func NewResearchNoteHandler(noteUsecase usecase.IResearchNoteUsecase) IResearchNoteHandler {
	return &researchNoteHandler{noteUsecase: noteUsecase}
}

func noteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return 0, false
	}
	return id, true
}

func (h *researchNoteHandler) Create(c *gin.Context) {
	var req dto.ResearchNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.noteUsecase.Create(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to create research note")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *researchNoteHandler) Get(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	n, err := h.noteUsecase.GetById(c.Request.Context(), requestUserID(c), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get_failed"})
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *researchNoteHandler) List(c *gin.Context) {
	limit := 50
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		limit = v
	}
	notes, err := h.noteUsecase.List(c.Request.Context(), requestUserID(c), limit)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to list research notes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *researchNoteHandler) Update(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	var req dto.ResearchNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.noteUsecase.Update(c.Request.Context(), requestUserID(c), id, req)
	if err != nil {
		if errors.Is(err, usecase.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed"})
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *researchNoteHandler) Delete(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	if err := h.noteUsecase.Delete(c.Request.Context(), requestUserID(c), id); err != nil {
		if errors.Is(err, usecase.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *researchNoteHandler) Summarize(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	summary, err := h.noteUsecase.Summarize(c.Request.Context(), requestUserID(c), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Failed to summarize note")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summarize_failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
