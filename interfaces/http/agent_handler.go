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

type IAgentHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	UpsertMemory(c *gin.Context)
	ListMemory(c *gin.Context)
	GetApprovalPolicy(c *gin.Context)
	SetApprovalPolicy(c *gin.Context)
	RunTest(c *gin.Context)
	ListTestLogs(c *gin.Context)
}

type agentHandler struct {
	agentUsecase usecase.IAgentUsecase
}

func NewAgentHandler(agentUsecase usecase.IAgentUsecase) IAgentHandler {
	return &agentHandler{agentUsecase: agentUsecase}
}

func writeAgentError(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrAgentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
		return
	}
	logger.GetLogger().WithField("error", err).Error("Agent request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

func (h *agentHandler) Create(c *gin.Context) {
	var req dto.AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.agentUsecase.Create(c.Request.Context(), requestUserID(c), req)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *agentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	a, err := h.agentUsecase.GetById(c.Request.Context(), requestUserID(c), id)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *agentHandler) List(c *gin.Context) {
	agents, err := h.agentUsecase.List(c.Request.Context(), requestUserID(c))
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

func (h *agentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.agentUsecase.Update(c.Request.Context(), requestUserID(c), id, req)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *agentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.agentUsecase.Delete(c.Request.Context(), requestUserID(c), id); err != nil {
		writeAgentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *agentHandler) UpsertMemory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AgentMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.agentUsecase.UpsertMemory(c.Request.Context(), requestUserID(c), id, req)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *agentHandler) ListMemory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	memory, err := h.agentUsecase.ListMemory(c.Request.Context(), requestUserID(c), id)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"memory": memory})
}

func (h *agentHandler) GetApprovalPolicy(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.agentUsecase.GetApprovalPolicy(c.Request.Context(), requestUserID(c), id)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *agentHandler) SetApprovalPolicy(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ApprovalPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.agentUsecase.SetApprovalPolicy(c.Request.Context(), requestUserID(c), id, req)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *agentHandler) RunTest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Input string `json:"input" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log, err := h.agentUsecase.RunTest(c.Request.Context(), requestUserID(c), id, req.Input)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *agentHandler) ListTestLogs(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit := 50
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		limit = v
	}
	logs, err := h.agentUsecase.ListTestLogs(c.Request.Context(), requestUserID(c), id, limit)
	if err != nil {
		writeAgentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
