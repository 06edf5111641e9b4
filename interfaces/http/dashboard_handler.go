package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"command-center/infrastructure/logger"
	"command-center/usecase"
)

type IDashboardHandler interface {
	Overview(c *gin.Context)
	Search(c *gin.Context)
}

type dashboardHandler struct {
	dashboardUsecase usecase.IDashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.IDashboardUsecase) IDashboardHandler {
	return &dashboardHandler{dashboardUsecase: dashboardUsecase}
}

func (h *dashboardHandler) Overview(c *gin.Context) {
	d, err := h.dashboardUsecase.Overview(c.Request.Context(), requestUserID(c))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to assemble dashboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dashboard_unavailable"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *dashboardHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}
	results, err := h.dashboardUsecase.Search(c.Request.Context(), requestUserID(c), query)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
