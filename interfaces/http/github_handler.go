package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"command-center/domain/dto"
	githubclient "command-center/infrastructure/clients/github"
	"command-center/infrastructure/logger"
	"command-center/usecase"
)

type IGitHubHandler interface {
	ListRepos(c *gin.Context)
	ListIssues(c *gin.Context)
	GetIssue(c *gin.Context)
	CreateIssue(c *gin.Context)
	ListMilestones(c *gin.Context)
	ListActivity(c *gin.Context)
	SuggestIssue(c *gin.Context)
	MintIdempotencyKey(c *gin.Context)
}

type gitHubHandler struct {
	githubUsecase usecase.IGitHubUsecase
}

func NewGitHubHandler(githubUsecase usecase.IGitHubUsecase) IGitHubHandler {
	return &gitHubHandler{githubUsecase: githubUsecase}
}

func requestUserID(c *gin.Context) string {
	userID := c.GetString("user_id")
	if userID == "" {
		userID = "demo-user"
	}
	return userID
}

// writeGitHubError maps usecase errors onto status codes. Upstream failures
// surface as 502 so callers can tell them apart from our own faults.
func writeGitHubError(c *gin.Context, err error) {
	var upstream *githubclient.UpstreamError
	switch {
	case errors.Is(err, usecase.ErrNotConnected):
		c.JSON(http.StatusBadRequest, gin.H{"error": "github_not_connected"})
	case errors.Is(err, usecase.ErrCreateInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "create_in_flight"})
	case errors.As(err, &upstream):
		logger.GetLogger().WithField("error", err).Error("Upstream request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_error", "status": upstream.StatusCode})
	default:
		logger.GetLogger().WithField("error", err).Error("GitHub request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func (h *gitHubHandler) ListRepos(c *gin.Context) {
	opts := dto.RepoListOptions{
		Visibility: c.Query("visibility"),
		Sort:       c.DefaultQuery("sort", "pushed"),
		Direction:  c.Query("direction"),
	}
	if v, err := strconv.Atoi(c.DefaultQuery("per_page", "30")); err == nil {
		opts.PerPage = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		opts.Page = v
	}

	list, err := h.githubUsecase.ListRepos(c.Request.Context(), requestUserID(c), opts)
	if err != nil {
		writeGitHubError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *gitHubHandler) ListIssues(c *gin.Context) {
	opts := dto.IssueListOptions{
		State: c.DefaultQuery("state", "open"),
		Query: c.Query("q"),
	}
	if v, err := strconv.Atoi(c.DefaultQuery("per_page", "30")); err == nil {
		opts.PerPage = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		opts.Page = v
	}

	issues, err := h.githubUsecase.ListIssues(c.Request.Context(), requestUserID(c), c.Param("owner"), c.Param("repo"), opts)
	if err != nil {
		writeGitHubError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

func (h *gitHubHandler) GetIssue(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue number"})
		return
	}
	issue, err := h.githubUsecase.GetIssue(c.Request.Context(), requestUserID(c), c.Param("owner"), c.Param("repo"), number)
	if err != nil {
		writeGitHubError(c, err)
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *gitHubHandler) CreateIssue(c *gin.Context) {
	var req dto.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	res, err := h.githubUsecase.CreateIssue(c.Request.Context(), requestUserID(c), c.Param("owner"), c.Param("repo"), req)
	if err != nil {
		writeGitHubError(c, err)
		return
	}
	if res.Replayed {
		c.JSON(http.StatusOK, res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *gitHubHandler) ListMilestones(c *gin.Context) {
	milestones, err := h.githubUsecase.ListMilestones(c.Request.Context(), requestUserID(c), c.Param("owner"), c.Param("repo"))
	if err != nil {
		writeGitHubError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

func (h *gitHubHandler) ListActivity(c *gin.Context) {
	res, err := h.githubUsecase.ListActivity(c.Request.Context(), requestUserID(c), c.Param("owner"), c.Param("repo"))
	if err != nil {
		writeGitHubError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *gitHubHandler) SuggestIssue(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	title, body, err := h.githubUsecase.SuggestIssue(c.Request.Context(), req.Prompt)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Issue suggestion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "suggestion_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": title, "body": body})
}

// MintIdempotencyKey hands the client a key to attach to a later create so a
// retry after a network failure replays instead of duplicating.
func (h *gitHubHandler) MintIdempotencyKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"idempotency_key": uuid.NewString()})
}
