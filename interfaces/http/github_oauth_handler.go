package http

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"command-center/infrastructure/configuration"
	"command-center/infrastructure/logger"
	"command-center/usecase"
)

type IGitHubOAuthHandler interface {
	GetAuthURL(c *gin.Context)
	Callback(c *gin.Context)
	Status(c *gin.Context)
	Disconnect(c *gin.Context)
}

type gitHubOAuthHandler struct {
	githubUsecase usecase.IGitHubUsecase
	stateMu       sync.Mutex
	states        map[string]time.Time // state -> expiry
}

func NewGitHubOAuthHandler(githubUsecase usecase.IGitHubUsecase) IGitHubOAuthHandler {
	return &gitHubOAuthHandler{githubUsecase: githubUsecase, states: map[string]time.Time{}}
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// GetAuthURL builds the GitHub authorization URL (user must approve in browser)
func (h *gitHubOAuthHandler) GetAuthURL(c *gin.Context) {
	conf := configuration.C.GitHub
	if conf.ClientID == "" || conf.RedirectURI == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "github oauth not configured"})
		return
	}
	state := randomState()
	// store state with 10 minute expiry
	h.stateMu.Lock()
	h.states[state] = time.Now().Add(10 * time.Minute)
	h.stateMu.Unlock()
	c.JSON(http.StatusOK, gin.H{"auth_url": h.githubUsecase.AuthURL(state), "state": state})
}

// Callback validates the state and exchanges the code for a stored token.
func (h *gitHubOAuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	h.stateMu.Lock()
	exp, ok := h.states[state]
	if ok && time.Now().After(exp) { // expired
		ok = false
	}
	if ok {
		delete(h.states, state)
	}
	h.stateMu.Unlock()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_state"})
		return
	}

	userID := c.GetString("user_id")
	if userID == "" { // fallback for dev
		userID = "demo-user"
	}

	if err := h.githubUsecase.ExchangeCode(c.Request.Context(), userID, code); err != nil {
		logger.GetLogger().WithField("error", err).Error("GitHub code exchange failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "token_exchange_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

func (h *gitHubOAuthHandler) Status(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		userID = "demo-user"
	}
	status, err := h.githubUsecase.Status(c.Request.Context(), userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to load integration status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status_unavailable"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *gitHubOAuthHandler) Disconnect(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		userID = "demo-user"
	}
	if err := h.githubUsecase.Disconnect(c.Request.Context(), userID); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to disconnect integration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "disconnect_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": false})
}
