package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"command-center/domain/model"
	"command-center/domain/repository"
	"command-center/infrastructure/logger"
)

// Config holds provider settings. An empty APIKey switches the client to
// placeholder mode so the rest of the system keeps working without a
// provider account.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewLLMClient(config *Config) repository.ILLM {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	model := config.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		endpoint:   strings.TrimSuffix(config.Endpoint, "/"),
		apiKey:     config.APIKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("llm: upstream status %d: %s", resp.StatusCode, string(body))
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("llm: empty completion")
	}
	return out.Choices[0].Message.Content, nil
}

// SummarizeNote produces a short summary. Without an API key, or when the
// provider fails, it falls back to a placeholder built from the note itself so
// callers never surface an LLM outage to the user.
func (c *Client) SummarizeNote(ctx context.Context, title, content string) (*model.NoteSummary, error) {
	if c.apiKey == "" || c.endpoint == "" {
		return placeholderSummary(title, content), nil
	}
	system := "You summarize research notes in two sentences. Answer with JSON: {\"summary\": string, \"citations\": [{\"text\": string, \"source\": string}]}."
	user := fmt.Sprintf("Title: %s\n\n%s", title, content)
	completion, err := c.complete(ctx, system, user)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("LLM summarization failed - using placeholder")
		return placeholderSummary(title, content), nil
	}
	var summary model.NoteSummary
	if err := json.Unmarshal([]byte(completion), &summary); err != nil || summary.Summary == "" {
		// Model answered in prose instead of JSON.
		return &model.NoteSummary{Summary: strings.TrimSpace(completion)}, nil
	}
	return &summary, nil
}

// SuggestIssue drafts an issue title and body from free-form context.
func (c *Client) SuggestIssue(ctx context.Context, prompt string) (string, string, error) {
	if c.apiKey == "" || c.endpoint == "" {
		return placeholderIssue(prompt)
	}
	system := "You draft GitHub issues. Answer with JSON: {\"title\": string, \"body\": string}."
	completion, err := c.complete(ctx, system, prompt)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("LLM issue suggestion failed - using placeholder")
		return placeholderIssue(prompt)
	}
	var out struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.Unmarshal([]byte(completion), &out); err != nil || out.Title == "" {
		return placeholderIssue(prompt)
	}
	return out.Title, out.Body, nil
}

func placeholderSummary(title, content string) *model.NoteSummary {
	excerpt := content
	if len(excerpt) > 200 {
		excerpt = excerpt[:200] + "..."
	}
	return &model.NoteSummary{
		Summary: fmt.Sprintf("Summary unavailable. Note %q begins: %s", title, excerpt),
	}
}

func placeholderIssue(prompt string) (string, string, error) {
	title := strings.TrimSpace(firstLine(prompt))
	if title == "" {
		title = "Untitled issue"
	}
	if len(title) > 80 {
		title = title[:80]
	}
	return title, prompt, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
