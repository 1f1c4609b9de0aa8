// Package assistant sends a question to an OpenAI-compatible chat completions
// endpoint and returns the answer text.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/julianstephens/focos/internal/config"
	"github.com/julianstephens/focos/internal/logger"
	"github.com/julianstephens/focos/internal/models"
)

var (
	ErrEmptyQuestion = errors.New("question cannot be empty")
	ErrNoAnswer      = errors.New("assistant returned no answer")
)

// UpstreamError is a non-2xx reply from the endpoint.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("assistant request failed with status %d: %s", e.Status, e.Body)
}

var systemPrompt = template.Must(template.New("system").Parse(
	`You are the assistant inside {{.AppName}}, a focus and habit app.
{{- if .DevotionalMode}}
Answer with a calm, devotional tone and offer a short reflection when it fits.
{{- else if .DivineMode}}
Keep a gentle, spiritual tone.
{{- end}}
The user focuses in {{.FocusDuration}}-minute sessions with {{.BreakDuration}}-minute breaks.
Keep answers short and practical.`))

type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

func New(cfg config.AssistantConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey(),
		http:     &http.Client{Timeout: cfg.Timeout},
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

// SystemPrompt renders the instructions sent ahead of every question.
func SystemPrompt(s models.Settings) (string, error) {
	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// Ask sends question with a system prompt built from settings.
func (c *Client) Ask(ctx context.Context, settings models.Settings, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	prompt, err := SystemPrompt(settings)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: question},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	logger.Debug("Sending assistant request", "endpoint", c.endpoint, "model", c.model)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(raw))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return "", &UpstreamError{Status: resp.StatusCode, Body: snippet}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrNoAnswer
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
