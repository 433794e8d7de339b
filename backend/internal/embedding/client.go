// Package embedding talks to an Ollama compatible embeddings endpoint.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/campusnet/campusnet/shared/config"
	internal_errors "github.com/campusnet/campusnet/shared/errors"
)

// Client turns text into vectors of a fixed size.
type Client struct {
	BaseURL    string
	Model      string
	Dimensions int
	HttpClient *http.Client
}

func New(cfg config.Embedding) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(cfg.Url, "/"),
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		HttpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

func embedErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", internal_errors.ErrEmbedding, fmt.Sprintf(format, args...))
}

// Embed returns the vector for text. Every failure matches ErrEmbedding.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.Model, Prompt: text})
	if err != nil {
		return nil, embedErr("failed to encode request: %v", err)
	}

	resp, err := c.do(ctx, "/api/embeddings", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, embedErr("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, embedErr("failed to decode response: %v", err)
	}
	if out.Error != "" {
		return nil, embedErr("%s", out.Error)
	}
	if c.Dimensions > 0 && len(out.Embedding) != c.Dimensions {
		return nil, embedErr("got %d dimensions, want %d", len(out.Embedding), c.Dimensions)
	}
	return out.Embedding, nil
}

// Ping checks that the endpoint answers.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/version", nil)
	if err != nil {
		return embedErr("failed to create request: %v", err)
	}
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return embedErr("endpoint unavailable: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return embedErr("status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, embedErr("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, embedErr("endpoint unavailable: %v", err)
	}
	return resp, nil
}
