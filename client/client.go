// Package client is a small Go client for a faq-core server. It is
// used by the faqcli tool and can be embedded in other programs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds one full ask round trip, answer generation
// included.
const DefaultTimeout = 90 * time.Second

// Client talks to a faq-core server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// APIError is an error response produced by the server, as opposed to a
// transport failure reaching it. Message is safe to show to users.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Ask submits a lecture text / question pair and returns the answer.
// Server-rejected requests come back as *APIError; anything else is a
// transport failure.
func (c *Client) Ask(ctx context.Context, text, question string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"question": question,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ask", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &errBody)
		message := strings.TrimSpace(errBody.Error)
		if message == "" {
			message = strings.TrimSpace(string(body))
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	var result struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode answer: %w", err)
	}
	if strings.TrimSpace(result.Answer) == "" {
		return "", errors.New("empty answer from server")
	}
	return result.Answer, nil
}

// Health checks the server liveness probe.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "health check failed"}
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if result.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", result.Status)
	}
	return nil
}
