package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jwalitptl/studio-automations/internal/config"
)

const defaultFunctionTimeout = 15 * time.Second

// FunctionSender posts messages to an HTTP delivery function.
type FunctionSender struct {
	url    string
	apiKey string
	client *http.Client
}

func NewFunctionSender(cfg config.FunctionConfig, client *http.Client) (*FunctionSender, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("delivery function url is required")
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultFunctionTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &FunctionSender{url: cfg.URL, apiKey: cfg.APIKey, client: client}, nil
}

func (s *FunctionSender) Send(ctx context.Context, msg Message) (*Result, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call delivery function: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read delivery function response: %w", err)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("delivery function returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to decode delivery function response: %w", err)
	}

	if resp.StatusCode >= 300 && result.Success {
		return nil, fmt.Errorf("delivery function returned status %d", resp.StatusCode)
	}
	if !result.Success && result.Error == "" {
		result.Error = fmt.Sprintf("delivery function reported failure (status %d)", resp.StatusCode)
	}
	return &result, nil
}
