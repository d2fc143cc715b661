package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client calls the ML pipeline that renders the comic. The pipeline is an
// opaque HTTP dependency: one POST in, an image URL and optional quiz out.
// Calls are bounded by the configured timeout; nothing is retried here.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type GenerateRequest struct {
	UserTheme   string `json:"user_theme"`
	Genre       string `json:"genre"`
	Style       string `json:"style"`
	DontInclude string `json:"dont_include"`
	UUID        string `json:"uuid"`
}

type GenerateResponse struct {
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
	UUID     string `json:"uuid,omitempty"`
	ImageURL string `json:"image_url"`
	MCQs     string `json:"mcqs,omitempty"`
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation backend request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Generation backend returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("request_id", req.UUID))
		return nil, fmt.Errorf("generation backend returned status %d", resp.StatusCode)
	}

	result := &GenerateResponse{}
	if err := json.Unmarshal(respBody, result); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}
	if result.ImageURL == "" {
		return nil, fmt.Errorf("no image URL received from generation backend")
	}
	return result, nil
}
