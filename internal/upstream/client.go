package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"study_session_gateway/internal/config"
	"study_session_gateway/pkg/monitoring"
)

// Client 访问上游学习后端的HTTP客户端
// 所有请求在持有token时携带 Authorization: Bearer <token>
type Client struct {
	mu       sync.RWMutex
	baseURL  string
	language string
	http     *http.Client

	videoRetry Policy
}

func NewClient(cfg config.UpstreamConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
		http:     &http.Client{Timeout: timeout},
		videoRetry: Policy{
			MaxAttempts: cfg.VideoRetryMax,
			Delay:       LinearDelay(cfg.VideoRetryDelay),
		},
	}
}

// ApplyConfig 配置热加载入口，整体替换可变参数
func (c *Client) ApplyConfig(cfg config.UpstreamConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	c.language = cfg.Language
	c.videoRetry = Policy{
		MaxAttempts: cfg.VideoRetryMax,
		Delay:       LinearDelay(cfg.VideoRetryDelay),
	}
}

func (c *Client) base() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

func (c *Client) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

// APIError 上游返回的非2xx响应
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream status %d", e.Status)
}

func decodeAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &APIError{Status: status, Message: payload.Error}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &APIError{Status: status, Message: msg}
}

func (c *Client) do(ctx context.Context, resource, method, path, token string, reqBody, out interface{}) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", resource, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base()+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", resource, err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		monitoring.UpstreamRequests.WithLabelValues(resource, "error").Inc()
		return fmt.Errorf("%s request: %w", resource, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		monitoring.UpstreamRequests.WithLabelValues(resource, "error").Inc()
		return fmt.Errorf("read %s response: %w", resource, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		monitoring.UpstreamRequests.WithLabelValues(resource, "error").Inc()
		return decodeAPIError(resp.StatusCode, data)
	}

	monitoring.UpstreamRequests.WithLabelValues(resource, "ok").Inc()

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}
