package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Zacy-Sokach/sqlassistant/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 响应体读取上限，错误信息只截取前面一段
const (
	maxResponseBytes = 4 << 20
	maxErrorBodyLen  = 512
)

// ErrMissingAnswer 表示 2xx 响应里没有 answer 字段
var ErrMissingAnswer = errors.New("响应缺少 answer 字段")

// APIError 表示 API 请求错误，包含状态码和错误信息
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API请求失败 (状态码: %d): %s", e.StatusCode, e.Message)
}

// 全局共享的HTTP传输层，实现连接池化
var (
	sharedTransport *http.Transport
	transportOnce   sync.Once
)

func getSharedTransport() *http.Transport {
	transportOnce.Do(func() {
		sharedTransport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	})
	return sharedTransport
}

// NewHTTPClient 返回使用共享连接池的 HTTP 客户端，timeout 为 0 时不限时
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: getSharedTransport(),
	}
}

type Client struct {
	endpoint  string
	sessionID string
	doer      utils.Doer
	logger    *zap.Logger
}

type Option func(*Client)

// WithDoer 替换底层 HTTP 执行者
func WithDoer(d utils.Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient 创建问答后端客户端
// endpoint: 问答接口的绝对地址
// sessionID: 每个请求都携带的固定会话标识
func NewClient(endpoint, sessionID string, opts ...Option) *Client {
	c := &Client{
		endpoint:  endpoint,
		sessionID: sessionID,
		doer:      NewHTTPClient(60 * time.Second),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask 把问题发给后端并返回 answer 字段
// 任何传输错误、非 2xx 状态、无法解析的响应都会返回错误
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(AskRequest{
		Question:  question,
		SessionID: c.sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	log := c.logger.With(zap.String("request_id", requestID))
	start := time.Now()

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		log.Warn("backend request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("backend responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(bodyBytes),
		}
		log.Warn("backend rejected question", zap.Error(apiErr))
		return "", apiErr
	}

	var askResp AskResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&askResp); err != nil {
		log.Warn("undecodable backend response", zap.Error(err))
		return "", fmt.Errorf("解析响应失败: %w", err)
	}
	if askResp.Answer == nil {
		log.Warn("backend response without answer")
		return "", ErrMissingAnswer
	}

	return *askResp.Answer, nil
}
