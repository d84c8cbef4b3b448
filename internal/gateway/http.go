package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/motahq/mota-sync/internal/models"
)

const defaultTimeout = 5 * time.Second

// HTTPClient реализует Client поверх net/http.
// Каждый запрос несет ограниченный таймаут; идемпотентные GET
// повторяются с экспоненциальным backoff, мутации — никогда.
type HTTPClient struct {
	httpClient *http.Client
	services   map[string]string
	signer     *TokenSigner
	logger     *slog.Logger
	timeout    time.Duration
	maxRetries int
}

// Options параметры создания HTTP клиента
type Options struct {
	Services   map[string]string // Services имя сервиса -> базовый URL
	Signer     *TokenSigner      // Signer подписывает межсервисные токены (опционально)
	Logger     *slog.Logger      // Logger структурированный логгер
	Timeout    time.Duration     // Timeout таймаут запроса по умолчанию
	MaxRetries int               // MaxRetries число повторов для GET запросов
}

// NewHTTPClient создает новый gateway клиент
func NewHTTPClient(opts Options) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPClient{
		// Таймаут управляется контекстом per-request, не транспортом
		httpClient: &http.Client{},
		services:   opts.Services,
		signer:     opts.Signer,
		logger:     logger,
		timeout:    timeout,
		maxRetries: opts.MaxRetries,
	}
}

// Get выполняет GET запрос с повторами транзиентных ошибок
func (c *HTTPClient) Get(ctx context.Context, service, path string, opts *RequestOptions, uc models.UserContext) (*Response, error) {
	var resp *Response

	operation := func() error {
		r, err := c.doRequest(ctx, http.MethodGet, service, path, nil, opts, uc)
		if err != nil {
			if !retryable(ctx, err) {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return resp, nil
}

// Post выполняет POST запрос. Мутации не повторяются.
func (c *HTTPClient) Post(ctx context.Context, service, path string, body any, opts *RequestOptions, uc models.UserContext) (*Response, error) {
	return c.doRequest(ctx, http.MethodPost, service, path, body, opts, uc)
}

// Put выполняет PUT запрос. Мутации не повторяются.
func (c *HTTPClient) Put(ctx context.Context, service, path string, body any, opts *RequestOptions, uc models.UserContext) (*Response, error) {
	return c.doRequest(ctx, http.MethodPut, service, path, body, opts, uc)
}

// Delete выполняет DELETE запрос. Мутации не повторяются.
func (c *HTTPClient) Delete(ctx context.Context, service, path string, opts *RequestOptions, uc models.UserContext) (*Response, error) {
	return c.doRequest(ctx, http.MethodDelete, service, path, nil, opts, uc)
}

// doRequest выполняет один HTTP запрос к downstream сервису
func (c *HTTPClient) doRequest(ctx context.Context, method, service, path string, body any, opts *RequestOptions, uc models.UserContext) (*Response, error) {
	baseURL, ok := c.services[service]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, service)
	}

	url := baseURL + path
	if opts != nil && len(opts.Params) > 0 {
		url += "?" + opts.Params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	timeout := c.timeout
	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Контекст пользователя передается заголовками
	if uc.UserID != "" {
		req.Header.Set("X-User-Id", uc.UserID)
	}
	if uc.TenantID != "" {
		req.Header.Set("X-Tenant-Id", uc.TenantID)
	}
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}

	// Межсервисный токен для downstream авторизации
	if c.signer != nil {
		token, err := c.signer.Sign(uc)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("Gateway request", "method", method, "service", service, "path", path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return nil, c.classifyTransportError(err, service, path)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		svcErr := &ServiceError{
			Service: service,
			Path:    path,
			Status:  resp.StatusCode,
			Message: resp.Status,
		}
		// Пытаемся вытащить сообщение из конверта ответа
		var envelope Response
		if jsonErr := json.Unmarshal(respBody, &envelope); jsonErr == nil && envelope.Message != "" {
			svcErr.Message = envelope.Message
		}
		c.logger.Warn("Gateway request failed",
			"service", service,
			"path", path,
			"status", resp.StatusCode,
			"duration_ms", elapsed.Milliseconds())
		return nil, svcErr
	}

	result := &Response{Elapsed: elapsed}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			// Сервис ответил не конвертом — отдаем тело как есть
			result.Code = resp.StatusCode
			result.Data = respBody
		}
	}
	result.Elapsed = elapsed

	return result, nil
}

// classifyTransportError переводит сетевые ошибки в таксономию gateway
func (c *HTTPClient) classifyTransportError(err error, service, path string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s: %v", ErrRequestTimeout, service, path, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %v", ErrServiceUnavailable, service, path, err)
}

// retryable сообщает, можно ли повторить GET после ошибки
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Retryable()
	}
	// Сетевые ошибки и таймауты одного запроса транзиентны
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrRequestTimeout)
}
