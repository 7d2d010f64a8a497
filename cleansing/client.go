// Package cleansing клиент сервиса стандартизации данных DaData
// (https://dadata.ru/api/clean/) и нормализация ФИО поверх него.
package cleansing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultEndpointURL адрес метода стандартизации
	DefaultEndpointURL = "https://dadata.ru/api/v1/clean"

	// Version версия клиента, передается в User-Agent
	Version = "1.0"

	// maxResponseSize ограничение на размер читаемого ответа
	maxResponseSize = 10 << 20
)

// Recorder принимает результат каждого вызова (метрики)
type Recorder interface {
	ObserveCall(outcome string, statusCode int, duration time.Duration)
}

// Client клиент сервиса стандартизации.
// Диагностика хранит только последний вызов; при общем клиенте
// параллельные вызовы перезаписывают ее друг у друга.
type Client struct {
	accessToken    string
	secretKey      string
	userAgent      string
	connectTimeout time.Duration
	timeout        time.Duration
	httpClient     Doer
	limiter        *rate.Limiter
	breaker        *CircuitBreaker
	recorder       Recorder
	logger         *slog.Logger

	mu           sync.RWMutex
	endpointURL  string
	debugCapture bool
	last         *Diagnostics
}

// Option настраивает Client при создании
type Option func(*Client) error

// WithEndpointURL переопределяет адрес сервиса
func WithEndpointURL(url string) Option {
	return func(c *Client) error {
		if url == "" {
			return NewConfigError("endpoint url must not be empty")
		}
		c.endpointURL = url
		return nil
	}
}

// WithDebugCapture включает сохранение сырого тела ответа
func WithDebugCapture(enabled bool) Option {
	return func(c *Client) error {
		c.debugCapture = enabled
		return nil
	}
}

// WithSecretKey задает секретный ключ (заголовок X-Secret)
func WithSecretKey(secret string) Option {
	return func(c *Client) error {
		c.secretKey = secret
		return nil
	}
}

// WithTimeout задает таймаут соединения и общий таймаут запроса
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return NewConfigError("timeout must be positive")
		}
		c.connectTimeout = timeout
		c.timeout = timeout
		return nil
	}
}

// WithHTTPClient подменяет транспорт
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) error {
		if doer == nil {
			return NewConfigError("http client must not be nil")
		}
		c.httpClient = doer
		return nil
	}
}

// WithRateLimiter ограничивает частоту запросов. Лимитер можно разделять между клиентами.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) error {
		c.limiter = limiter
		return nil
	}
}

// WithCircuitBreaker подключает circuit breaker
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(c *Client) error {
		c.breaker = cb
		return nil
	}
}

// WithRecorder подключает сбор метрик
func WithRecorder(r Recorder) Option {
	return func(c *Client) error {
		c.recorder = r
		return nil
	}
}

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithUserAgent переопределяет User-Agent
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

// New создает клиент. Токен обязателен.
func New(accessToken string, opts ...Option) (*Client, error) {
	if accessToken == "" {
		return nil, NewConfigError("access token is not set")
	}

	c := &Client{
		accessToken:    accessToken,
		endpointURL:    DefaultEndpointURL,
		userAgent:      "dadataclean-go/v" + Version,
		connectTimeout: DefaultTimeout,
		timeout:        DefaultTimeout,
		logger:         slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.httpClient == nil {
		c.httpClient = NewHTTPClient(c.connectTimeout, c.timeout)
	}

	return c, nil
}

// EndpointURL возвращает текущий адрес сервиса
func (c *Client) EndpointURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpointURL
}

// SetEndpointURL переопределяет адрес сервиса
func (c *Client) SetEndpointURL(url string) error {
	if url == "" {
		return NewConfigError("endpoint url must not be empty")
	}
	c.mu.Lock()
	c.endpointURL = url
	c.mu.Unlock()
	return nil
}

// DebugCapture сообщает, сохраняется ли сырое тело ответа
func (c *Client) DebugCapture() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.debugCapture
}

// SetDebugCapture включает или выключает сохранение сырого тела ответа
func (c *Client) SetDebugCapture(enabled bool) {
	c.mu.Lock()
	c.debugCapture = enabled
	c.mu.Unlock()
}

// Call выполняет запрос на стандартизацию и возвращает разобранный ответ
func (c *Client) Call(ctx context.Context, req CleansingRequest) (*Response, error) {
	resp, diag, err := c.do(ctx, req)
	if diag != nil {
		c.storeDiagnostics(diag)
	}
	return resp, err
}

// CallWithDiagnostics то же, что Call, но дополнительно возвращает
// снимок диагностики именно этого вызова
func (c *Client) CallWithDiagnostics(ctx context.Context, req CleansingRequest) (*Response, *Diagnostics, error) {
	resp, diag, err := c.do(ctx, req)
	if diag != nil {
		c.storeDiagnostics(diag)
	}
	return resp, diag.copy(), err
}

// NormalizeFullName нормализует ФИО (см. Normalizer)
func (c *Client) NormalizeFullName(ctx context.Context, fullName string, strict bool) (*CleansedField, error) {
	return NewNormalizer(c).NormalizeFullName(ctx, fullName, strict)
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

func (c *Client) doer() Doer {
	if c.httpClient == nil {
		return NewHTTPClient(DefaultTimeout, DefaultTimeout)
	}
	return c.httpClient
}

// do выполняет один вызов. Диагностика возвращается всегда, кроме ошибок конфигурации.
func (c *Client) do(ctx context.Context, req CleansingRequest) (*Response, *Diagnostics, error) {
	c.mu.RLock()
	endpoint := c.endpointURL
	capture := c.debugCapture
	c.mu.RUnlock()

	if c.accessToken == "" {
		return nil, nil, NewConfigError("access token not found, configure the client with a token")
	}
	if endpoint == "" {
		return nil, nil, NewConfigError("endpoint url is not set")
	}

	diag := &Diagnostics{CallParameters: req.clone()}
	start := time.Now()
	requestID := uuid.NewString()
	logger := c.log().With("request_id", requestID, "endpoint", endpoint)

	finish := func(err error, status int) {
		diag.Metadata.TotalTime = time.Since(start)
		outcome := "ok"
		if err != nil {
			outcome = KindOf(err).String()
			logger.Warn("DaData clean request failed",
				"error", err,
				"kind", outcome,
				"status_code", status,
				"duration_ms", diag.Metadata.TotalTime.Milliseconds(),
			)
		} else {
			logger.Debug("DaData clean request completed",
				"status_code", status,
				"duration_ms", diag.Metadata.TotalTime.Milliseconds(),
			)
		}
		if c.recorder != nil {
			c.recorder.ObserveCall(outcome, status, diag.Metadata.TotalTime)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		err = NewProtocolError("failed to marshal request", err)
		finish(err, 0)
		return nil, diag, err
	}

	header := http.Header{}
	header.Set("Authorization", "Token "+c.accessToken)
	if c.secretKey != "" {
		header.Set("X-Secret", c.secretKey)
	}
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "application/json")
	header.Set("User-Agent", c.userAgent)
	header.Set("X-Request-ID", requestID)

	diag.RawRequest = RawRequest{
		Method:         http.MethodPost,
		URL:            endpoint,
		Header:         header.Clone(),
		Body:           body,
		UserAgent:      c.userAgent,
		ConnectTimeout: c.connectTimeout,
		Timeout:        c.timeout,
	}
	diag.Metadata = RequestMetadata{
		RequestID:   requestID,
		URL:         endpoint,
		RequestSize: len(body),
		StartedAt:   start,
	}

	logger.Debug("DaData clean request started", "records", len(req.Data), "fields", len(req.Structure))

	fail := func(code string, cause error) (*Response, *Diagnostics, error) {
		diag.Metadata.ErrorCode = code
		diag.Metadata.Error = cause.Error()
		err := NewTransportError(code, cause)
		finish(err, 0)
		return nil, diag, err
	}

	// Проверяем Circuit Breaker перед запросом
	if c.breaker != nil && !c.breaker.Allow() {
		return fail(CodeCircuitOpen, fmt.Errorf("circuit breaker is %s, calls are temporarily blocked", c.breaker.State()))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return fail(classifyTransportError(ctx.Err()), err)
			}
			return fail(CodeRateLimited, err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		err = &Error{Kind: KindConfig, Message: "invalid endpoint url", Err: err}
		finish(err, 0)
		return nil, diag, err
	}
	httpReq.Header = header

	httpResp, err := c.doer().Do(httpReq)
	if err != nil {
		c.recordTransportFailure(ctx)
		return fail(classifyTransportError(err), err)
	}
	defer httpResp.Body.Close()

	diag.Metadata.StatusCode = httpResp.StatusCode
	diag.Metadata.Proto = httpResp.Proto
	diag.Metadata.ContentType = httpResp.Header.Get("Content-Type")
	diag.Metadata.ResponseHeader = httpResp.Header.Clone()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize+1))
	if err != nil {
		c.recordTransportFailure(ctx)
		return fail(classifyTransportError(err), fmt.Errorf("failed to read response: %w", err))
	}
	diag.Metadata.ResponseSize = len(respBody)

	if c.breaker != nil {
		if httpResp.StatusCode >= 500 {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	if len(respBody) > maxResponseSize {
		err := NewProtocolError(fmt.Sprintf("response too large: exceeds %d bytes", maxResponseSize), nil)
		finish(err, httpResp.StatusCode)
		return nil, diag, err
	}

	if capture {
		diag.RawResponseBody = respBody
	}

	resp, err := parseResponse(httpResp.StatusCode, respBody)
	finish(err, httpResp.StatusCode)
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) && cerr.Kind == KindProtocol {
			logger.Debug("DaData clean response body", "body", truncate(string(respBody), 512))
		}
		return nil, diag, err
	}
	return resp, diag, nil
}

// recordTransportFailure учитывает сбой в circuit breaker.
// Отмена или дедлайн контекста вызывающего сбоем сервиса не считаются.
func (c *Client) recordTransportFailure(ctx context.Context) {
	if c.breaker == nil || ctx.Err() != nil {
		return
	}
	c.breaker.RecordFailure()
}

// truncate обрезает строку до maxLen байт по границе руны
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
