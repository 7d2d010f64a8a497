// Package clean HTTP-обработчики стандартизации
package clean

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dadataclean/cleansing"
	"dadataclean/internal/api/middleware"
)

// ClientFactory создает клиент DaData на один входящий запрос
type ClientFactory func() (*cleansing.Client, error)

// NormalizationObserver учитывает результаты нормализации (метрики)
type NormalizationObserver interface {
	ObserveNormalization(result string, strict bool)
}

// Handler обработчик запросов стандартизации
type Handler struct {
	newClient ClientFactory
	observer  NormalizationObserver
	logger    *slog.Logger
}

// NewHandler создает обработчик. observer может быть nil.
func NewHandler(newClient ClientFactory, observer NormalizationObserver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{newClient: newClient, observer: observer, logger: logger}
}

// NameRequest тело запроса нормализации ФИО
type NameRequest struct {
	Name   string `json:"name" binding:"required"`
	Strict bool   `json:"strict"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleNormalizeName обрабатывает POST /api/v1/clean/name
// @Summary Нормализация ФИО
// @Tags clean
// @Accept json
// @Produce json
// @Param request body NameRequest true "ФИО и режим проверки"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/clean/name [post]
func (h *Handler) HandleNormalizeName(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBadRequest(c, "field 'name' is required")
		return
	}

	client, err := h.newClient()
	if err != nil {
		h.writeError(c, err)
		return
	}

	field, err := client.NormalizeFullName(c.Request.Context(), req.Name, req.Strict)
	h.observe(err, req.Strict)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if raw := field.Raw(); len(raw) > 0 {
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}
	c.JSON(http.StatusOK, field)
}

// HandleClean обрабатывает POST /api/v1/clean: произвольный запрос стандартизации
// @Summary Стандартизация произвольных полей
// @Tags clean
// @Accept json
// @Produce json
// @Param request body cleansing.CleansingRequest true "Структура и записи"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/clean [post]
func (h *Handler) HandleClean(c *gin.Context) {
	var req cleansing.CleansingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		h.writeBadRequest(c, err.Error())
		return
	}

	client, err := h.newClient()
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp, err := client.Call(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) observe(err error, strict bool) {
	if h.observer == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = cleansing.KindOf(err).String()
	}
	h.observer.ObserveNormalization(result, strict)
}

func (h *Handler) writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:     "bad_request",
		Message:   message,
		RequestID: middleware.GetRequestIDFromGin(c),
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{
		Error:     cleansing.KindOf(err).String(),
		Message:   err.Error(),
		RequestID: middleware.GetRequestIDFromGin(c),
	}

	var cerr *cleansing.Error
	if errors.As(err, &cerr) {
		resp.Code = cerr.Code
		if cerr.Message != "" {
			resp.Message = cerr.Message
		}
	}

	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Clean request failed", "error", err, "request_id", resp.RequestID)
	}
	c.JSON(status, resp)
}

// StatusFor сопоставляет ошибку клиента HTTP-статусу ответа фасада
func StatusFor(err error) int {
	var cerr *cleansing.Error
	if !errors.As(err, &cerr) {
		return http.StatusInternalServerError
	}

	switch {
	case cerr.Kind.IsAcceptance():
		return http.StatusUnprocessableEntity
	case cerr.Kind == cleansing.KindTransport:
		if cerr.Code == cleansing.CodeCircuitOpen || cerr.Code == cleansing.CodeRateLimited {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	case cerr.Kind == cleansing.KindProtocol, cerr.Kind == cleansing.KindService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
