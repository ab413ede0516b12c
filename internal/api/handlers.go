package api

import (
	"net/http"
	"time"

	"omnifetch/internal/entity"
	"omnifetch/internal/usecase"
	"omnifetch/pkg/apperr"
	"omnifetch/pkg/logg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type SelectorRequest struct {
	Selector string `json:"selector" binding:"required"`
	Action   string `json:"action"`
}

type Response struct {
	Status    string `json:"status"`
	Result    any    `json:"result,omitempty"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Handler struct {
	usecase *usecase.Service
	logger  *zap.Logger
	now     func() time.Time
}

func NewHandler(uc *usecase.Service, logger *zap.Logger) *Handler {
	return &Handler{
		usecase: uc,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Selector runs a check, scrape or inspect for the extension popup.
func (h *Handler) Selector(c *gin.Context) {
	var req SelectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, apperr.CodeInvalidArgument, "invalid request body: "+err.Error())

		return
	}

	action := entity.ParseAction(req.Action)
	logger := h.logger.With(zap.String(logg.Selector, req.Selector), zap.String(logg.Action, string(action)))

	result, err := h.usecase.Selector.Process(c.Request.Context(), req.Selector, action)
	if err != nil {
		code := apperr.CodeOf(err)
		logger.Warn("Selector request failed", zap.String("code", code), zap.Error(err))
		h.fail(c, statusFor(code), code, err.Error())

		return
	}

	h.ok(c, result)
}

func (h *Handler) Datasets(c *gin.Context) {
	h.ok(c, h.usecase.Dataset.List())
}

func (h *Handler) ok(c *gin.Context, result any) {
	c.JSON(http.StatusOK, Response{
		Status:    statusSuccess,
		Result:    result,
		Timestamp: h.now().Format(time.RFC3339),
	})
}

func (h *Handler) fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{
		Status:    statusError,
		Message:   message,
		Code:      code,
		Timestamp: h.now().Format(time.RFC3339),
	})
}

func statusFor(code string) int {
	switch code {
	case apperr.CodeInvalidArgument, apperr.CodeInvalidSelector, apperr.CodeUnsupportedFormat:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeBrowserNotReady, apperr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
