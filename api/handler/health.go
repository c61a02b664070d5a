package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	"github.com/fastygo/taskflow/pkg/httpcontext"
)

// StatusSource is satisfied by *monitor.Monitor.
type StatusSource interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusSource
}

func NewHealthHandler(mon StatusSource, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()

	services := map[string]bool{"database": status.Database}
	if status.RedisEnabled {
		services["redis"] = status.Redis
	}
	payload := transport.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	}
	if status.Buffer {
		payload.Buffer = &transport.BufferStatus{Online: status.Buffer, Size: status.BufferSize}
	}

	code := http.StatusOK
	if !status.Online() {
		payload.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	h.respondJSON(ctx, code, payload)
}
