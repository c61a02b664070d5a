package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	appLogger "github.com/fastygo/taskflow/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return h.adapter.Attach(ctx)
}

// currentUser is only nil when a handler was routed without the auth
// middleware.
func (h baseHandler) currentUser(ctx *fasthttp.RequestCtx) *domain.User {
	user := httpcontext.User(ctx)
	if user == nil {
		h.respondError(context.Background(), ctx, domain.ErrUnauthorized)
	}
	return user
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error"}`)
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func (h baseHandler) respondOK(ctx *fasthttp.RequestCtx, payload interface{}) {
	h.respondJSON(ctx, http.StatusOK, payload)
}

func (h baseHandler) respondError(stdCtx context.Context, ctx *fasthttp.RequestCtx, err error) {
	status, message := mapError(err)
	if status == http.StatusInternalServerError {
		appLogger.WithRequestID(stdCtx, h.logger).Error("request failed",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err),
		)
	}
	h.respondJSON(ctx, status, transport.ErrorResponse{Error: message})
}

// mapError turns an error into a status code and the message shown to the
// client. Domain errors expose their own message; anything else is a 500
// carrying the raw error text.
func mapError(err error) (int, string) {
	var dErr *domain.Error
	if !errors.As(err, &dErr) {
		return http.StatusInternalServerError, err.Error()
	}

	switch dErr.Code {
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized, dErr.Message
	case domain.ErrCodeForbidden:
		return http.StatusForbidden, dErr.Message
	case domain.ErrCodeInvalid, domain.ErrCodeConflict:
		return http.StatusBadRequest, dErr.Message
	case domain.ErrCodeNotFound:
		return http.StatusNotFound, dErr.Message
	default:
		return http.StatusInternalServerError, dErr.Error()
	}
}
