package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/pkg/token"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*domain.User, *token.Claims, error)
}

// Authentication is the outcome of checking one request. Error is the
// client-facing reason when Authenticated is false.
type Authentication struct {
	Authenticated bool
	User          *domain.User
	Claims        *token.Claims
	Error         string
}

// Authenticate inspects the Authorization header of ctx.
func Authenticate(ctx context.Context, auth Authenticator, header string) Authentication {
	user, claims, err := auth.Authenticate(ctx, bearerToken(header))
	if err == nil {
		return Authentication{Authenticated: true, User: user, Claims: claims}
	}

	switch {
	case errors.Is(err, domain.ErrNoToken):
		return Authentication{Error: domain.ErrNoToken.Message}
	case errors.Is(err, domain.ErrUserNotFound):
		return Authentication{Error: domain.ErrUserNotFound.Message}
	default:
		return Authentication{Error: domain.ErrInvalidToken.Message}
	}
}

// JWTAuth rejects requests without a valid bearer token with 401 and
// otherwise stores the user on the request for the wrapped handler.
func JWTAuth(auth Authenticator, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			stdCtx, cancel := adapter.Attach(ctx)
			result := Authenticate(stdCtx, auth, string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)))
			cancel()

			if !result.Authenticated {
				logger.Debug("request rejected",
					zap.ByteString("path", ctx.Path()),
					zap.String("reason", result.Error),
				)
				body, _ := json.Marshal(transport.ErrorResponse{Error: result.Error})
				ctx.Response.Header.SetContentType("application/json")
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetBody(body)
				return
			}

			httpcontext.SetUser(ctx, result.User, result.Claims)
			next(ctx)
		}
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
