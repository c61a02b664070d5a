package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskflow/domain"
	appLogger "github.com/fastygo/taskflow/pkg/logger"
	"github.com/fastygo/taskflow/pkg/token"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// fasthttp user value keys set by the auth middleware.
const (
	userValueKey   = "taskflow.user"
	claimsValueKey = "taskflow.claims"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches
// it with request metadata and, when authenticated, the user id.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := requestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	if user := User(ctx); user != nil {
		stdCtx = appLogger.ContextWithUserID(stdCtx, user.ID)
	}

	return stdCtx, cancel
}

// SetUser stores the authenticated user and the claims of its token.
func SetUser(ctx *fasthttp.RequestCtx, user *domain.User, claims *token.Claims) {
	ctx.SetUserValue(userValueKey, user)
	ctx.SetUserValue(claimsValueKey, claims)
}

// User returns the authenticated user, or nil outside protected routes.
func User(ctx *fasthttp.RequestCtx) *domain.User {
	user, _ := ctx.UserValue(userValueKey).(*domain.User)
	return user
}

func Claims(ctx *fasthttp.RequestCtx) *token.Claims {
	claims, _ := ctx.UserValue(claimsValueKey).(*token.Claims)
	return claims
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek("X-Request-ID")); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
