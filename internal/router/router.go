package router

import (
	"encoding/json"
	"fmt"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskflow/api/handler"
	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
)

// APIPrefix is an alias mount for every route; browser clients call /api/...
const APIPrefix = "/api"

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Team    *apiHandler.TeamHandler
	Project *apiHandler.ProjectHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

// Route is one entry of the dispatch table.
type Route struct {
	Method    string
	Path      string
	Protected bool
	Handler   fasthttp.RequestHandler
}

// Routes lists every endpoint. Exact method and path must match; anything
// else is answered with 404.
func Routes(h Handlers) []Route {
	return []Route{
		{Method: fasthttp.MethodPost, Path: "/auth/signup", Handler: h.Auth.Signup},
		{Method: fasthttp.MethodPost, Path: "/auth/login", Handler: h.Auth.Login},
		{Method: fasthttp.MethodGet, Path: "/auth/me", Protected: true, Handler: h.Auth.Me},
		{Method: fasthttp.MethodPost, Path: "/auth/logout", Protected: true, Handler: h.Auth.Logout},

		{Method: fasthttp.MethodGet, Path: "/teams", Protected: true, Handler: h.Team.GetTeams},
		{Method: fasthttp.MethodPost, Path: "/teams", Protected: true, Handler: h.Team.CreateTeam},

		{Method: fasthttp.MethodGet, Path: "/projects", Protected: true, Handler: h.Project.GetProjects},
		{Method: fasthttp.MethodPost, Path: "/projects", Protected: true, Handler: h.Project.CreateProject},

		{Method: fasthttp.MethodGet, Path: "/tasks", Protected: true, Handler: h.Task.GetTasks},
		{Method: fasthttp.MethodPost, Path: "/tasks", Protected: true, Handler: h.Task.CreateTask},
		{Method: fasthttp.MethodPut, Path: "/tasks/{id}", Protected: true, Handler: h.Task.UpdateTask},
		{Method: fasthttp.MethodDelete, Path: "/tasks/{id}", Protected: true, Handler: h.Task.DeleteTask},
	}
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, logger *zap.Logger) *router.Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := router.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	// A wrong method on a known path is a plain 404, not 405.
	r.HandleMethodNotAllowed = false
	r.HandleOPTIONS = false

	if handlers.Health != nil {
		r.GET("/health", handlers.Health.Check)
	}

	api := r.Group(APIPrefix)
	for _, route := range Routes(handlers) {
		handler := route.Handler
		if route.Protected {
			handler = authMiddleware(handler)
		}
		r.Handle(route.Method, route.Path, handler)
		api.Handle(route.Method, route.Path, handler)
	}

	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		writeError(ctx, fasthttp.StatusNotFound, domain.ErrRouteNotFound.Message)
	}
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, recovered interface{}) {
		logger.Error("handler panic",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Any("panic", recovered),
		)
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Sprint(recovered))
	}

	return r
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(transport.ErrorResponse{Error: message})
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
