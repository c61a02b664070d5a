package handler

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	projectUC "github.com/fastygo/taskflow/usecase/project"
)

type ProjectHandler struct {
	baseHandler
	uc *projectUC.UseCase
}

func NewProjectHandler(uc *projectUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List projects of visible teams
// @Tags projects
// @Router /projects [get]
func (h *ProjectHandler) GetProjects(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	projects, err := h.uc.ListProjects(stdCtx, user.ID)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.ProjectsResponse{Projects: projects})
}

// @Summary Create project
// @Tags projects
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.ProjectRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	project, err := h.uc.CreateProject(stdCtx, user.ID, projectUC.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.TeamID,
	})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.ProjectResponse{Project: project})
}
