package handler

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	teamUC "github.com/fastygo/taskflow/usecase/team"
)

type TeamHandler struct {
	baseHandler
	uc *teamUC.UseCase
}

func NewTeamHandler(uc *teamUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List visible teams
// @Tags teams
// @Router /teams [get]
func (h *TeamHandler) GetTeams(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	teams, err := h.uc.ListTeams(stdCtx, user.ID)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.TeamsResponse{Teams: teams})
}

// @Summary Create team
// @Tags teams
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.TeamRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	team, err := h.uc.CreateTeam(stdCtx, user.ID, teamUC.CreateInput{Name: req.Name, Description: req.Description})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.TeamResponse{Team: team})
}
