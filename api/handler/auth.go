package handler

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	authUC "github.com/fastygo/taskflow/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a new account
// @Tags auth
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.SignupRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	session, err := h.uc.Signup(stdCtx, authUC.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.SessionResponse{Token: session.Token, User: session.User})
}

// @Summary Exchange credentials for a token
// @Tags auth
// @Router /auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.LoginRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	session, err := h.uc.Login(stdCtx, authUC.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.SessionResponse{Token: session.Token, User: session.User})
}

// @Summary Current user
// @Tags auth
// @Router /auth/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}
	h.respondOK(ctx, transport.UserResponse{User: user.Public()})
}

// @Summary Revoke the presented token
// @Tags auth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	if h.currentUser(ctx) == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, httpcontext.Claims(ctx)); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.MessageResponse{Message: "Logged out"})
}
