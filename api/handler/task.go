package handler

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks, optionally of one project
// @Tags tasks
// @Router /tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	projectID := string(ctx.QueryArgs().Peek("projectId"))
	tasks, err := h.uc.ListTasks(stdCtx, user.ID, projectID)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.TasksResponse{Tasks: tasks})
}

// @Summary Create task
// @Tags tasks
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.TaskCreateRequest
	if err := transport.Decode(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	due, err := transport.ParseDate(req.DueDate)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	task, err := h.uc.CreateTask(stdCtx, user.ID, taskUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     due,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.TaskResponse{Task: task})
}

// @Summary Update task fields
// @Tags tasks
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	patch, err := transport.DecodeTaskPatch(ctx.PostBody())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	task, err := h.uc.UpdateTask(stdCtx, user.ID, taskID(ctx), patch)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.TaskResponse{Task: task})
}

// @Summary Delete task
// @Tags tasks
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, user.ID, taskID(ctx)); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondOK(ctx, transport.MessageResponse{Message: "Task deleted successfully"})
}

func taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
