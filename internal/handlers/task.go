package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/dto"
	apierrors "github.com/Muhammad-shoaib-tech-lab/todo-api/internal/errors"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/logger"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/middleware"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/services"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TaskHandler struct {
	taskService   *services.TaskService
	exportService *services.ExportService
}

func NewTaskHandler(taskService *services.TaskService, exportService *services.ExportService) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		exportService: exportService,
	}
}

// CreateTask creates a new task owned by the caller, or by ownerEmail when given
func (h *TaskHandler) CreateTask(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Actor:       account,
		OwnerEmail:  req.Owner(),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.Time,
		Priority:    req.Priority,
		Category:    req.Category,
		Location:    req.Location,
		Reminder:    req.Reminder,
		Tag:         req.Tag,
		AssignTo:    req.AssignTo,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListOwnerTasks returns the tasks owned by the email in the path
func (h *TaskHandler) ListOwnerTasks(c *gin.Context) {
	input, ok := parseListInput(c)
	if !ok {
		return
	}

	tasks, total, err := h.taskService.ListForOwner(c.Request.Context(), c.Param("userEmail"), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondTaskList(c, input, tasks, total)
}

// ListAllTasks returns every task
func (h *TaskHandler) ListAllTasks(c *gin.Context) {
	input, ok := parseListInput(c)
	if !ok {
		return
	}

	tasks, total, err := h.taskService.ListAll(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondTaskList(c, input, tasks, total)
}

// UpdateTask merges the given fields into the task loaded by RequireTaskAccess
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Location:    req.Location,
		Reminder:    req.Reminder,
		Tag:         req.Tag,
		AssignTo:    req.AssignTo,
		Complete:    req.Complete,
	}
	if req.DueDate != nil {
		input.DueDate = &req.DueDate.Time
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), task.ID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteTask deletes the task loaded by RequireTaskAccess
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted"})
}

// GenerateTasks suggests task drafts from free text without saving them
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req dto.GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	drafts, err := h.taskService.GenerateDrafts(c.Request.Context(), req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	resp := dto.GenerateTasksResponse{Tasks: make([]dto.TaskDraftDTO, len(drafts))}
	for i, d := range drafts {
		resp.Tasks[i] = dto.TaskDraftDTO{
			Title:       d.Title,
			Description: d.Description,
			DueDate:     d.DueDate,
			Priority:    d.Priority,
			Category:    d.Category,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ExportTasks downloads every task as an xlsx workbook
func (h *TaskHandler) ExportTasks(c *gin.Context) {
	var buf bytes.Buffer
	count, err := h.exportService.WriteTasks(c.Request.Context(), &buf)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	filename := "todos-" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("X-Total-Count", strconv.Itoa(count))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func parseListInput(c *gin.Context) (services.ListTasksInput, bool) {
	input := services.ListTasksInput{Pagination: utils.GetPaginationParams(c)}

	switch c.Query("status") {
	case "":
	case "complete":
		done := true
		input.Complete = &done
	case "pending":
		pending := false
		input.Complete = &pending
	default:
		apierrors.BadRequest(c, "status must be complete or pending")
		return input, false
	}

	if raw := c.Query("priority"); raw != "" {
		priority := models.Priority(raw)
		if !priority.Valid() {
			apierrors.BadRequest(c, services.ErrInvalidPriority.Error())
			return input, false
		}
		input.Priority = &priority
	}

	return input, true
}

func respondTaskList(c *gin.Context, input services.ListTasksInput, tasks []models.Task, total int64) {
	if input.Pagination.Enabled() {
		c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	}
	c.JSON(http.StatusOK, tasks)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Todo not found")
	case errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Forbidden(c, "Not allowed")
	case errors.Is(err, services.ErrDueDateInPast),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrDescriptionEmpty),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrOwnerEmailRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	default:
		logger.FromContext(c).Error().Err(err).Msg("task request failed")
		apierrors.InternalError(c, "")
	}
}
