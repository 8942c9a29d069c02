package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/constants"
	apierrors "github.com/Muhammad-shoaib-tech-lab/todo-api/internal/errors"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/logger"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/services"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/utils"
)

// RequireSelfOrAdmin lets the request through when the email in the given
// path parameter is the caller's own, or the caller is an admin.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := GetAccount(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		if !account.IsAdmin() && utils.NormalizeEmail(c.Param(param)) != account.Email {
			apierrors.Forbidden(c, "Not allowed")
			return
		}
		c.Next()
	}
}

// RequireTaskAccess loads the task named by the id path parameter and checks
// that the caller may modify it.
func RequireTaskAccess(tasks *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := GetAccount(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		task, err := tasks.GetTask(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.NotFound(c, "Todo not found")
				return
			}
			logger.FromContext(c).Error().Err(err).Str("task_id", c.Param("id")).Msg("failed to load task")
			apierrors.InternalError(c, "")
			return
		}

		if !tasks.CanModify(account, task) {
			apierrors.Forbidden(c, "Not allowed")
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok
}
