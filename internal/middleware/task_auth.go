package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yukikurage/group-task-api/internal/constants"
	apierrors "github.com/yukikurage/group-task-api/internal/errors"
	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/services"
)

// TaskAuthorizer loads a task on behalf of a user.
type TaskAuthorizer interface {
	AuthorizeTask(ctx context.Context, taskID, userID string) (*models.Task, error)
}

// RequireTaskAccess checks if the user has access to a task.
// User must be a member of the task's group or its assignee.
func RequireTaskAccess(tasks TaskAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID := c.Param("task_id")

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		task, err := tasks.AuthorizeTask(c.Request.Context(), taskID, userID)
		if err != nil {
			// Return 404 instead of 403 to avoid leaking task existence
			if errors.Is(err, services.ErrNotFound) {
				apierrors.NotFound(c, "Task not found")
				return
			}
			log.Error().Err(err).Str("task_id", taskID).Msg("failed to authorize task")
			apierrors.InternalError(c, "Failed to verify task access")
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask returns the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (*models.Task, bool) {
	v, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := v.(*models.Task)
	return task, ok
}
