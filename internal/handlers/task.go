package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/group-task-api/internal/dto"
	apierrors "github.com/yukikurage/group-task-api/internal/errors"
	"github.com/yukikurage/group-task-api/internal/middleware"
	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/services"
)

// TaskHandler serves task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListGroupTasks returns the tasks of a group ordered by date.
func (h *TaskHandler) ListGroupTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasksForGroup(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// CreateTask creates a task in a group
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req.ToCreateTaskInput(c.Param("group_id")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task with its reactions.
// Task is already loaded by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	h.respondTaskDetail(c, http.StatusOK, task)
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("task_id"), req.ToUpdateTaskInput())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and its reactions
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("task_id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignTask sets the task's assignee
func (h *TaskHandler) AssignTask(c *gin.Context) {
	var req dto.AssignTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.AssignTask(c.Request.Context(), c.Param("task_id"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UnassignTask clears the task's assignee
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	task, err := h.taskService.UnassignTask(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// SetReaction records whether the current user joins or declines the task
func (h *TaskHandler) SetReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var req dto.ReactionRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.taskService.SetReaction(c.Request.Context(), task.TaskID, userID, req.Reaction); err != nil {
		respondError(c, err)
		return
	}

	h.respondTaskDetail(c, http.StatusOK, task)
}

// ClearReaction removes the current user's reaction to the task
func (h *TaskHandler) ClearReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.ClearReaction(c.Request.Context(), c.Param("task_id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) respondTaskDetail(c *gin.Context, status int, task *models.Task) {
	relations, err := h.taskService.ListReactions(c.Request.Context(), task.TaskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(status, dto.ToTaskDetailDTO(*task, relations))
}
