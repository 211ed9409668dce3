package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/group-task-api/internal/dto"
	"github.com/yukikurage/group-task-api/internal/services"
	"github.com/yukikurage/group-task-api/internal/utils"
)

// UserHandler serves the authenticated user's own resources under /api/me.
type UserHandler struct {
	authService  *services.AuthService
	groupService *services.GroupService
	taskService  *services.TaskService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, groupService *services.GroupService, taskService *services.TaskService) *UserHandler {
	return &UserHandler{
		authService:  authService,
		groupService: groupService,
		taskService:  taskService,
	}
}

// GetMe returns the authenticated user.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
}

// UpdateMe changes the authenticated user's name or email.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		UserName: req.UserName,
		Email:    req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user))
}

// ChangePassword replaces the authenticated user's password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteMe deletes the authenticated user's account and ends the session.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.authService.DeleteUser(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	store := sessions.Default(c)
	store.Clear()
	_ = store.Save()

	c.Status(http.StatusNoContent)
}

// ListMyGroups returns the groups the user belongs to with their role.
func (h *UserHandler) ListMyGroups(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	memberships, err := h.groupService.ListGroupsForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	groups := make([]dto.GroupWithRoleDTO, len(memberships))
	for i, m := range memberships {
		groups[i] = dto.ToGroupWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// ListMyTasks returns a page of the tasks the user is assigned to or has joined.
func (h *UserHandler) ListMyTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.ListTasksForUser(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}
