package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yukikurage/group-task-api/internal/dto"
	apierrors "github.com/yukikurage/group-task-api/internal/errors"
	"github.com/yukikurage/group-task-api/internal/middleware"
	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/services"
)

// GroupHandler serves group and membership endpoints.
type GroupHandler struct {
	groupService *services.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// CreateGroup creates a group owned by the current user.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), services.CreateGroupInput{
		Name:        req.GroupName,
		Description: req.Description,
	}, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Info().Str("group_id", group.GroupID).Str("user_id", userID).Msg("group created")
	c.JSON(http.StatusCreated, dto.ToGroupWithRoleDTO(models.GroupMember{
		Group: *group,
		Role:  models.RoleOwner,
	}))
}

// JoinGroup adds the current user to the group owning an invite code.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.JoinGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	group, err := h.groupService.JoinByInviteCode(c.Request.Context(), userID, req.InviteCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupWithRoleDTO(models.GroupMember{
		Group: *group,
		Role:  models.RoleMember,
	}))
}

// GetGroup returns a group with its members.
// Group and membership are loaded by RequireGroupAccess.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	member, ok := middleware.GetGroupMember(c)
	if !ok {
		apierrors.InternalError(c, "Group membership not resolved")
		return
	}

	group, members, err := h.groupService.GetGroupWithMembers(c.Request.Context(), member.GroupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDetailDTO(*group, members, member.Role))
}

// UpdateGroup changes the group's name or description.
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	var req dto.UpdateGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	group, err := h.groupService.UpdateGroup(c.Request.Context(), c.Param("group_id"), services.UpdateGroupInput{
		Name:             req.GroupName,
		Description:      req.Description.Value,
		ClearDescription: req.Description.Null(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTO(*group, true))
}

// DeleteGroup deletes the group with its tasks and memberships.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	groupID := c.Param("group_id")
	if err := h.groupService.DeleteGroup(c.Request.Context(), groupID); err != nil {
		respondError(c, err)
		return
	}

	log.Info().Str("group_id", groupID).Msg("group deleted")
	c.Status(http.StatusNoContent)
}

// RegenerateInviteCode issues a new invite code for the group.
func (h *GroupHandler) RegenerateInviteCode(c *gin.Context) {
	group, err := h.groupService.RegenerateInviteCode(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite_code": group.InviteCode})
}

// ListMembers returns the members of the group.
func (h *GroupHandler) ListMembers(c *gin.Context) {
	members, err := h.groupService.ListMembers(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToGroupMemberDTOs(members)})
}

// AddMember adds an existing user to the group.
func (h *GroupHandler) AddMember(c *gin.Context) {
	var req dto.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.groupService.AddMember(c.Request.Context(), c.Param("group_id"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"group_id": member.GroupID,
		"user_id":  member.UserID,
		"role":     member.Role,
	})
}

// RemoveMember removes a user from the group. Owners may remove anyone;
// members may only remove themselves.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	member, ok := middleware.GetGroupMember(c)
	if !ok {
		apierrors.InternalError(c, "Group membership not resolved")
		return
	}

	targetID := c.Param("user_id")
	if targetID != member.UserID && member.Role != models.RoleOwner {
		apierrors.Forbidden(c, "Only group owners can remove other members")
		return
	}

	if err := h.groupService.RemoveMember(c.Request.Context(), member.GroupID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
