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

// GroupAuthorizer resolves a group and the caller's membership in it.
type GroupAuthorizer interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	EnsureMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error)
}

// RequireGroupAccess checks if the user is a member of the group named by
// the :group_id parameter. Non-members get the same 404 as a missing group.
func RequireGroupAccess(groups GroupAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Param("group_id")

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		ctx := c.Request.Context()
		group, err := groups.GetGroup(ctx, groupID)
		if err != nil {
			abortGroupLookup(c, err)
			return
		}

		member, err := groups.EnsureMember(ctx, groupID, userID)
		if err != nil {
			if errors.Is(err, services.ErrForbidden) {
				log.Debug().Str("user_id", userID).Str("group_id", groupID).Msg("group access denied")
			}
			abortGroupLookup(c, err)
			return
		}

		c.Set(constants.ContextKeyGroup, group)
		c.Set(constants.ContextKeyMember, member)
		c.Next()
	}
}

// RequireGroupOwner must run after RequireGroupAccess.
func RequireGroupOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetGroupMember(c)
		if !ok {
			apierrors.InternalError(c, "Group membership not resolved")
			return
		}

		if member.Role != models.RoleOwner {
			apierrors.Forbidden(c, "Only group owners can perform this action")
			return
		}

		c.Next()
	}
}

// GetGroup returns the group loaded by RequireGroupAccess
func GetGroup(c *gin.Context) (*models.Group, bool) {
	v, exists := c.Get(constants.ContextKeyGroup)
	if !exists {
		return nil, false
	}
	group, ok := v.(*models.Group)
	return group, ok
}

// GetGroupMember returns the caller's membership loaded by RequireGroupAccess
func GetGroupMember(c *gin.Context) (*models.GroupMember, bool) {
	v, exists := c.Get(constants.ContextKeyMember)
	if !exists {
		return nil, false
	}
	member, ok := v.(*models.GroupMember)
	return member, ok
}

func abortGroupLookup(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrForbidden) {
		apierrors.NotFound(c, "Group not found")
		return
	}
	log.Error().Err(err).Msg("failed to resolve group access")
	apierrors.InternalError(c, "Failed to verify group access")
}
