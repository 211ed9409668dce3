package dto

import (
	"time"

	"github.com/yukikurage/group-task-api/internal/models"
)

// CreateGroupRequest is the body of POST /api/groups
type CreateGroupRequest struct {
	GroupName   string  `json:"group_name" binding:"required"`
	Description *string `json:"description"`
}

// UpdateGroupRequest is the body of PATCH /api/groups/:group_id.
// A null description removes it.
type UpdateGroupRequest struct {
	GroupName   *string          `json:"group_name"`
	Description Nullable[string] `json:"description"`
}

// JoinGroupRequest is the body of POST /api/groups/join
type JoinGroupRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// AddMemberRequest is the body of POST /api/groups/:group_id/members
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// GroupDTO represents a group in API responses
type GroupDTO struct {
	GroupID     string    `json:"group_id"`
	GroupName   string    `json:"group_name"`
	Description *string   `json:"description"`
	InviteCode  string    `json:"invite_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupWithRoleDTO represents a group with the user's role
type GroupWithRoleDTO struct {
	GroupDTO
	Role models.GroupRole `json:"role"`
}

// GroupMemberDTO represents a member in a group
type GroupMemberDTO struct {
	User     UserDTO          `json:"user"`
	Role     models.GroupRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
}

// GroupDetailDTO represents detailed group information
type GroupDetailDTO struct {
	GroupDTO
	Members  []GroupMemberDTO `json:"members"`
	YourRole models.GroupRole `json:"your_role"`
}

// ToGroupDTO converts a Group model to GroupDTO. The invite code is only
// shown to members.
func ToGroupDTO(group models.Group, includeInviteCode bool) GroupDTO {
	dto := GroupDTO{
		GroupID:     group.GroupID,
		GroupName:   group.GroupName,
		Description: group.Description,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
	if includeInviteCode {
		dto.InviteCode = group.InviteCode
	}
	return dto
}

// ToGroupWithRoleDTO converts a membership with its preloaded group
func ToGroupWithRoleDTO(member models.GroupMember) GroupWithRoleDTO {
	return GroupWithRoleDTO{
		GroupDTO: ToGroupDTO(member.Group, true),
		Role:     member.Role,
	}
}

// ToGroupMemberDTO converts a membership with its preloaded user
func ToGroupMemberDTO(member models.GroupMember) GroupMemberDTO {
	return GroupMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.CreatedAt,
	}
}

// ToGroupMemberDTOs converts a list of memberships
func ToGroupMemberDTOs(members []models.GroupMember) []GroupMemberDTO {
	dtos := make([]GroupMemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToGroupMemberDTO(member)
	}
	return dtos
}

// ToGroupDetailDTO converts a group with members to detailed DTO
func ToGroupDetailDTO(group models.Group, members []models.GroupMember, yourRole models.GroupRole) GroupDetailDTO {
	return GroupDetailDTO{
		GroupDTO: ToGroupDTO(group, true),
		Members:  ToGroupMemberDTOs(members),
		YourRole: yourRole,
	}
}
