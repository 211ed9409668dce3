package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/repository"
	"github.com/yukikurage/group-task-api/internal/utils"
)

// inviteCodeAttempts bounds retries when a generated invite code collides.
const inviteCodeAttempts = 3

// GroupService provides business logic for group operations.
type GroupService struct {
	groupRepo repository.GroupRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
	}
}

// CreateGroupInput represents parameters to create a new group.
type CreateGroupInput struct {
	Name        string  `validate:"required,max=255"`
	Description *string `validate:"omitnil,max=255"`
}

// CreateGroup creates a group and makes the creator its owner in one transaction.
func (s *GroupService) CreateGroup(ctx context.Context, input CreateGroupInput, creatorID string) (*models.Group, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		inviteCode, err := utils.GenerateInviteCode()
		if err != nil {
			return nil, ErrInviteCodeGeneration
		}

		group := &models.Group{
			GroupName:   input.Name,
			Description: input.Description,
			InviteCode:  inviteCode,
		}

		_, err = s.groupRepo.CreateWithOwner(ctx, group, creatorID)
		switch {
		case err == nil:
			return group, nil
		case errors.Is(err, repository.ErrUserReference):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate) && attempt+1 < inviteCodeAttempts:
			continue
		default:
			return nil, fmt.Errorf("failed to create group: %w", err)
		}
	}
}

// GetGroup returns a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return group, nil
}

// GetGroupWithMembers returns a group and all of its members.
func (s *GroupService) GetGroupWithMembers(ctx context.Context, groupID string) (*models.Group, []models.GroupMember, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list group members: %w", err)
	}

	return group, members, nil
}

// ListMembers returns the members of a group.
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	return members, nil
}

// ListGroupsForUser returns the memberships of a user with their groups.
func (s *GroupService) ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupMember, error) {
	memberships, err := s.groupRepo.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return memberships, nil
}

// UpdateGroupInput holds the group fields to change. ClearDescription
// removes the description.
type UpdateGroupInput struct {
	Name             *string `validate:"omitnil,min=1,max=255"`
	Description      *string `validate:"omitnil,max=255"`
	ClearDescription bool
}

// UpdateGroup changes a group's name and description.
func (s *GroupService) UpdateGroup(ctx context.Context, groupID string, input UpdateGroupInput) (*models.Group, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		group.GroupName = *input.Name
	}
	if input.ClearDescription {
		group.Description = nil
	} else if input.Description != nil {
		group.Description = input.Description
	}

	if err := s.saveGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// RegenerateInviteCode replaces the group's invite code; the old one stops working.
func (s *GroupService) RegenerateInviteCode(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGeneration
	}

	group.InviteCode = code
	if err := s.saveGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes a group with its members, tasks and their relations.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) error {
	if err := s.groupRepo.Delete(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrGroupReference) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

// AddMember adds a user to a group as a regular member.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	member := &models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    models.RoleMember,
	}

	if err := s.groupRepo.AddMember(ctx, member); err != nil {
		switch {
		case errors.Is(err, repository.ErrGroupReference):
			return nil, ErrGroupNotFound
		case errors.Is(err, repository.ErrUserReference):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlreadyGroupMember
		default:
			return nil, fmt.Errorf("failed to add member to group: %w", err)
		}
	}

	return member, nil
}

// JoinByInviteCode adds a user to the group the invite code belongs to.
func (s *GroupService) JoinByInviteCode(ctx context.Context, userID, inviteCode string) (*models.Group, error) {
	group, err := s.groupRepo.FindByInviteCode(ctx, strings.TrimSpace(inviteCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find group by invite code: %w", err)
	}

	if _, err := s.AddMember(ctx, group.GroupID, userID); err != nil {
		return nil, err
	}

	return group, nil
}

// RemoveMember removes a user from a group. The last owner cannot be removed.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID string) error {
	if err := s.groupRepo.RemoveMember(ctx, groupID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrLastOwner):
			return ErrLastOwner
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrMemberNotFound
		default:
			return fmt.Errorf("failed to remove member: %w", err)
		}
	}
	return nil
}

// LeaveGroup removes the calling user from a group.
func (s *GroupService) LeaveGroup(ctx context.Context, groupID, userID string) error {
	return s.RemoveMember(ctx, groupID, userID)
}

// GetMember returns the membership of userID in groupID.
func (s *GroupService) GetMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	member, err := s.groupRepo.FindMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find group member: %w", err)
	}
	return member, nil
}

// EnsureMember verifies that a user belongs to a group.
func (s *GroupService) EnsureMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	member, err := s.GetMember(ctx, groupID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		return nil, ErrNotGroupMember
	}
	return member, err
}

// EnsureOwner verifies that a user owns a group.
func (s *GroupService) EnsureOwner(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	member, err := s.EnsureMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != models.RoleOwner {
		return nil, ErrNotGroupOwner
	}
	return member, nil
}

func (s *GroupService) saveGroup(ctx context.Context, group *models.Group) error {
	if err := s.groupRepo.Update(ctx, group); err != nil {
		if errors.Is(err, repository.ErrGroupReference) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}
