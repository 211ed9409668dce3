package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yukikurage/group-task-api/internal/models"
)

// GormGroupRepository is a GORM implementation of GroupRepository
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

// CreateWithOwner creates a group and makes ownerID its owner atomically.
func (r *GormGroupRepository) CreateWithOwner(ctx context.Context, group *models.Group, ownerID string) (*models.GroupMember, error) {
	var member *models.GroupMember

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.User{}, "user_id = ?", ownerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserReference
		}

		if err := tx.Create(group).Error; err != nil {
			return translate(err)
		}

		member = &models.GroupMember{
			GroupID: group.GroupID,
			UserID:  ownerID,
			Role:    models.RoleOwner,
		}

		return translate(tx.Create(member).Error)
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// FindByID finds a group by ID with optional preloading
func (r *GormGroupRepository) FindByID(ctx context.Context, id string, preload ...string) (*models.Group, error) {
	var group models.Group
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&group, "group_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByInviteCode finds a group by invite code
func (r *GormGroupRepository) FindByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Update persists the editable columns of a group
func (r *GormGroupRepository) Update(ctx context.Context, group *models.Group) error {
	result := r.db.WithContext(ctx).
		Model(group).
		Select("group_name", "description", "invite_code").
		Updates(group)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGroupReference
	}
	return nil
}

// Delete deletes a group and everything it owns in a transaction: the user
// relations of its tasks, its tasks, its members and finally the group row.
func (r *GormGroupRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Group{}, "group_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupReference
			}
			return err
		}

		groupTasks := tx.Model(&models.Task{}).Select("task_id").Where("group_id = ?", id)
		if err := tx.Where("task_id IN (?)", groupTasks).Delete(&models.TaskUserRelation{}).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}

		return tx.Where("group_id = ?", id).Delete(&models.Group{}).Error
	})
}

// AddMember adds a member to a group after checking both sides exist and the
// membership is new.
func (r *GormGroupRepository) AddMember(ctx context.Context, member *models.GroupMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Group{}, "group_id = ?", member.GroupID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrGroupReference
		}

		ok, err = exists(tx, &models.User{}, "user_id = ?", member.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserReference
		}

		ok, err = exists(tx, &models.GroupMember{}, "group_id = ? AND user_id = ?", member.GroupID, member.UserID)
		if err != nil {
			return err
		}
		if ok {
			return ErrDuplicate
		}

		if member.Role == "" {
			member.Role = models.RoleMember
		}

		return translate(tx.Create(member).Error)
	})
}

// RemoveMember removes a member from a group. The owner rows of the group are
// locked first so concurrent removals can not leave it without an owner.
func (r *GormGroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners []models.GroupMember
		if err := forUpdate(tx).
			Where("group_id = ? AND role = ?", groupID, models.RoleOwner).
			Find(&owners).Error; err != nil {
			return err
		}

		var member models.GroupMember
		if err := tx.Where("group_id = ? AND user_id = ?", groupID, userID).
			First(&member).Error; err != nil {
			return err
		}

		if member.Role == models.RoleOwner && len(owners) <= 1 {
			return ErrLastOwner
		}

		result := tx.Where("group_id = ? AND user_id = ?", groupID, userID).
			Delete(&models.GroupMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// FindMember finds a specific group member
func (r *GormGroupRepository) FindMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	var member models.GroupMember
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a group, oldest first
func (r *GormGroupRepository) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListGroupsForUser lists the memberships of a user with their groups
func (r *GormGroupRepository) ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupMember, error) {
	var memberships []models.GroupMember
	if err := r.db.WithContext(ctx).
		Preload("Group").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
