package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/utils"
)

var (
	// ErrUserReference is returned when a write references a user that does not exist.
	ErrUserReference = errors.New("repository: referenced user does not exist")
	// ErrGroupReference is returned when a write references a group that does not exist.
	ErrGroupReference = errors.New("repository: referenced group does not exist")
	// ErrTaskReference is returned when a write references a task that does not exist.
	ErrTaskReference = errors.New("repository: referenced task does not exist")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("repository: duplicate record")
	// ErrLastOwner is returned when a removal would leave a group without an owner.
	ErrLastOwner = errors.New("repository: group would lose its last owner")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Update persists changed user columns
	Update(ctx context.Context, user *models.User) error

	// Delete removes a user with their memberships and task relations, and
	// clears their task assignments.
	Delete(ctx context.Context, id string) error
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	// CreateWithOwner creates a group and the owner's membership atomically
	CreateWithOwner(ctx context.Context, group *models.Group, ownerID string) (*models.GroupMember, error)

	// FindByID finds a group by ID
	FindByID(ctx context.Context, id string, preload ...string) (*models.Group, error)

	// FindByInviteCode finds a group by invite code
	FindByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// Update persists changed group columns
	Update(ctx context.Context, group *models.Group) error

	// Delete deletes a group and all related data
	Delete(ctx context.Context, id string) error

	// AddMember adds a member to a group
	AddMember(ctx context.Context, member *models.GroupMember) error

	// RemoveMember removes a member from a group, refusing to remove the last owner
	RemoveMember(ctx context.Context, groupID, userID string) error

	// FindMember finds a specific group member
	FindMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error)

	// ListMembers lists all members of a group
	ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)

	// ListGroupsForUser lists all groups a user is a member of
	ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupMember, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task inside an existing group
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Task, error)

	// Update writes the given columns of a task
	Update(ctx context.Context, task *models.Task, columns ...string) error

	// Delete deletes a task and its user relations
	Delete(ctx context.Context, id string) error

	// Assign sets or clears the assignee of a task
	Assign(ctx context.Context, taskID string, userID *string) (*models.Task, error)

	// ListByGroup lists the tasks of a group in calendar order
	ListByGroup(ctx context.Context, groupID string) ([]models.Task, error)

	// ListForUser lists tasks assigned to or joined by a user
	ListForUser(ctx context.Context, userID string, page utils.PaginationParams) ([]models.Task, int64, error)

	// UpsertRelation records a user's reaction to a task
	UpsertRelation(ctx context.Context, relation *models.TaskUserRelation) error

	// DeleteRelation removes a user's reaction to a task
	DeleteRelation(ctx context.Context, taskID, userID string) error

	// ListRelations lists the user relations of a task
	ListRelations(ctx context.Context, taskID string) ([]models.TaskUserRelation, error)
}

// translate maps driver-level uniqueness failures onto ErrDuplicate.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// exists reports whether a row matching the query exists in model's table.
func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// forUpdate adds a row lock on dialects that support SELECT ... FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
