package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/group-task-api/internal/database"
	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/utils"
)

// taskContentColumns are the columns Update writes when none are given.
var taskContentColumns = []string{
	"title", "date", "time_span_begin", "time_span_end", "place", "description", "status",
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task after checking its group and assignee exist
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Group{}, "group_id = ?", task.GroupID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrGroupReference
		}

		if task.AssignedTo != nil {
			ok, err = exists(tx, &models.User{}, "user_id = ?", *task.AssignedTo)
			if err != nil {
				return err
			}
			if !ok {
				return ErrUserReference
			}
		}

		return translate(tx.Omit(clause.Associations).Create(task).Error)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, "task_id = ?", id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// Update writes the given columns of a task, or every content column when
// none are given. updated_at is always refreshed.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, columns ...string) error {
	if len(columns) == 0 {
		columns = taskContentColumns
	}

	result := r.db.WithContext(ctx).
		Model(task).
		Select(columns).
		Updates(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskReference
	}
	return nil
}

// Delete deletes a task and its user relations
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Task{}, "task_id = ?", id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTaskReference
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskUserRelation{}).Error; err != nil {
			return err
		}

		return tx.Where("task_id = ?", id).Delete(&models.Task{}).Error
	})
}

// Assign points assigned_to at userID, or clears it when userID is nil.
func (r *GormTaskRepository) Assign(ctx context.Context, taskID string, userID *string) (*models.Task, error) {
	var task models.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "task_id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskReference
			}
			return err
		}

		var assignee interface{} = gorm.Expr("NULL")
		if userID != nil {
			ok, err := exists(tx, &models.User{}, "user_id = ?", *userID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrUserReference
			}
			assignee = *userID
		}

		if err := tx.Model(&models.Task{}).
			Where("task_id = ?", taskID).
			Update("assigned_to", assignee).Error; err != nil {
			return err
		}

		return tx.First(&task, "task_id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByGroup lists the tasks of a group ordered by date
func (r *GormTaskRepository) ListByGroup(ctx context.Context, groupID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("tasks.group_id = ?", groupID).
		Scopes(database.ByTaskDate).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListForUser lists tasks the user is assigned to or has joined, across all
// groups, ordered by date.
func (r *GormTaskRepository) ListForUser(ctx context.Context, userID string, page utils.PaginationParams) ([]models.Task, int64, error) {
	base := func() *gorm.DB {
		joined := r.db.Model(&models.TaskUserRelation{}).
			Select("task_id").
			Where("user_id = ? AND reaction = ?", userID, models.ReactionJoin)

		return r.db.WithContext(ctx).
			Model(&models.Task{}).
			Where("tasks.assigned_to = ? OR tasks.task_id IN (?)", userID, joined)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := base().
		Scopes(database.ByTaskDate, database.Paginate(page)).
		Preload("Group").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpsertRelation records a user's reaction to a task, replacing any earlier one
func (r *GormTaskRepository) UpsertRelation(ctx context.Context, relation *models.TaskUserRelation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Task{}, "task_id = ?", relation.TaskID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTaskReference
		}

		ok, err = exists(tx, &models.User{}, "user_id = ?", relation.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserReference
		}

		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"reaction", "updated_at"}),
			}).
			Create(relation).Error
	})
}

// DeleteRelation removes a user's reaction to a task
func (r *GormTaskRepository) DeleteRelation(ctx context.Context, taskID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&models.TaskUserRelation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListRelations lists the user relations of a task, oldest first
func (r *GormTaskRepository) ListRelations(ctx context.Context, taskID string) ([]models.TaskUserRelation, error) {
	var relations []models.TaskUserRelation
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}
