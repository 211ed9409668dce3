package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/repository"
	"github.com/yukikurage/group-task-api/internal/utils"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	groupRepo repository.GroupRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, groupRepo repository.GroupRepository) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		groupRepo: groupRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	GroupID       string    `validate:"required"`
	Title         string    `validate:"required,max=255"`
	Date          time.Time `validate:"required"`
	TimeSpanBegin *time.Time
	TimeSpanEnd   *time.Time
	Place         *string `validate:"omitnil,max=255"`
	Description   *string `validate:"omitnil,max=255"`
	Status        *string `validate:"omitnil,max=255"`
	AssignedTo    *string
}

// UpdateTaskInput represents a partial task update. A nil field is left
// unchanged; a Clear flag sets the column to NULL.
type UpdateTaskInput struct {
	Title              *string `validate:"omitnil,min=1,max=255"`
	Date               *time.Time
	TimeSpanBegin      *time.Time
	ClearTimeSpanBegin bool
	TimeSpanEnd        *time.Time
	ClearTimeSpanEnd   bool
	Place              *string `validate:"omitnil,max=255"`
	ClearPlace         bool
	Description        *string `validate:"omitnil,max=255"`
	ClearDescription   bool
	Status             *string `validate:"omitnil,max=255"`
	ClearStatus        bool
}

// CreateTask creates a task in an existing group. Nothing is written when the
// group or assignee does not exist.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := checkTimeSpan(input.TimeSpanBegin, input.TimeSpanEnd); err != nil {
		return nil, err
	}

	task := &models.Task{
		GroupID:       input.GroupID,
		AssignedTo:    input.AssignedTo,
		Title:         input.Title,
		Date:          input.Date,
		TimeSpanBegin: input.TimeSpanBegin,
		TimeSpanEnd:   input.TimeSpanEnd,
		Place:         input.Place,
		Description:   input.Description,
		Status:        input.Status,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		switch {
		case errors.Is(err, repository.ErrGroupReference):
			return nil, ErrGroupNotFound
		case errors.Is(err, repository.ErrUserReference):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
	}

	return task, nil
}

// GetTask returns a task with its assignee
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update to a task
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Date != nil && input.Date.IsZero() {
		return nil, &ValidationError{Fields: map[string]string{"Date": "required"}}
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Date != nil {
		task.Date = *input.Date
	}
	task.TimeSpanBegin = pick(task.TimeSpanBegin, input.TimeSpanBegin, input.ClearTimeSpanBegin)
	task.TimeSpanEnd = pick(task.TimeSpanEnd, input.TimeSpanEnd, input.ClearTimeSpanEnd)
	task.Place = pick(task.Place, input.Place, input.ClearPlace)
	task.Description = pick(task.Description, input.Description, input.ClearDescription)
	task.Status = pick(task.Status, input.Status, input.ClearStatus)

	if err := checkTimeSpan(task.TimeSpanBegin, task.TimeSpanEnd); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskReference) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(ctx, taskID)
}

// DeleteTask deletes a task and its user relations
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskReference) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignTask makes userID the assignee of a task
func (s *TaskService) AssignTask(ctx context.Context, taskID, userID string) (*models.Task, error) {
	return s.assign(ctx, taskID, &userID)
}

// UnassignTask clears the assignee of a task
func (s *TaskService) UnassignTask(ctx context.Context, taskID string) (*models.Task, error) {
	return s.assign(ctx, taskID, nil)
}

func (s *TaskService) assign(ctx context.Context, taskID string, userID *string) (*models.Task, error) {
	task, err := s.taskRepo.Assign(ctx, taskID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskReference):
			return nil, ErrTaskNotFound
		case errors.Is(err, repository.ErrUserReference):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to assign task: %w", err)
		}
	}

	return task, nil
}

// ListTasksForGroup returns the tasks of a group ordered by date
func (s *TaskService) ListTasksForGroup(ctx context.Context, groupID string) ([]models.Task, error) {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	tasks, err := s.taskRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// ListTasksForUser returns one page of the tasks a user is assigned to or
// has joined, with the total count.
func (s *TaskService) ListTasksForUser(ctx context.Context, userID string, page utils.PaginationParams) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.ListForUser(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// SetReaction records whether a user joins or declines a task
func (s *TaskService) SetReaction(ctx context.Context, taskID, userID string, reaction models.Reaction) (*models.TaskUserRelation, error) {
	if reaction != models.ReactionJoin && reaction != models.ReactionDecline {
		return nil, &ValidationError{Fields: map[string]string{"Reaction": "oneof"}}
	}

	relation := &models.TaskUserRelation{
		TaskID:   taskID,
		UserID:   userID,
		Reaction: reaction,
	}

	if err := s.taskRepo.UpsertRelation(ctx, relation); err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskReference):
			return nil, ErrTaskNotFound
		case errors.Is(err, repository.ErrUserReference):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to save reaction: %w", err)
		}
	}

	return relation, nil
}

// ClearReaction removes a user's reaction to a task
func (s *TaskService) ClearReaction(ctx context.Context, taskID, userID string) error {
	if err := s.taskRepo.DeleteRelation(ctx, taskID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReactionNotFound
		}
		return fmt.Errorf("failed to clear reaction: %w", err)
	}

	return nil
}

// ListReactions returns the user reactions recorded for a task
func (s *TaskService) ListReactions(ctx context.Context, taskID string) ([]models.TaskUserRelation, error) {
	relations, err := s.taskRepo.ListRelations(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}

	return relations, nil
}

// CanAccessTask reports whether a user may see and change a task: members of
// the task's group and the task's assignee can.
func (s *TaskService) CanAccessTask(ctx context.Context, task *models.Task, userID string) (bool, error) {
	if task.AssignedTo != nil && *task.AssignedTo == userID {
		return true, nil
	}

	if _, err := s.groupRepo.FindMember(ctx, task.GroupID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify membership: %w", err)
	}

	return true, nil
}

// AuthorizeTask loads a task for userID. Tasks the user cannot access are
// reported as not found.
func (s *TaskService) AuthorizeTask(ctx context.Context, taskID, userID string) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.CanAccessTask(ctx, task, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

func checkTimeSpan(begin, end *time.Time) error {
	if begin != nil && end != nil && end.Before(*begin) {
		return ErrInvalidTimeSpan
	}
	return nil
}

// pick resolves one field of a partial update.
func pick[T any](current, next *T, clear bool) *T {
	switch {
	case clear:
		return nil
	case next != nil:
		return next
	default:
		return current
	}
}
