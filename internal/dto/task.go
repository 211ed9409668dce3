package dto

import (
	"time"

	"github.com/yukikurage/group-task-api/internal/models"
	"github.com/yukikurage/group-task-api/internal/services"
	"github.com/yukikurage/group-task-api/internal/utils"
)

// CreateTaskRequest is the body of POST /api/groups/:group_id/tasks
type CreateTaskRequest struct {
	Title         string     `json:"title" binding:"required"`
	Date          *Date      `json:"date" binding:"required"`
	TimeSpanBegin *time.Time `json:"time_span_begin"`
	TimeSpanEnd   *time.Time `json:"time_span_end"`
	Place         *string    `json:"place"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	AssignedTo    *string    `json:"assigned_to"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/:task_id. Omitted fields
// are kept; null clears an optional field.
type UpdateTaskRequest struct {
	Title         *string             `json:"title"`
	Date          *Date               `json:"date"`
	TimeSpanBegin Nullable[time.Time] `json:"time_span_begin"`
	TimeSpanEnd   Nullable[time.Time] `json:"time_span_end"`
	Place         Nullable[string]    `json:"place"`
	Description   Nullable[string]    `json:"description"`
	Status        Nullable[string]    `json:"status"`
}

// AssignTaskRequest is the body of POST /api/tasks/:task_id/assign
type AssignTaskRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ReactionRequest is the body of PUT /api/tasks/:task_id/reaction
type ReactionRequest struct {
	Reaction models.Reaction `json:"reaction" binding:"required,oneof=join decline"`
}

// ToCreateTaskInput converts the request for the task service
func (r CreateTaskRequest) ToCreateTaskInput(groupID string) services.CreateTaskInput {
	input := services.CreateTaskInput{
		GroupID:       groupID,
		Title:         r.Title,
		TimeSpanBegin: r.TimeSpanBegin,
		TimeSpanEnd:   r.TimeSpanEnd,
		Place:         r.Place,
		Description:   r.Description,
		Status:        r.Status,
		AssignedTo:    r.AssignedTo,
	}
	if r.Date != nil {
		input.Date = r.Date.Time
	}
	return input
}

// ToUpdateTaskInput converts the request for the task service
func (r UpdateTaskRequest) ToUpdateTaskInput() services.UpdateTaskInput {
	input := services.UpdateTaskInput{
		Title:              r.Title,
		TimeSpanBegin:      r.TimeSpanBegin.Value,
		ClearTimeSpanBegin: r.TimeSpanBegin.Null(),
		TimeSpanEnd:        r.TimeSpanEnd.Value,
		ClearTimeSpanEnd:   r.TimeSpanEnd.Null(),
		Place:              r.Place.Value,
		ClearPlace:         r.Place.Null(),
		Description:        r.Description.Value,
		ClearDescription:   r.Description.Null(),
		Status:             r.Status.Value,
		ClearStatus:        r.Status.Null(),
	}
	if r.Date != nil {
		input.Date = &r.Date.Time
	}
	return input
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	TaskID        string     `json:"task_id"`
	GroupID       string     `json:"group_id"`
	AssignedTo    *string    `json:"assigned_to"`
	Title         string     `json:"title"`
	Date          Date       `json:"date"`
	TimeSpanBegin *time.Time `json:"time_span_begin"`
	TimeSpanEnd   *time.Time `json:"time_span_end"`
	Place         *string    `json:"place"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Assignee      *UserDTO   `json:"assignee,omitempty"`
	Group         *GroupDTO  `json:"group,omitempty"`
}

// ReactionDTO represents a user's reaction to a task
type ReactionDTO struct {
	TaskID    string          `json:"task_id"`
	User      UserDTO         `json:"user"`
	Reaction  models.Reaction `json:"reaction"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TaskDetailDTO is a task with the reactions recorded for it
type TaskDetailDTO struct {
	TaskDTO
	Reactions []ReactionDTO `json:"reactions"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		TaskID:        task.TaskID,
		GroupID:       task.GroupID,
		AssignedTo:    task.AssignedTo,
		Title:         task.Title,
		Date:          NewDate(task.Date),
		TimeSpanBegin: task.TimeSpanBegin,
		TimeSpanEnd:   task.TimeSpanEnd,
		Place:         task.Place,
		Description:   task.Description,
		Status:        task.Status,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.Assignee != nil {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	// Include group if preloaded
	if task.Group.GroupID != "" {
		group := ToGroupDTO(task.Group, false)
		dto.Group = &group
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToReactionDTO converts a relation with its preloaded user
func ToReactionDTO(relation models.TaskUserRelation) ReactionDTO {
	return ReactionDTO{
		TaskID:    relation.TaskID,
		User:      ToUserDTO(relation.User),
		Reaction:  relation.Reaction,
		UpdatedAt: relation.UpdatedAt,
	}
}

// ToTaskDetailDTO converts a task and its reactions
func ToTaskDetailDTO(task models.Task, relations []models.TaskUserRelation) TaskDetailDTO {
	reactions := make([]ReactionDTO, len(relations))
	for i, relation := range relations {
		reactions[i] = ToReactionDTO(relation)
	}

	return TaskDetailDTO{
		TaskDTO:   ToTaskDTO(task),
		Reactions: reactions,
	}
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	return TaskListResponse{
		Tasks: ToTaskDTOs(tasks),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
