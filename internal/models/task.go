package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	TaskID        string     `gorm:"column:task_id;type:varchar(36);primaryKey" json:"task_id"`
	GroupID       string     `gorm:"column:group_id;type:varchar(36);not null;index:idx_tasks_group_date,priority:1" json:"group_id"`
	AssignedTo    *string    `gorm:"column:assigned_to;type:varchar(36);index" json:"assigned_to"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Date          time.Time  `gorm:"not null;index:idx_tasks_group_date,priority:2" json:"date"`
	TimeSpanBegin *time.Time `gorm:"column:time_span_begin" json:"time_span_begin"`
	TimeSpanEnd   *time.Time `gorm:"column:time_span_end" json:"time_span_end"`
	Place         *string    `gorm:"type:varchar(255)" json:"place"`
	Description   *string    `gorm:"type:varchar(255)" json:"description"`
	Status        *string    `gorm:"type:varchar(255)" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Group             Group              `gorm:"foreignKey:GroupID;references:GroupID;-:migration" json:"group,omitempty"`
	Assignee          *User              `gorm:"foreignKey:AssignedTo;references:UserID" json:"assignee,omitempty"`
	TaskUserRelations []TaskUserRelation `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE" json:"task_user_relations,omitempty"`
}

// BeforeCreate assigns a fresh opaque identifier.
func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.TaskID == "" {
		t.TaskID = uuid.NewString()
	}
	return nil
}
