package models

import "time"

type Reaction string

const (
	ReactionJoin    Reaction = "join"
	ReactionDecline Reaction = "decline"
)

// TaskUserRelation records a user's participation in a task, independent of
// who the task is assigned to.
type TaskUserRelation struct {
	TaskID    string    `gorm:"column:task_id;type:varchar(36);primaryKey" json:"task_id"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);primaryKey;index" json:"user_id"`
	Reaction  Reaction  `gorm:"type:varchar(20);not null;default:'join'" json:"reaction"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID;references:TaskID;-:migration" json:"-"`
	User User `gorm:"foreignKey:UserID;references:UserID;-:migration" json:"user,omitempty"`
}
