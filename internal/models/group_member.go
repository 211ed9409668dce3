package models

import "time"

type GroupRole string

const (
	RoleOwner  GroupRole = "owner"
	RoleMember GroupRole = "member"
)

type GroupMember struct {
	GroupID   string    `gorm:"column:group_id;type:varchar(36);primaryKey" json:"group_id"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);primaryKey;index" json:"user_id"`
	Role      GroupRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Group Group `gorm:"foreignKey:GroupID;references:GroupID;-:migration" json:"group,omitempty"`
	User  User  `gorm:"foreignKey:UserID;references:UserID;-:migration" json:"user,omitempty"`
}
