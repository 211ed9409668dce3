package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Group struct {
	GroupID     string    `gorm:"column:group_id;type:varchar(36);primaryKey" json:"group_id"`
	GroupName   string    `gorm:"column:group_name;type:varchar(255);not null" json:"group_name"`
	Description *string   `gorm:"type:varchar(255)" json:"description"`
	InviteCode  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Members []GroupMember `gorm:"foreignKey:GroupID;references:GroupID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Tasks   []Task        `gorm:"foreignKey:GroupID;references:GroupID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// TableName pins the table name; GROUPS is a reserved word in MySQL 8 and is
// always quoted by GORM.
func (Group) TableName() string {
	return "groups"
}

// BeforeCreate assigns a fresh opaque identifier.
func (g *Group) BeforeCreate(_ *gorm.DB) error {
	if g.GroupID == "" {
		g.GroupID = uuid.NewString()
	}
	return nil
}
