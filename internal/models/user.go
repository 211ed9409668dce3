package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	UserID         string    `gorm:"column:user_id;type:varchar(36);primaryKey" json:"user_id"`
	UserName       string    `gorm:"column:user_name;type:varchar(255);index;not null" json:"user_name"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"column:hashed_password;type:varchar(255);not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	GroupMembers      []GroupMember      `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TaskUserRelations []TaskUserRelation `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AssignedTasks     []Task             `gorm:"foreignKey:AssignedTo;references:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

// BeforeCreate assigns a fresh opaque identifier.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}
