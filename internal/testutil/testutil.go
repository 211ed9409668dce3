// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yukikurage/group-task-api/internal/database"
	"github.com/yukikurage/group-task-api/internal/models"
)

// NewDB opens a migrated in-memory SQLite database with foreign keys on.
// A single connection keeps every statement on the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), database.NewGormConfig(gormlogger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := &models.User{
		UserName:       name,
		Email:          email,
		HashedPassword: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateGroup inserts a group with ownerID as its owner.
func CreateGroup(t *testing.T, db *gorm.DB, name, ownerID string) *models.Group {
	t.Helper()

	group := &models.Group{
		GroupName:  name,
		InviteCode: name + "-" + time.Now().Format("150405.000000000"),
	}
	require.NoError(t, db.Create(group).Error)

	if ownerID != "" {
		AddMember(t, db, group.GroupID, ownerID, models.RoleOwner)
	}
	return group
}

// AddMember inserts a membership row.
func AddMember(t *testing.T, db *gorm.DB, groupID, userID string, role models.GroupRole) *models.GroupMember {
	t.Helper()

	member := &models.GroupMember{GroupID: groupID, UserID: userID, Role: role}
	require.NoError(t, db.Create(member).Error)
	return member
}

// CreateTask inserts a task on the given date.
func CreateTask(t *testing.T, db *gorm.DB, groupID, title string, date time.Time) *models.Task {
	t.Helper()

	task := &models.Task{
		GroupID: groupID,
		Title:   title,
		Date:    date,
	}
	require.NoError(t, db.Omit("Group", "Assignee").Create(task).Error)
	return task
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
