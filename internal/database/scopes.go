package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/group-task-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ByTaskDate orders tasks the way calendars present them.
func ByTaskDate(db *gorm.DB) *gorm.DB {
	return db.Order("tasks.date ASC").
		Order("tasks.time_span_begin ASC").
		Order("tasks.created_at ASC")
}
