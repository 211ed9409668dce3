package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/yukikurage/group-task-api/internal/models"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Task{},
		&models.TaskUserRelation{},
	}
}

// Migrate creates or updates the schema and verifies the lookup indexes that
// back cross-entity references.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := EnsureIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// EnsureIndexes creates any index declared on the models that is missing.
func EnsureIndexes(db *gorm.DB) error {
	indexes := []struct {
		model interface{}
		name  string
	}{
		{&models.Task{}, "idx_tasks_group_date"},
		{&models.Task{}, "idx_tasks_assigned_to"},
		{&models.GroupMember{}, "idx_group_members_user_id"},
		{&models.TaskUserRelation{}, "idx_task_user_relations_user_id"},
		{&models.User{}, "idx_users_email"},
		{&models.Group{}, "idx_groups_invite_code"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Msg("created index")
	}

	return nil
}
