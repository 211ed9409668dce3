package app

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yukikurage/group-task-api/internal/config"
	"github.com/yukikurage/group-task-api/internal/database"
	"github.com/yukikurage/group-task-api/internal/repository"
	"github.com/yukikurage/group-task-api/internal/server"
	"github.com/yukikurage/group-task-api/internal/services"
)

func init() { //nolint: gochecknoinits
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on start")

	rootCmd.AddCommand(serveCmd)
}

var (
	skipMigrate bool //nolint:gochecknoglobals

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			gin.SetMode(cfg.GinMode)

			db, err := database.Open(cfg)
			if err != nil {
				return errors.Wrap(err, "open database")
			}

			if !skipMigrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
			}

			store, err := server.NewSessionStore(cfg)
			if err != nil {
				return err
			}

			alive := &atomic.Bool{}
			router := server.NewRouter(serviceName, store, buildServices(cfg, db), alive)
			srv := server.New(cfg.HTTPAddr, router, alive, cfg.ShutdownDelay)

			go srv.WaitShutdown()

			if err := srv.Start(); err != nil {
				return errors.Wrap(err, "http server")
			}

			log.Info().Msg("good bye")
			return nil
		},
	}
)

func buildServices(cfg *config.Config, db *gorm.DB) server.Services {
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	hasher := services.NewPasswordHasher(cfg.PasswordHasher)
	sessions := services.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)

	return server.Services{
		Auth:   services.NewAuthService(userRepo, hasher, sessions),
		Groups: services.NewGroupService(groupRepo),
		Tasks:  services.NewTaskService(taskRepo, groupRepo),
	}
}
