package database

import (
	"fmt"
	"strings"

	"github.com/yukikurage/group-task-api/internal/config"
)

// DSN builds the data source name for the configured driver.
func DSN(cfg *config.Config) string {
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		if cfg.DBExtras != "" {
			dsn += " " + cfg.DBExtras
		}
		return dsn
	case "sqlite":
		return withParams(cfg.DBPath, "_foreign_keys=on", cfg.DBExtras)
	default:
		return withParams(
			fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName),
			"charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBExtras,
		)
	}
}

func withParams(base string, params ...string) string {
	var nonEmpty []string
	for _, p := range params {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return base
	}
	return base + "?" + strings.Join(nonEmpty, "&")
}
