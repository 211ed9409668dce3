// Package app implements the command line of the group task server.
package app

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yukikurage/group-task-api/internal/config"
	"github.com/yukikurage/group-task-api/internal/logger"
)

const (
	appName     = "group-task-api"
	serviceName = "api"
)

var cfg *config.Config //nolint:gochecknoglobals

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Group Task API serves users, groups and their shared tasks",
	Long: `Group Task API is a JSON backend where users form groups through
invite codes and plan shared tasks with dates, time spans and assignees.`,
	Args: cobra.OnlyValidArgs,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "invalid configuration")
		}

		return logger.Init(logConfig(cfg))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

// Execute runs the root command. Without a subcommand the server is started.
func Execute() error {
	return rootCmd.Execute()
}

func logConfig(cfg *config.Config) logger.Log {
	return logger.Log{
		LogLevel:     cfg.LogLevel,
		ReportCaller: cfg.LogReportCaller,
		AppName:      appName,
		ServiceName:  serviceName,
		Console: logger.Console{
			Enabled:          true,
			UseConsoleWriter: cfg.LogConsolePretty,
		},
		File: logger.LogFile{
			Enabled:    cfg.LogFilePath != "",
			Path:       cfg.LogFilePath,
			InfoLog:    "info.log",
			ErrorLog:   "error.log",
			MaxSize:    100,
			MaxAge:     28,
			MaxBackups: 3,
		},
	}
}
