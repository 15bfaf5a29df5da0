// Package command provides the command line surface, wiring the flags
// into the shared configuration and dispatching to the sub-commands.
package command

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/version"
	"github.com/urfave/cli/v3"
)

// Run parses the command line arguments and executes the program.
func Run() error {
	cfg := config.Load()

	app := &cli.Command{
		Name:    "jenkins_client",
		Version: version.String,
		Usage:   "typed client for the Jenkins API",
		Flags:   RootFlags(cfg),
		Commands: []*cli.Command{
			Server(cfg),
			Job(cfg),
			Queue(cfg),
		},
	}

	return app.Run(context.Background(), os.Args)
}

// RootFlags defines the flags shared by all sub-commands.
func RootFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log.level",
			Value:       "info",
			Usage:       "Only log messages with given severity",
			Sources:     cli.EnvVars("JENKINS_CLIENT_LOG_LEVEL"),
			Destination: &cfg.Logs.Level,
		},
		&cli.BoolFlag{
			Name:        "log.pretty",
			Value:       false,
			Usage:       "Enable pretty messages for logging",
			Sources:     cli.EnvVars("JENKINS_CLIENT_LOG_PRETTY"),
			Destination: &cfg.Logs.Pretty,
		},
	}
}

func setupLogger(cfg *config.Config) *slog.Logger {
	options := &slog.HandlerOptions{
		Level: loggerLevel(cfg),
	}

	if cfg.Logs.Pretty {
		return slog.New(
			slog.NewTextHandler(os.Stdout, options),
		)
	}

	return slog.New(
		slog.NewJSONHandler(os.Stdout, options),
	)
}

func loggerLevel(cfg *config.Config) slog.Level {
	switch strings.ToLower(cfg.Logs.Level) {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	}

	return slog.LevelInfo
}
