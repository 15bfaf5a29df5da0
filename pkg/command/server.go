package command

import (
	"context"
	"time"

	"github.com/promhippie/jenkins_client/pkg/action"
	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
	"github.com/urfave/cli/v3"
)

// Server provides the sub-command to start the server.
func Server(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Start metrics server",
		Flags: append(
			[]cli.Flag{
				&cli.StringFlag{
					Name:        "web.address",
					Value:       "0.0.0.0:9506",
					Usage:       "Address to bind the metrics server",
					Sources:     cli.EnvVars("JENKINS_CLIENT_WEB_ADDRESS"),
					Destination: &cfg.Server.Addr,
				},
				&cli.StringFlag{
					Name:        "web.path",
					Value:       "/metrics",
					Usage:       "Path to bind the metrics server",
					Sources:     cli.EnvVars("JENKINS_CLIENT_WEB_PATH"),
					Destination: &cfg.Server.Path,
				},
				&cli.BoolFlag{
					Name:        "web.pprof",
					Value:       false,
					Usage:       "Enable pprof debugging for server",
					Sources:     cli.EnvVars("JENKINS_CLIENT_WEB_PPROF"),
					Destination: &cfg.Server.Pprof,
				},
				&cli.DurationFlag{
					Name:        "web.timeout",
					Value:       10 * time.Second,
					Usage:       "Server metrics endpoint timeout",
					Sources:     cli.EnvVars("JENKINS_CLIENT_WEB_TIMEOUT"),
					Destination: &cfg.Server.Timeout,
				},
				&cli.StringFlag{
					Name:        "web.config",
					Value:       "",
					Usage:       "Path to web-config file",
					Sources:     cli.EnvVars("JENKINS_CLIENT_WEB_CONFIG"),
					Destination: &cfg.Server.Web,
				},
				&cli.BoolFlag{
					Name:        "collector.jobs",
					Value:       true,
					Usage:       "Enable collector for jobs",
					Sources:     cli.EnvVars("JENKINS_CLIENT_COLLECTOR_JOBS"),
					Destination: &cfg.Collector.Jobs,
				},
				&cli.BoolFlag{
					Name:        "collector.builds",
					Value:       false,
					Usage:       "Enable collector for build results",
					Sources:     cli.EnvVars("JENKINS_CLIENT_COLLECTOR_BUILDS"),
					Destination: &cfg.Collector.Builds,
				},
				&cli.DurationFlag{
					Name:        "collector.interval",
					Value:       5 * time.Minute,
					Usage:       "Interval for build discovery and collection",
					Sources:     cli.EnvVars("JENKINS_CLIENT_COLLECTOR_INTERVAL"),
					Destination: &cfg.Collector.Interval,
				},
				&cli.StringFlag{
					Name:        "collector.database",
					Value:       "jenkins_client.db",
					Usage:       "Path to the database tracking discovered jobs",
					Sources:     cli.EnvVars("JENKINS_CLIENT_COLLECTOR_DATABASE"),
					Destination: &cfg.Collector.Database,
				},
			},
			targetFlags(cfg)...,
		),
		Action: func(_ context.Context, _ *cli.Command) error {
			return action.Server(cfg, setupLogger(cfg))
		},
	}
}

// targetFlags defines the flags to configure the controller connection.
func targetFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jenkins.address",
			Value:       "",
			Usage:       "Address of the Jenkins controller",
			Sources:     cli.EnvVars("JENKINS_CLIENT_ADDRESS"),
			Destination: &cfg.Target.Address,
		},
		&cli.StringFlag{
			Name:        "jenkins.username",
			Value:       "",
			Usage:       "Username for the Jenkins controller, also taking a file:// or base64:// DSN",
			Sources:     cli.EnvVars("JENKINS_CLIENT_USERNAME"),
			Destination: &cfg.Target.Username,
		},
		&cli.StringFlag{
			Name:        "jenkins.password",
			Value:       "",
			Usage:       "Password or API token for the Jenkins controller, also taking a file:// or base64:// DSN",
			Sources:     cli.EnvVars("JENKINS_CLIENT_PASSWORD"),
			Destination: &cfg.Target.Password,
		},
		&cli.DurationFlag{
			Name:        "jenkins.timeout",
			Value:       jenkins.DefaultTimeout,
			Usage:       "Timeout for requests against the Jenkins controller",
			Sources:     cli.EnvVars("JENKINS_CLIENT_TIMEOUT"),
			Destination: &cfg.Target.Timeout,
		},
		&cli.Int64Flag{
			Name:        "jenkins.depth",
			Value:       jenkins.DefaultDepth,
			Usage:       "Depth parameter sent on resource fetches",
			Sources:     cli.EnvVars("JENKINS_CLIENT_DEPTH"),
			Destination: &cfg.Target.Depth,
		},
	}
}
