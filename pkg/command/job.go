package command

import (
	"context"
	"fmt"

	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
	"github.com/urfave/cli/v3"
)

// Job provides the sub-commands to work with jobs.
func Job(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "job",
		Usage: "Work with jobs",
		Flags: targetFlags(cfg),
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show a job by its full name",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(cfg, func(client *jenkins.Client) error {
						job, err := client.GetJob(ctx, cmd.Args().First())

						if err != nil {
							return err
						}

						return printJob(job)
					})
				},
			},
			{
				Name:      "enable",
				Usage:     "Enable a job",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(cfg, func(client *jenkins.Client) error {
						return client.EnableJob(ctx, cmd.Args().First())
					})
				},
			},
			{
				Name:      "disable",
				Usage:     "Disable a job",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(cfg, func(client *jenkins.Client) error {
						return client.DisableJob(ctx, cmd.Args().First())
					})
				},
			},
			{
				Name:      "trigger",
				Usage:     "Trigger a build of a job",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(cfg, func(client *jenkins.Client) error {
						item, err := client.TriggerJob(ctx, cmd.Args().First())

						if err != nil {
							return err
						}

						fmt.Printf("queued as item %d\n", item.ID)
						return nil
					})
				},
			},
			{
				Name:      "console",
				Usage:     "Show the console output of the last build",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(cfg, func(client *jenkins.Client) error {
						text, err := client.GetConsoleText(
							ctx,
							cmd.Args().First(),
							jenkins.ByAlias(jenkins.LastBuild),
						)

						if err != nil {
							return err
						}

						fmt.Print(text)
						return nil
					})
				},
			},
		},
	}
}

// withClient resolves the credentials and hands a ready client to fn.
func withClient(cfg *config.Config, fn func(client *jenkins.Client) error) error {
	username, err := config.Value(cfg.Target.Username)

	if err != nil {
		return err
	}

	password, err := config.Value(cfg.Target.Password)

	if err != nil {
		return err
	}

	client, err := jenkins.NewClient(
		jenkins.WithEndpoint(cfg.Target.Address),
		jenkins.WithUsername(username),
		jenkins.WithPassword(password),
		jenkins.WithTimeout(cfg.Target.Timeout),
		jenkins.WithDepth(int(cfg.Target.Depth)),
	)

	if err != nil {
		return err
	}

	return fn(client)
}

func printJob(job *jenkins.Job) error {
	name, err := job.Name()

	if err != nil {
		return err
	}

	color, err := job.Color()

	if err != nil {
		return err
	}

	buildable, err := job.Buildable()

	if err != nil {
		return err
	}

	fmt.Printf("name: %s\n", name)
	fmt.Printf("class: %s\n", job.Class())
	fmt.Printf("color: %s\n", color)
	fmt.Printf("buildable: %t\n", buildable)

	if last, err := job.LastBuild(); err == nil && last != nil {
		fmt.Printf("last build: %d\n", last.Number)
	}

	return nil
}
