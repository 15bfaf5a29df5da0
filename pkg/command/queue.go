package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
	"github.com/urfave/cli/v3"
)

// Queue provides the sub-commands to work with the build queue.
func Queue(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Work with the build queue",
		Flags: targetFlags(cfg),
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the items waiting in the queue",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return withClient(cfg, func(client *jenkins.Client) error {
						queue, err := client.GetQueue(ctx)

						if err != nil {
							return err
						}

						for _, item := range queue.Items {
							why := ""

							if item.Why != nil {
								why = *item.Why
							}

							fmt.Printf("%d\t%s\t%s\n", item.ID, item.Task.Name, why)
						}

						return nil
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Show a queue item by its id",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := strconv.ParseInt(cmd.Args().First(), 10, 64)

					if err != nil {
						return fmt.Errorf("invalid queue item id: %w", err)
					}

					return withClient(cfg, func(client *jenkins.Client) error {
						item, err := client.GetQueueItem(ctx, id)

						if err != nil {
							return err
						}

						fmt.Printf("id: %d\n", item.ID)
						fmt.Printf("task: %s\n", item.Task.Name)
						fmt.Printf("blocked: %t\n", item.Blocked)
						fmt.Printf("buildable: %t\n", item.Buildable)
						fmt.Printf("stuck: %t\n", item.Stuck)

						if item.Why != nil {
							fmt.Printf("why: %s\n", *item.Why)
						}

						if item.Executable != nil {
							fmt.Printf("build: %d\n", item.Executable.Number)
						}

						return nil
					})
				},
			},
		},
	}
}
