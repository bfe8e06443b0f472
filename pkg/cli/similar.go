package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/urfave/cli/v3"
)

func similarCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of similar entries to display",
			Value:       3,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "similar",
		Usage:     "Find entries similar to the given one by embedding similarity",
		ArgsUsage: "<entry-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return goerr.New("entry ID is required")
			}

			uc, err := cfg.newReadUseCase(ctx)
			if err != nil {
				return err
			}

			related, err := uc.TopMatches(ctx, model.EntryID(id), int(limit))
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if len(related) == 0 {
				fmt.Fprintf(w, "No similar entries found\n")
				return nil
			}

			fmt.Fprintf(w, "Found %d similar entries:\n\n", len(related))
			for i, r := range related {
				fmt.Fprintf(w, "%d. %s (%s, similarity %.3f)\n", i+1, r.Entry.ID, r.Entry.EventDate, r.Similarity)
				fmt.Fprintf(w, "   %s\n", headline(r.Entry))
			}
			return nil
		},
	}
}
