package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/urfave/cli/v3"
)

func deleteCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an entry",
		ArgsUsage: "<entry-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return goerr.New("entry ID is required")
			}

			uc, err := cfg.newReadUseCase(ctx)
			if err != nil {
				return err
			}

			if err := uc.Delete(ctx, model.EntryID(id)); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Deleted entry %s\n", id)
			return nil
		},
	}
}
