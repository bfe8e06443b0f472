package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/urfave/cli/v3"
)

func starCommand() *cli.Command {
	return setStarredCommand("star", "Star an entry", true)
}

func unstarCommand() *cli.Command {
	return setStarredCommand("unstar", "Remove the star from an entry", false)
}

func setStarredCommand(name, usage string, starred bool) *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      name,
		Usage:     usage,
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

			if err := uc.SetStarred(ctx, model.EntryID(id), starred); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%s entry %s\n", name, id)
			return nil
		},
	}
}
