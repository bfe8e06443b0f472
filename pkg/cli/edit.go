package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/m-mizutani/tsuzuri/pkg/usecase/entry"
	"github.com/urfave/cli/v3"
)

func editCommand() *cli.Command {
	var (
		cfg      config
		title    string
		body     string
		bodyFile string
		date     string
		tags     []string
		category string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Aliases:     []string{"t"},
			Usage:       "New title",
			Destination: &title,
		},
		&cli.StringFlag{
			Name:        "body",
			Aliases:     []string{"b"},
			Usage:       "New body text",
			Destination: &body,
		},
		&cli.StringFlag{
			Name:        "body-file",
			Aliases:     []string{"f"},
			Usage:       "Read new body from file ('-' for stdin)",
			Destination: &bodyFile,
		},
		&cli.StringFlag{
			Name:        "date",
			Usage:       "New event date (YYYY-MM-DD)",
			Destination: &date,
		},
		&cli.StringSliceFlag{
			Name:        "tag",
			Usage:       "Replacement tag set (repeatable)",
			Destination: &tags,
		},
		&cli.StringFlag{
			Name:        "category",
			Aliases:     []string{"c"},
			Usage:       "New category",
			Destination: &category,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:      "edit",
		Usage:     "Update an entry; a body change re-runs enrichment",
		ArgsUsage: "<entry-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return goerr.New("entry ID is required")
			}

			var opts entry.UpdateOptions
			if c.IsSet("title") {
				opts.Title = &title
			}
			if c.IsSet("body-file") {
				data, err := readBody(bodyFile)
				if err != nil {
					return err
				}
				opts.Body = &data
			} else if c.IsSet("body") {
				opts.Body = &body
			}
			if c.IsSet("date") {
				opts.EventDate = &date
			}
			if c.IsSet("tag") {
				opts.Tags = &tags
			}
			if c.IsSet("category") {
				cat := model.Category(category)
				opts.Category = &cat
			}

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			updated, err := uc.Update(ctx, model.EntryID(id), opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Updated entry %s\n", updated.ID)
			printEmbeddingState(c.Root().Writer, updated)
			return nil
		},
	}
}
