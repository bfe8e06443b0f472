package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/m-mizutani/tsuzuri/pkg/usecase/entry"
	"github.com/urfave/cli/v3"
)

func newCommand() *cli.Command {
	var (
		cfg      config
		title    string
		body     string
		bodyFile string
		date     string
		tags     []string
		category string
		starred  bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Aliases:     []string{"t"},
			Usage:       "Entry title",
			Destination: &title,
		},
		&cli.StringFlag{
			Name:        "body",
			Aliases:     []string{"b"},
			Usage:       "Entry body text",
			Destination: &body,
		},
		&cli.StringFlag{
			Name:        "body-file",
			Aliases:     []string{"f"},
			Usage:       "Read entry body from file ('-' for stdin)",
			Destination: &bodyFile,
		},
		&cli.StringFlag{
			Name:        "date",
			Usage:       "Event date (YYYY-MM-DD, defaults to today)",
			Destination: &date,
		},
		&cli.StringSliceFlag{
			Name:        "tag",
			Usage:       "Tag (repeatable)",
			Destination: &tags,
		},
		&cli.StringFlag{
			Name:        "category",
			Aliases:     []string{"c"},
			Usage:       "Category (dream, journal, trip report, outing, essay, note, other)",
			Destination: &category,
		},
		&cli.BoolFlag{
			Name:        "starred",
			Aliases:     []string{"s"},
			Usage:       "Mark the entry as starred",
			Destination: &starred,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "new",
		Usage: "Create a new journal entry",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if bodyFile != "" {
				data, err := readBody(bodyFile)
				if err != nil {
					return err
				}
				body = data
			}

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			created, err := uc.Create(ctx, entry.CreateOptions{
				Title:     title,
				Body:      body,
				EventDate: date,
				Tags:      tags,
				Category:  model.Category(category),
				Starred:   starred,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Created entry %s (%s)\n", created.ID, created.EventDate)

			// Enrichment already ran best-effort; show where it landed.
			if fresh, err := uc.Get(ctx, created.ID); err == nil {
				printEmbeddingState(c.Root().Writer, fresh)
			}
			return nil
		},
	}
}

func readBody(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", goerr.Wrap(err, "failed to read body from stdin")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read body file", goerr.V("path", path))
	}
	return string(data), nil
}
