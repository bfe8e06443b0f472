package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "show",
		Usage:     "Show a single entry",
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

			e, err := uc.Get(ctx, model.EntryID(id))
			if err != nil {
				return err
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "ID:       %s\n", e.ID)
			if e.Title != "" {
				fmt.Fprintf(w, "Title:    %s\n", e.Title)
			}
			fmt.Fprintf(w, "Date:     %s\n", e.EventDate)
			if e.Category != "" {
				fmt.Fprintf(w, "Category: %s\n", e.Category)
			}
			if len(e.Tags) > 0 {
				fmt.Fprintf(w, "Tags:     %s\n", strings.Join(e.Tags, ", "))
			}
			if e.Starred {
				fmt.Fprintf(w, "Starred:  yes\n")
			}
			printEmbeddingState(w, e)
			fmt.Fprintf(w, "\n%s\n", e.Body)
			return nil
		},
	}
}

func printEmbeddingState(w io.Writer, e *model.Entry) {
	fmt.Fprintf(w, "Embedding: %s", e.EmbeddingStatus)
	if e.EmbeddingStatus == model.EmbeddingFailed && e.EmbeddingError != "" {
		fmt.Fprintf(w, " (%s)", e.EmbeddingError)
	}
	fmt.Fprintf(w, "\n")
}
