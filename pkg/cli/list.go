package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/m-mizutani/tsuzuri/pkg/usecase/entry"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg     config
		query   string
		starred bool
		order   string
		cursor  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Substring filter on title or body (case-insensitive)",
			Destination: &query,
		},
		&cli.BoolFlag{
			Name:        "starred",
			Aliases:     []string{"s"},
			Usage:       "Only starred entries",
			Destination: &starred,
		},
		&cli.StringFlag{
			Name:        "order",
			Aliases:     []string{"o"},
			Usage:       "Sort order by event date (asc or desc)",
			Value:       "desc",
			Destination: &order,
		},
		&cli.StringFlag{
			Name:        "cursor",
			Usage:       "Continuation cursor from a previous page",
			Destination: &cursor,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List one page of entries",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newReadUseCase(ctx)
			if err != nil {
				return err
			}

			page, err := uc.ListPage(ctx, entry.ListInput{
				Cursor:      cursor,
				Query:       query,
				StarredOnly: starred,
				Order:       model.SortOrder(order),
			})
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if len(page.Entries) == 0 {
				fmt.Fprintf(w, "No entries\n")
				return nil
			}

			for _, e := range page.Entries {
				star := " "
				if e.Starred {
					star = "*"
				}
				fmt.Fprintf(w, "%s %s  %s  %s\n", star, e.EventDate, e.ID, headline(e))
			}

			if page.NextCursor != "" {
				fmt.Fprintf(w, "\nNext page: --cursor %s\n", page.NextCursor)
			}
			return nil
		},
	}
}

// headline picks a one-line label for an entry: title if set, otherwise the
// start of the body.
func headline(e *model.Entry) string {
	text := e.Title
	if text == "" {
		text = e.Body
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	return text
}
