package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"github.com/urfave/cli/v3"
)

func embedCommand() *cli.Command {
	var (
		cfg     config
		pending bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "pending",
			Usage:       "Sweep all pending/failed entries instead of one entry",
			Destination: &pending,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:      "embed",
		Usage:     "Re-run embedding enrichment for an entry or all pending ones",
		ArgsUsage: "[entry-id]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			w := c.Root().Writer

			if pending {
				s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				s.Suffix = " enriching pending entries..."
				s.Start()
				result, err := uc.EnrichPending(ctx)
				s.Stop()
				if err != nil {
					return err
				}

				fmt.Fprintf(w, "Processed %d entries (%d failed)\n", result.Processed, result.Failed)
				return nil
			}

			id := c.Args().First()
			if id == "" {
				return goerr.New("entry ID is required unless --pending is set")
			}

			// An explicit re-run is a hard signal: the error surfaces.
			e, err := uc.Get(ctx, model.EntryID(id))
			if err != nil {
				return err
			}
			if err := uc.Enrich(ctx, e.ID, e.Body); err != nil {
				return err
			}

			fmt.Fprintf(w, "Entry %s enriched\n", e.ID)
			return nil
		},
	}
}
