package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func importCommand() *cli.Command {
	var (
		cfg   config
		input string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to YAML or JSON file with entries",
			Required:    true,
			Destination: &input,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "import",
		Usage: "Bulk-create entries from a file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			f, err := os.Open(input)
			if err != nil {
				return goerr.Wrap(err, "failed to open import file", goerr.V("path", input))
			}
			defer f.Close()

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			result, err := uc.Import(ctx, f)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Imported %d entries\n", len(result.Created))
			return nil
		},
	}
}
