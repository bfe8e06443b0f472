package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/adapter"
	"github.com/urfave/cli/v3"
)

func exportCommand() *cli.Command {
	var (
		cfg    config
		output string
		bucket string
		key    string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file path ('-' for stdout)",
			Value:       "-",
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket to upload the snapshot to",
			Sources:     cli.EnvVars("TSUZURI_EXPORT_BUCKET"),
			Destination: &bucket,
		},
		&cli.StringFlag{
			Name:        "key",
			Usage:       "Object key for the Cloud Storage snapshot",
			Value:       "tsuzuri-snapshot.json",
			Destination: &key,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Write a JSON snapshot of all entries",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := cfg.newReadUseCase(ctx)
			if err != nil {
				return err
			}

			if bucket != "" {
				storage, err := adapter.NewStorage(ctx, bucket)
				if err != nil {
					return err
				}
				w, err := storage.Put(ctx, key)
				if err != nil {
					return err
				}
				if err := uc.Export(ctx, w); err != nil {
					_ = w.Close()
					return err
				}
				if err := w.Close(); err != nil {
					return goerr.Wrap(err, "failed to finish snapshot upload", goerr.V("bucket", bucket), goerr.V("key", key))
				}

				fmt.Fprintf(c.Root().Writer, "Exported snapshot to gs://%s/%s\n", bucket, key)
				return nil
			}

			if output == "-" {
				return uc.Export(ctx, c.Root().Writer)
			}

			f, err := os.Create(output)
			if err != nil {
				return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
			}
			defer f.Close()

			if err := uc.Export(ctx, f); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "Exported snapshot to %s\n", output)
			return nil
		},
	}
}
