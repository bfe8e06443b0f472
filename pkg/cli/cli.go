package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "tsuzuri",
		Usage: "Personal journal with semantic retrieval",
		Commands: []*cli.Command{
			newCommand(),
			showCommand(),
			editCommand(),
			deleteCommand(),
			starCommand(),
			unstarCommand(),
			listCommand(),
			similarCommand(),
			embedCommand(),
			importCommand(),
			exportCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
