package command

import (
	"time"

	commandHandler "botwatch/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(NewCommand, commandHandler.NewLogsHandler, commandHandler.NewTokenHandler)

type Command struct {
	logsHandler  *commandHandler.LogsHandler
	tokenHandler *commandHandler.TokenHandler
}

// NewCommand .
func NewCommand(
	logsHandler *commandHandler.LogsHandler,
	tokenHandler *commandHandler.TokenHandler,
) *Command {
	return &Command{
		logsHandler:  logsHandler,
		tokenHandler: tokenHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "mint a bearer token for GET /logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()

			return command.tokenHandler.Print(cmd, args)
		},
	}
	tokenCmd.Flags().String("subject", "ops", "token subject")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "classify <user-agent...>",
			Short: "classify a User-Agent string",
			Run: func(cmd *cobra.Command, args []string) {
				commandHandler.NewClassifyHandler().Classify(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "logs",
			Short: "print every persisted detection record",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				command, cleanup, err := newCmd()
				if err != nil {
					return err
				}
				defer cleanup()

				return command.logsHandler.Print(cmd, args)
			},
		},
		tokenCmd,
	)
}
