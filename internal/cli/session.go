package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func (a *app) sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Open a new session",
		Long:  `Open a new, empty session and print its token`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.client.CreateSession(cmd.Context())
			if err != nil {
				return err
			}
			a.appLogger.Info("session created", slog.String("token", token.String()))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}
