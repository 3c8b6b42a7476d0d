// Package cli implements ledger-cli, a command line client for the ledger API.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/ledger-demo/internal/client"
	"github.com/information-sharing-networks/ledger-demo/internal/config"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
	"github.com/information-sharing-networks/ledger-demo/internal/version"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	cfg       *config.ClientEnvironment
	appLogger *slog.Logger
	client    *client.Client

	apiURL  string
	session string
}

// NewRootCmd builds the ledger-cli command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "ledger-cli",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		Short:             "Ledger API client",
		Long: `ledger-cli manages the categories and transactions of a ledger session.

Start with "ledger-cli session" and export the printed token as LEDGER_SESSION
(or pass it with --session) for the other commands.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a.cfg, err = config.NewClientConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			a.appLogger = logger.NewLogger(cmd.ErrOrStderr(), logger.ParseLogLevel(a.cfg.LogLevel), a.cfg.Environment)

			if a.apiURL == "" {
				a.apiURL = a.cfg.APIURL
			}
			if a.session == "" {
				a.session = a.cfg.SessionToken
			}

			a.client = client.New(a.apiURL,
				client.WithSessionHeader(a.cfg.SessionHeader),
				client.WithToken(a.session),
				client.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
			)
			a.appLogger.Debug("ledger-cli configured",
				slog.String("api_url", a.apiURL),
				slog.Bool("has_session", a.session != ""))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.apiURL, "url", "", "API base url (default $LEDGER_API_URL)")
	rootCmd.PersistentFlags().StringVar(&a.session, "session", "", "session token (default $LEDGER_SESSION)")

	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	rootCmd.AddCommand(a.sessionCmd())
	rootCmd.AddCommand(a.categoriesCmd())
	rootCmd.AddCommand(a.transactionsCmd())

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// requireSession fails commands that need a token when none was configured.
func (a *app) requireSession(cmd *cobra.Command, args []string) error {
	if a.session == "" {
		return fmt.Errorf("no session: run \"ledger-cli session\" and set LEDGER_SESSION or --session")
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
