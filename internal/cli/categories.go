package cli

import (
	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
)

func (a *app) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "categories",
		Aliases:           []string{"category"},
		Short:             "Manage categories",
		PersistentPreRunE: a.chainSessionCheck,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the categories of the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), categories)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := a.client.CreateCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), category)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ledger.ParseID(args[0])
			if err != nil {
				return err
			}
			category, err := a.client.GetCategory(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), category)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ledger.ParseID(args[0])
			if err != nil {
				return err
			}
			category, err := a.client.UpdateCategory(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), category)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. Transactions tagged with it keep existing without a category.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ledger.ParseID(args[0])
			if err != nil {
				return err
			}
			return a.client.DeleteCategory(cmd.Context(), id)
		},
	})

	return cmd
}

// chainSessionCheck runs the root pre-run (cobra only runs the nearest one) and then requires a session.
func (a *app) chainSessionCheck(cmd *cobra.Command, args []string) error {
	if root := cmd.Root(); root.PersistentPreRunE != nil {
		if err := root.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
	}
	return a.requireSession(cmd, args)
}
