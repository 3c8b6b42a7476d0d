package cli

import (
	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
)

// transactionFlags are the fields of a transaction body given on the command line.
type transactionFlags struct {
	date       string
	amount     string
	iban       string
	txType     string
	categoryID int64
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date (required)")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, greater than zero (required)")
	cmd.Flags().StringVar(&f.iban, "iban", "", "external IBAN (required)")
	cmd.Flags().StringVar(&f.txType, "type", string(ledger.Deposit), "deposit or withdrawal")
	cmd.Flags().Int64Var(&f.categoryID, "category", 0, "category id")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("iban")
}

func (f *transactionFlags) input(cmd *cobra.Command) (ledger.TransactionInput, error) {
	amount, err := ledger.NewAmount(f.amount)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	date := ledger.Date(f.date)
	in := ledger.TransactionInput{
		Date:         &date,
		Amount:       &amount,
		ExternalIBAN: &f.iban,
		Type:         &f.txType,
	}
	if cmd.Flags().Changed("category") {
		id := ledger.ID(f.categoryID)
		in.CategoryID = &id
	}
	return in, nil
}

func (a *app) transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "transactions",
		Aliases:           []string{"transaction", "tx"},
		Short:             "Manage transactions",
		PersistentPreRunE: a.chainSessionCheck,
	}

	var (
		offset, limit int
		category      int64
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions in id order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := ledger.TransactionQuery{Offset: offset}
			if cmd.Flags().Changed("limit") {
				q.Limit = &limit
			}
			if cmd.Flags().Changed("category") {
				id := ledger.ID(category)
				q.CategoryID = &id
			}
			txs, err := a.client.ListTransactions(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), txs)
		},
	}
	listCmd.Flags().IntVar(&offset, "offset", 0, "skip this many transactions")
	listCmd.Flags().IntVar(&limit, "limit", 0, "return at most this many transactions")
	listCmd.Flags().Int64Var(&category, "category", 0, "only transactions tagged with this category")
	cmd.AddCommand(listCmd)

	var createFlags transactionFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := createFlags.input(cmd)
			if err != nil {
				return err
			}
			t, err := a.client.CreateTransaction(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	}
	createFlags.register(createCmd)
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ledger.ParseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.client.GetTransaction(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	})

	var updateFlags transactionFlags
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace every field of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ledger.ParseID(args[0])
			if err != nil {
				return err
			}
			in, err := updateFlags.input(cmd)
			if err != nil {
				return err
			}
			t, err := a.client.UpdateTransaction(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	}
	updateFlags.register(updateCmd)
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ledger.ParseID(args[0])
			if err != nil {
				return err
			}
			return a.client.DeleteTransaction(cmd.Context(), id)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-category <id> <category-id>",
		Short: "Tag a transaction with a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ledger.ParseID(args[0])
			if err != nil {
				return err
			}
			categoryID, err := ledger.ParseID(args[1])
			if err != nil {
				return err
			}
			t, err := a.client.SetTransactionCategory(cmd.Context(), id, categoryID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	})

	return cmd
}
