package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"reckon/internal/csvformat"
	apperrors "reckon/internal/errors"
	"reckon/internal/models"
	"reckon/internal/pagination"
	"reckon/internal/services"
)

func newTransactionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Inspect ledgers",
	}
	cmd.AddCommand(newTransactionsListCmd(a))
	return cmd
}

func newTransactionsListCmd(a *app) *cobra.Command {
	var account, from, to string
	var page pagination.PageRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an account's transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acct, err := services.NewAccountService(a.db()).ResolveAccount(account)
			if err != nil {
				return err
			}

			var filter services.TransactionFilter
			if from != "" {
				d, err := dateFlag("from", from)
				if err != nil {
					return err
				}
				filter.FromDate = &d
			}
			if to != "" {
				d, err := dateFlag("to", to)
				if err != nil {
					return err
				}
				filter.ToDate = &d
			}

			res, err := services.NewTransactionService(a.db()).GetAccountTransactions(acct.ID, page, filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "DATE\tAMOUNT\tCATEGORY\tDESCRIPTION\t")
			for _, t := range res.Data {
				category := "-"
				if t.Category != nil {
					category = t.Category.Name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", t.Date, csvformat.FormatCents(t.Amount), category, t.Description)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printPage(cmd, res.Page, res.TotalPages, res.TotalItems)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account identifier or id")
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("account")
	addPageFlags(cmd, &page)
	return cmd
}

func dateFlag(name, value string) (string, error) {
	t, err := csvformat.ParseDate(value)
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("invalid --%s: %v", name, err))
	}
	return t.Format(models.DateLayout), nil
}
