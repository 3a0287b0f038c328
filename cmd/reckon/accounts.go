package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"reckon/internal/models"
	"reckon/internal/pagination"
	"reckon/internal/services"
)

func newAccountsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newAccountsCreateCmd(a), newAccountsListCmd(a))
	return cmd
}

func newAccountsCreateCmd(a *app) *cobra.Command {
	var identifier, name, accountType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				name = identifier
			}
			account, err := services.NewAccountService(a.db()).
				CreateAccount(identifier, name, models.AccountType(accountType))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created account %s (id %d)\n", account.Identifier, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&identifier, "identifier", "", "immutable account slug")
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the identifier)")
	cmd.Flags().StringVar(&accountType, "type", string(models.AccountTypeBank), "bank, credit_card or cash")
	_ = cmd.MarkFlagRequired("identifier")
	return cmd
}

func newAccountsListCmd(a *app) *cobra.Command {
	var page pagination.PageRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := services.NewAccountService(a.db()).ListAccounts(page)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tIDENTIFIER\tTYPE\tNAME")
			for _, acct := range res.Data {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", acct.ID, acct.Identifier, acct.Type, acct.Name)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printPage(cmd, res.Page, res.TotalPages, res.TotalItems)
			return nil
		},
	}

	addPageFlags(cmd, &page)
	return cmd
}

func addPageFlags(cmd *cobra.Command, page *pagination.PageRequest) {
	cmd.Flags().IntVar(&page.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&page.PageSize, "page-size", pagination.DefaultPageSize, "rows per page")
}

func printPage(cmd *cobra.Command, page, totalPages int, totalItems int64) {
	if totalPages > 1 {
		fmt.Fprintf(cmd.ErrOrStderr(), "page %d of %d (%d total)\n", page, totalPages, totalItems)
	}
}
