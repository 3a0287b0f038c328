package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"reckon/internal/lock"
	"reckon/internal/models"
	"reckon/internal/services"
)

func newImportCmd(a *app) *cobra.Command {
	var format, account string

	cmd := &cobra.Command{
		Use:   "import --format=<format> --account=<account> <file.csv>",
		Short: "Import a CSV export into an account's ledger",
		Long: "Import a CSV export into an account's ledger. Rows already present are\n" +
			"not inserted again, so overlapping exports can be imported repeatedly.\n" +
			"Formats: ally_bank, capital_one, costco_receipts.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := services.NewImportService(a.db(), &lock.AccountLocker{})
			summary, err := svc.ImportFile(cmd.Context(), services.ImportRequest{
				Format:     models.FormatIdentifier(format),
				AccountRef: account,
				FileName:   args[0],
			})
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "export format of the file")
	cmd.Flags().StringVar(&account, "account", "", "account identifier or id")
	_ = cmd.MarkFlagRequired("format")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func printSummary(w io.Writer, s *services.ImportSummary) {
	fmt.Fprintf(w, "run:                     %s\n", s.RunID)
	fmt.Fprintf(w, "account:                 %s\n", s.Account)
	fmt.Fprintf(w, "format:                  %s\n", s.Format)
	fmt.Fprintf(w, "file:                    %s\n", s.FileName)
	fmt.Fprintf(w, "rows read:               %d\n", s.RowsRead)
	fmt.Fprintf(w, "rows skipped:            %d\n", s.RowsSkipped)
	fmt.Fprintf(w, "descriptions classified: %d\n", s.DescriptionsClassified)
	fmt.Fprintf(w, "rows inserted:           %d\n", s.RowsInserted)
	fmt.Fprintf(w, "rows dropped:            %d\n", s.RowsDropped)
	fmt.Fprintf(w, "days new/merged/skipped: %d/%d/%d\n", s.NewDays, s.MergedDays, s.SkippedDays)
	fmt.Fprintf(w, "import gap:              %d (threshold %d, %d transition days)\n", s.ImportGap, s.GapDays, s.TransitionDays)
}
