package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"reckon/internal/models"
	"reckon/internal/pagination"
	"reckon/internal/services"
)

func newClassifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Manage description categories",
	}
	cmd.AddCommand(
		newClassifyMapCmd(a),
		newClassifyOverrideCmd(a),
		newClassifyUnmappedCmd(a),
	)
	return cmd
}

func newClassifyMapCmd(a *app) *cobra.Command {
	var format, normalized, category string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map a normalized description to a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := services.NewClassificationService(a.db()).
				SetMapping(models.FormatIdentifier(format), normalized, category)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %q -> %s\n", format, m.NormalizedValue, m.Category.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "export format")
	cmd.Flags().StringVar(&normalized, "normalized", "", "normalized description")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	for _, f := range []string{"format", "normalized", "category"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newClassifyOverrideCmd(a *app) *cobra.Command {
	var format, raw, category string

	cmd := &cobra.Command{
		Use:   "override",
		Short: "Pin the category of one exact raw description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := services.NewClassificationService(a.db()).
				SetOverride(models.FormatIdentifier(format), raw, category)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: raw value %d -> %s\n", format, o.RawValueID, o.Category.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "export format")
	cmd.Flags().StringVar(&raw, "raw", "", "raw description exactly as exported")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	for _, f := range []string{"format", "raw", "category"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newClassifyUnmappedCmd(a *app) *cobra.Command {
	var format string
	var page pagination.PageRequest

	cmd := &cobra.Command{
		Use:   "unmapped",
		Short: "List normalized descriptions without a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := services.NewClassificationService(a.db()).
				ListUnmapped(models.FormatIdentifier(format), page)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RAW\tNORMALIZED")
			for _, v := range res.Data {
				fmt.Fprintf(w, "%d\t%s\n", v.RawCount, v.Value)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printPage(cmd, res.Page, res.TotalPages, res.TotalItems)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "export format")
	_ = cmd.MarkFlagRequired("format")
	addPageFlags(cmd, &page)
	return cmd
}

func newRenormalizeCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "renormalize",
		Short: "Recompute cached normalized descriptions",
		Long: "Recompute every cached normalized description with the current\n" +
			"normalizers. Raw values and mappings are left as they are.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var only *models.FormatIdentifier
			if format != "" {
				f := models.FormatIdentifier(format)
				only = &f
			}
			res, err := services.NewClassificationService(a.db()).Recompute(only)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d raw values, %d changed\n", res.Scanned, res.Changed)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "limit to one export format")
	return cmd
}
