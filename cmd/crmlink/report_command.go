package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"crmlink/internal/config"
	"crmlink/internal/linker"
	"crmlink/internal/store"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show deal linkage coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLinker(func(cfg *config.Config, st *store.Store, l *linker.Linker) error {
				coverage, err := l.Report(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, coverage)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderCoverage(cmd.OutOrStdout(), coverage))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	return cmd
}

func renderCoverage(out io.Writer, coverage linker.Coverage) string {
	rows := [][]string{
		{"Total deals", strconv.Itoa(coverage.TotalDeals), ""},
		{"With company", strconv.Itoa(coverage.WithCompany), formatPct(coverage.CompanyPct)},
		{"With contact", strconv.Itoa(coverage.WithContact), formatPct(coverage.ContactPct)},
		{"Fully linked", strconv.Itoa(coverage.FullyLinked), formatPct(coverage.FullyLinkedPct)},
	}
	return renderTable(out, []string{"Coverage", "Count", "Pct"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight})
}

func formatPct(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}
