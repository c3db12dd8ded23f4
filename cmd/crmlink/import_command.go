package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"crmlink/internal/config"
	"crmlink/internal/importer"
	"crmlink/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Load CRM records from CSV exports",
	}

	importCmd.AddCommand(newImportEntityCommand(ctx, "companies",
		"Import companies from a CSV with name and optional domain columns",
		importer.ImportCompanies))
	importCmd.AddCommand(newImportEntityCommand(ctx, "contacts",
		"Import contacts from a CSV with an email column",
		importer.ImportContacts))
	importCmd.AddCommand(newImportEntityCommand(ctx, "deals",
		"Import deals from a CSV with title and optional contact_email columns",
		importer.ImportDeals))

	return importCmd
}

func newImportEntityCommand(
	ctx *commandContext,
	entity string,
	short string,
	run func(context.Context, *store.Store, io.Reader) (int, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   entity + " <file.csv>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				path, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open csv: %w", err)
				}
				defer file.Close()

				count, err := run(cmd.Context(), st, file)
				if err != nil {
					return fmt.Errorf("import %s: %w", entity, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s\n", count, entity)
				return nil
			})
		},
	}
}
