package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"crmlink/internal/config"
	"crmlink/internal/store"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect the CRM database",
	}

	dbCmd.AddCommand(newDBHealthCommand(ctx))
	dbCmd.AddCommand(newDBPathCommand(ctx))

	return dbCmd
}

func newDBHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Run database diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				health, err := st.CheckHealth(cmd.Context())
				if err != nil && health.Error == "" {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, health)
				}

				rows := [][]string{
					{"Database path", health.DBPath},
					{"Exists", yesNo(health.DatabaseExists)},
					{"Readable", yesNo(health.DatabaseReadable)},
					{"Integrity check", yesNo(health.IntegrityCheck)},
					{"Companies", strconv.Itoa(health.Companies)},
					{"Contacts", strconv.Itoa(health.Contacts)},
					{"Deals", strconv.Itoa(health.Deals)},
				}
				if len(health.MissingTables) > 0 {
					rows = append(rows, []string{"Missing tables", strings.Join(health.MissingTables, ", ")})
				}
				if health.Error != "" {
					rows = append(rows, []string{"Error", health.Error})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(out, []string{"Check", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))

				if err != nil {
					return err
				}
				if len(health.MissingTables) > 0 {
					return errors.New("database is missing tables; delete it and re-import")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit diagnostics as JSON")
	return cmd
}

func newDBPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the database file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.DatabasePath())
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
