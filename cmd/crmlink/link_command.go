package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"crmlink/internal/config"
	"crmlink/internal/linker"
	"crmlink/internal/runlock"
	"crmlink/internal/store"
)

func newLinkCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Run one linking pass over contacts, companies, and deals",
		Long: `Run one idempotent reconciliation pass: contacts with a null company
reference are matched to companies by normalized e-mail domain, then deals
with a null company reference inherit company and primary contact from the
matching linked contact. The whole pass runs in a single transaction.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLinker(func(cfg *config.Config, st *store.Store, l *linker.Linker) error {
				lock, err := runlock.Acquire(cfg.LockPath())
				if err != nil {
					return err
				}
				defer lock.Release()

				var result linker.Result
				if dryRun {
					result, err = l.DryRun(cmd.Context())
				} else {
					result, err = l.Run(cmd.Context())
				}
				if err != nil {
					return err
				}

				if jsonOut {
					payload := struct {
						DryRun bool          `json:"dry_run"`
						Result linker.Result `json:"result"`
					}{DryRun: dryRun, Result: result}
					return writeJSON(cmd, payload)
				}

				out := cmd.OutOrStdout()
				if dryRun {
					fmt.Fprintln(out, "Dry run: nothing was committed")
				}
				rows := [][]string{
					{"Contacts examined", strconv.Itoa(result.ContactsExamined)},
					{"Contacts linked", strconv.Itoa(result.ContactsLinked)},
					{"Deals examined", strconv.Itoa(result.DealsExamined)},
					{"Deals linked", strconv.Itoa(result.DealsLinked)},
					{"Ambiguous domains", strconv.Itoa(result.AmbiguousDomains)},
				}
				fmt.Fprintln(out, renderTable(out, []string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))

				if !dryRun {
					coverage, err := l.Report(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintln(out, renderCoverage(out, coverage))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the pass but roll back instead of committing")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	return cmd
}
