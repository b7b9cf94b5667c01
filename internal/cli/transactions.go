package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"smartfinance/internal/core"
	"smartfinance/internal/services"
)

type kindSpec struct {
	kind    core.Kind
	aliases []string
	short   string
}

// transactionFlags are shared by add and update.
type transactionFlags struct {
	category    string
	amount      string
	description string
	date        string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category name")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, dot or comma decimals")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "optional note (max 200 characters)")
	cmd.Flags().StringVar(&f.date, "date", "", "day as YYYY-MM-DD (default today)")
}

// apply overlays the flags that were set on cmd onto in.
func (f *transactionFlags) apply(cmd *cobra.Command, in core.TransactionInput) (core.TransactionInput, error) {
	if cmd.Flags().Changed("category") {
		in.Category = f.category
	}
	if cmd.Flags().Changed("amount") {
		a, err := core.ParseAmount(f.amount)
		if err != nil {
			return in, fmt.Errorf("--amount %q: %w", f.amount, err)
		}
		in.Amount = a
	}
	if cmd.Flags().Changed("description") {
		in.Description = f.description
	}
	if cmd.Flags().Changed("date") {
		d, err := core.ParseDate(f.date)
		if err != nil {
			return in, fmt.Errorf("--date: %w", err)
		}
		in.Date = d
	}
	return in, nil
}

func newKindCommand(rt *runtime, spec kindSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:     string(spec.kind),
		Aliases: spec.aliases,
		Short:   spec.short,
	}
	cmd.AddCommand(
		newAddCommand(rt, spec.kind),
		newListCommand(rt, spec.kind),
		newUpdateCommand(rt, spec.kind),
		newDeleteCommand(rt, spec.kind),
		newSummaryCommand(rt, spec.kind),
	)
	return cmd
}

func newAddCommand(rt *runtime, kind core.Kind) *cobra.Command {
	var flags transactionFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Record a new %s", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				in, err := flags.apply(cmd, core.TransactionInput{Date: app.Today()})
				if err != nil {
					return err
				}
				t, err := app.AddTransaction(cmd.Context(), kind, in)
				if err != nil {
					return err
				}
				if rt.asJSON {
					return rt.printJSON(t)
				}
				fmt.Fprintf(rt.out, "Added %s %d: %s %s\n", kind, t.ID, t.Category, app.Format(t.Amount))
				return nil
			})
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newListCommand(rt *runtime, kind core.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s records, newest first", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				items, err := app.Ledger.List(kind)
				if err != nil {
					return err
				}
				if rt.asJSON {
					if items == nil {
						items = []core.Transaction{}
					}
					return rt.printJSON(items)
				}
				if len(items) == 0 {
					fmt.Fprintf(rt.out, "No %s records yet.\n", kind)
					return nil
				}

				total, err := app.Ledger.Total(kind)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(rt.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
				for _, t := range items {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Date, t.Category, app.Format(t.Amount), t.Description)
				}
				fmt.Fprintf(tw, "\t\tTOTAL\t%s\t\n", app.Format(total))
				return tw.Flush()
			})
		},
	}
}

func newUpdateCommand(rt *runtime, kind core.Kind) *cobra.Command {
	var flags transactionFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: fmt.Sprintf("Change fields of a %s record", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				cur, found, err := app.Ledger.Get(kind, id)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%s %d not found", kind, id)
				}
				in, err := flags.apply(cmd, cur.Input())
				if err != nil {
					return err
				}
				t, _, err := app.UpdateTransaction(cmd.Context(), kind, id, in)
				if err != nil {
					return err
				}
				if rt.asJSON {
					return rt.printJSON(t)
				}
				fmt.Fprintf(rt.out, "Updated %s %d: %s %s\n", kind, t.ID, t.Category, app.Format(t.Amount))
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newDeleteCommand(rt *runtime, kind core.Kind) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Remove a %s record", kind),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				deleted, err := app.DeleteTransaction(cmd.Context(), kind, id)
				if err != nil {
					return err
				}
				if rt.asJSON {
					return rt.printJSON(map[string]bool{"deleted": deleted})
				}
				if deleted {
					fmt.Fprintf(rt.out, "Deleted %s %d\n", kind, id)
				} else {
					fmt.Fprintf(rt.out, "No %s with id %d\n", kind, id)
				}
				return nil
			})
		},
	}
}

func newSummaryCommand(rt *runtime, kind core.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: fmt.Sprintf("Show %s totals per category", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				b, err := app.Summary(kind)
				if err != nil {
					return err
				}
				if rt.asJSON {
					return rt.printJSON(b)
				}
				return printBreakdown(rt, app, b)
			})
		},
	}
}

func printBreakdown(rt *runtime, app *services.App, b core.Breakdown) error {
	tw := tabwriter.NewWriter(rt.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tAMOUNT")
	for _, e := range b.Entries {
		fmt.Fprintf(tw, "%s %s\t%s\n", e.Emoji, e.Name, app.Format(e.Amount))
	}
	if !b.Unmatched.IsZero() {
		fmt.Fprintf(tw, "(unknown categories)\t%s\n", app.Format(b.Unmatched))
	}
	fmt.Fprintf(tw, "TOTAL\t%s\n", app.Format(b.Total))
	return tw.Flush()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
