package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"smartfinance/internal/core"
	"smartfinance/internal/services"
)

func newWeddingCommand(rt *runtime) *cobra.Command {
	cmd := newKindCommand(rt, kindSpec{
		kind:    core.KindWedding,
		aliases: []string{"marriage"},
		short:   "Manage wedding expenses and the wedding budget",
	})
	cmd.AddCommand(newWeddingPlanCommand(rt), newWeddingGoalCommand(rt))
	return cmd
}

func newWeddingPlanCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show wedding spending against the budget and date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				plan, err := app.WeddingPlan()
				if err != nil {
					return err
				}
				if rt.asJSON {
					return rt.printJSON(plan)
				}
				printWeddingPlan(rt, app, plan)
				return nil
			})
		},
	}
}

func printWeddingPlan(rt *runtime, app *services.App, plan services.WeddingPlan) {
	fmt.Fprintf(rt.out, "Budget:     %s\n", app.Format(plan.Budget))
	fmt.Fprintf(rt.out, "Spent:      %s (%.1f%%)\n", app.Format(plan.Spent), plan.PercentageUsed)
	fmt.Fprintf(rt.out, "Remaining:  %s\n", app.Format(plan.Remaining))
	if plan.OverBudget {
		fmt.Fprintln(rt.out, "Over budget!")
	}
	fmt.Fprintf(rt.out, "Date:       %s (%d days, %d months)\n", plan.Date, plan.DaysRemaining, plan.MonthsRemaining)
	fmt.Fprintf(rt.out, "Save/month: %s\n", app.Format(plan.MonthlySavingsRequired))
	if len(plan.TopCategories) > 0 {
		fmt.Fprintln(rt.out, "Top categories:")
		for i, c := range plan.TopCategories {
			fmt.Fprintf(rt.out, "  %d. %s %s  %s\n", i+1, c.Emoji, c.Name, app.Format(c.Amount))
		}
	}
}

func newWeddingGoalCommand(rt *runtime) *cobra.Command {
	var budget, date string
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Show or change the wedding budget and date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				goal := app.Ledger.WeddingGoal()
				changed := false
				if cmd.Flags().Changed("budget") {
					a, err := core.ParseAmount(budget)
					if err != nil {
						return fmt.Errorf("--budget %q: %w", budget, err)
					}
					goal.Budget = a
					changed = true
				}
				if cmd.Flags().Changed("date") {
					d, err := core.ParseDate(date)
					if err != nil {
						return fmt.Errorf("--date: %w", err)
					}
					goal.Date = d
					changed = true
				}
				if changed {
					if err := app.Ledger.SetWeddingGoal(cmd.Context(), goal); err != nil {
						return err
					}
				}
				if rt.asJSON {
					return rt.printJSON(goal)
				}
				fmt.Fprintf(rt.out, "Wedding budget %s on %s\n", app.Format(goal.Budget), goal.Date)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&budget, "budget", "", "new total budget")
	cmd.Flags().StringVar(&date, "date", "", "new wedding day as YYYY-MM-DD")
	return cmd
}

func newSavingsCommand(rt *runtime) *cobra.Command {
	var goal string
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Show savings progress, optionally setting a new goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				if cmd.Flags().Changed("goal") {
					a, err := core.ParseAmount(goal)
					if err != nil {
						return fmt.Errorf("--goal %q: %w", goal, err)
					}
					if err := app.Ledger.SetSavingsGoal(cmd.Context(), a); err != nil {
						return err
					}
				}
				p, err := app.Savings()
				if err != nil {
					return err
				}
				if rt.asJSON {
					return rt.printJSON(p)
				}
				fmt.Fprintf(rt.out, "Balance:   %s\n", app.Format(p.Balance))
				fmt.Fprintf(rt.out, "Goal:      %s\n", app.Format(p.Goal))
				fmt.Fprintf(rt.out, "Progress:  %.1f%%\n", p.Percentage)
				if p.Reached {
					fmt.Fprintln(rt.out, "Goal reached!")
				} else {
					fmt.Fprintf(rt.out, "Remaining: %s\n", app.Format(p.Remaining))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&goal, "goal", "", "set a new savings goal")
	return cmd
}

func newDashboardCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals, balance and savings progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd.Context(), func(app *services.App) error {
				d, err := app.Dashboard()
				if err != nil {
					return err
				}
				if rt.asJSON {
					return rt.printJSON(d)
				}
				fmt.Fprintf(rt.out, "Income:    %s\n", app.Format(d.TotalIncome))
				fmt.Fprintf(rt.out, "Expenses:  %s\n", app.Format(d.TotalExpenses))
				fmt.Fprintf(rt.out, "Balance:   %s\n", app.Format(d.Balance))
				fmt.Fprintf(rt.out, "Wedding:   %s\n", app.Format(d.WeddingSpent))
				fmt.Fprintf(rt.out, "Savings:   %.1f%% of %s\n", d.Savings.DisplayPercentage, app.Format(d.Savings.Goal))
				if len(d.ExpenseChart) > 0 {
					fmt.Fprintln(rt.out)
					return printBreakdown(rt, app, core.Breakdown{Entries: d.ExpenseChart, Total: d.TotalExpenses})
				}
				return nil
			})
		},
	}
}

func newCategoriesCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "categories [KIND]",
		Short: "List the categories of one or all collections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := core.Kinds()
			if len(args) == 1 {
				k, err := core.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []core.Kind{k}
			}

			out := make(map[core.Kind][]core.Category, len(kinds))
			for _, k := range kinds {
				reg, err := core.RegistryFor(k)
				if err != nil {
					return err
				}
				out[k] = reg.Categories()
			}
			if rt.asJSON {
				return rt.printJSON(out)
			}

			tw := tabwriter.NewWriter(rt.out, 0, 4, 2, ' ', 0)
			for _, k := range kinds {
				fmt.Fprintf(tw, "[%s]\n", k)
				for _, c := range out[k] {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Emoji, c.Name)
				}
			}
			return tw.Flush()
		},
	}
}
