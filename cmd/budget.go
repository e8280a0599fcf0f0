package cmd

import (
	"fmt"

	"github.com/theirongolddev/spent/internal/cli"
	"github.com/theirongolddev/spent/internal/model"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:     "budget",
	Aliases: []string{"track"},
	Short:   "Show spending against the monthly budget",
	Args:    cobra.NoArgs,
	RunE:    runBudget,
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the monthly budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetSet,
}

func init() {
	budgetCmd.AddCommand(budgetSetCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	l, err := s.loadLedger(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), renderBudget(l.BudgetStatus()))
	return nil
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	amount, err := model.ParseBudget(args[0])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	l, err := s.loadLedgerForUpdate(ctx)
	if err != nil {
		return err
	}

	if err := l.SetBudget(amount); err != nil {
		return err
	}
	if err := s.saveLedger(ctx, l); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  Monthly budget set to %s\n", cli.FormatMoney(amount))
	return nil
}

func renderBudget(st model.BudgetStatus) string {
	if st.Unset {
		return fmt.Sprintf("\n  Total Expenses: %s\n  %s\n\n",
			cli.FormatMoney(st.Spent),
			cli.RenderMuted("No monthly budget set. Run `spent budget set <amount>` to set one."))
	}
	return "\n" + cli.RenderTitle("Budget") + "\n\n" + cli.BudgetLines(st) + "\n"
}
