package cmd

import (
	"fmt"

	"github.com/theirongolddev/spent/internal/cli"
	"github.com/theirongolddev/spent/internal/ledger"
	"github.com/theirongolddev/spent/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagListCategory string
	flagListSince    string
	flagListUntil    string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "view"},
	Short:   "List recorded expenses",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Only categories containing this text")
	listCmd.Flags().StringVar(&flagListSince, "since", "", "Only expenses on or after this date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&flagListUntil, "until", "", "Only expenses on or before this date (YYYY-MM-DD)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	f, err := listFilter()
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	l, err := s.loadLedger(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), renderExpenses(f.Apply(l.Records()), !f.IsZero()))
	return nil
}

func listFilter() (ledger.Filter, error) {
	f := ledger.Filter{Category: flagListCategory}
	if flagListSince != "" {
		t, err := model.ParseDate(flagListSince)
		if err != nil {
			return f, fmt.Errorf("--since: %w", err)
		}
		f.Since = t
	}
	if flagListUntil != "" {
		t, err := model.ParseDate(flagListUntil)
		if err != nil {
			return f, fmt.Errorf("--until: %w", err)
		}
		f.Until = t
	}
	return f, nil
}

// renderExpenses renders the expense listing used by `list` and the shell.
func renderExpenses(records []model.Expense, filtered bool) string {
	if len(records) == 0 {
		if filtered {
			return "\n  No expenses match the filter.\n\n"
		}
		return "\n  No expenses recorded yet.\n\n"
	}

	title := fmt.Sprintf("%s %s", cli.FormatCount(len(records)), cli.Plural(len(records), "expense"))
	t := cli.ExpenseTable(records, cli.FormatMoney(ledger.Sum(records)))

	return "\n" + cli.RenderTitle(title) + "\n\n" + cli.RenderTable(t) + "\n"
}
