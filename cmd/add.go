package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/spent/internal/cli"
	"github.com/theirongolddev/spent/internal/model"
	"github.com/theirongolddev/spent/internal/prompt"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	flagAddDate        string
	flagAddCategory    string
	flagAddAmount      string
	flagAddDescription string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Long:  "Record an expense. Missing values are asked for interactively when stdin is a terminal.",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddDate, "date", "", "Date of the expense, YYYY-MM-DD (default today)")
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "", "Category, e.g. Food")
	addCmd.Flags().StringVarP(&flagAddAmount, "amount", "a", "", "Amount spent")
	addCmd.Flags().StringVarP(&flagAddDescription, "description", "d", "", "Brief description")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	l, err := s.loadLedgerForUpdate(ctx)
	if err != nil {
		return err
	}

	v := prompt.ExpenseValues{
		Date:        flagAddDate,
		Category:    flagAddCategory,
		Amount:      flagAddAmount,
		Description: flagAddDescription,
	}
	if v.Date == "" {
		v.Date = time.Now().Format(model.DateLayout)
	}

	if !v.Complete() {
		if !stdinIsTerminal() {
			return fmt.Errorf("missing %s (stdin is not a terminal)", strings.Join(missingFlags(v), ", "))
		}
		if err := prompt.MissingExpenseForm(&v).Run(); err != nil {
			if prompt.Aborted(err) {
				return errors.New("cancelled, nothing recorded")
			}
			return err
		}
	}

	e, err := l.AddRaw(v.Date, v.Category, v.Amount, v.Description)
	if err != nil {
		return err
	}
	if err := s.saveLedger(ctx, l); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  Added %s on %s (%s): %s\n",
		cli.FormatMoney(e.Amount), e.Date, e.Category, e.Description)
	return nil
}

func missingFlags(v prompt.ExpenseValues) []string {
	var missing []string
	if strings.TrimSpace(v.Category) == "" {
		missing = append(missing, "--category")
	}
	if strings.TrimSpace(v.Amount) == "" {
		missing = append(missing, "--amount")
	}
	if strings.TrimSpace(v.Description) == "" {
		missing = append(missing, "--description")
	}
	return missing
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
