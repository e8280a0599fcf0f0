package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/spent/internal/cli"
	"github.com/theirongolddev/spent/internal/ledger"
	"github.com/theirongolddev/spent/internal/model"
	"github.com/theirongolddev/spent/internal/prompt"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive menu session (the default command)",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// shell is one interactive menu session over a loaded ledger.
type shell struct {
	*session
	ledger *ledger.Ledger
	out    io.Writer
	menu   func() (prompt.Action, error)
}

func runMenu() (prompt.Action, error) {
	var choice prompt.Action
	err := prompt.MenuForm(&choice).Run()
	return choice, err
}

func runShell(cmd *cobra.Command, _ []string) error {
	if !stdinIsTerminal() {
		return errors.New("the interactive session needs a terminal; run `spent --help` for scriptable commands")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	l, err := s.loadLedger(ctx)
	if err != nil {
		return err
	}

	sh := &shell{session: s, ledger: l, out: cmd.OutOrStdout(), menu: runMenu}
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, cli.RenderTitle("spent · personal expense tracker"))
	return sh.run(ctx)
}

func (sh *shell) run(ctx context.Context) error {
	for {
		choice, err := sh.menu()
		if err != nil {
			if !prompt.Aborted(err) {
				return err
			}
			choice = prompt.ActionExit
		}

		switch choice {
		case prompt.ActionAdd:
			sh.addExpense()
		case prompt.ActionView:
			fmt.Fprint(sh.out, renderExpenses(sh.ledger.Records(), false))
		case prompt.ActionTrack:
			sh.trackBudget()
		case prompt.ActionSetBudget:
			sh.setBudget()
		case prompt.ActionSave:
			if err := sh.save(ctx); err != nil {
				sh.report(err)
			}
		case prompt.ActionExit:
			// A failed save keeps the session open.
			if err := sh.save(ctx); err != nil {
				sh.report(err)
				fmt.Fprintln(sh.out, "  Not exiting: fix the problem and choose Exit again, or Save.")
				fmt.Fprintln(sh.out)
				continue
			}
			fmt.Fprintln(sh.out, "  Exiting spent. Goodbye!")
			return nil
		}
	}
}

func (sh *shell) addExpense() {
	v := prompt.ExpenseValues{Date: time.Now().Format(model.DateLayout)}
	if err := prompt.ExpenseForm(&v).Run(); err != nil {
		if !prompt.Aborted(err) {
			sh.report(err)
		}
		return
	}

	e, err := sh.ledger.AddRaw(v.Date, v.Category, v.Amount, v.Description)
	if err != nil {
		sh.report(err)
		return
	}
	sh.log.Debug("expense added", "date", e.Date, "category", e.Category, "amount", model.FormatAmount(e.Amount))
	fmt.Fprintf(sh.out, "  Expense added successfully! %s for %s.\n\n", cli.FormatMoney(e.Amount), e.Category)
}

func (sh *shell) trackBudget() {
	if !sh.ledger.HasBudget() {
		var yes bool
		err := prompt.ConfirmForm("No monthly budget set. Would you like to set a budget?", &yes).Run()
		if err != nil && !prompt.Aborted(err) {
			sh.report(err)
			return
		}
		if !yes {
			fmt.Fprint(sh.out, renderBudget(sh.ledger.BudgetStatus()))
			return
		}
		if !sh.setBudget() {
			return
		}
	}
	fmt.Fprint(sh.out, renderBudget(sh.ledger.BudgetStatus()))
}

func (sh *shell) setBudget() bool {
	v := ""
	if sh.ledger.HasBudget() {
		v = model.FormatAmount(sh.ledger.Budget())
	}
	if err := prompt.BudgetForm(&v).Run(); err != nil {
		if !prompt.Aborted(err) {
			sh.report(err)
		}
		return false
	}

	b, err := model.ParseBudget(v)
	if err == nil {
		err = sh.ledger.SetBudget(b)
	}
	if err != nil {
		sh.report(err)
		return false
	}
	fmt.Fprintf(sh.out, "  Monthly budget set to %s.\n\n", cli.FormatMoney(b))
	return true
}

func (sh *shell) save(ctx context.Context) error {
	if err := sh.saveLedger(ctx, sh.ledger); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "  Expenses saved to %s.\n\n", sh.backend.Location())
	return nil
}

func (sh *shell) report(err error) {
	fmt.Fprintf(sh.out, "  %s\n\n", cli.RenderWarning("Error: "+err.Error()))
}
