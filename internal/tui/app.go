// Package tui provides the interactive Bubble Tea dashboard for spent.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spent/internal/cli"
	"github.com/theirongolddev/spent/internal/ledger"
	"github.com/theirongolddev/spent/internal/model"
	"github.com/theirongolddev/spent/internal/prompt"
	"github.com/theirongolddev/spent/internal/store"
	"github.com/theirongolddev/spent/internal/tui/components"
	"github.com/theirongolddev/spent/internal/tui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
)

// SavedMsg is sent when a background save finishes. Rev is the ledger
// revision the saved snapshot was taken at.
type SavedMsg struct {
	Err  error
	Rev  int
	Quit bool
}

type formKind int

const (
	formNone formKind = iota
	formAdd
	formBudget
)

// App is the root Bubble Tea model.
type App struct {
	ctx     context.Context
	backend store.Backend
	ledger  *ledger.Ledger
	log     *log.Logger

	// UI state
	width  int
	height int
	table  table.Model
	help   help.Model
	keys   keyMap

	// Embedded huh form for add / budget. huh binds to the addresses of
	// expense and budget, so they must survive App copies.
	form     *huh.Form
	formKind formKind
	expense  *prompt.ExpenseValues
	budget   *string

	// rev counts ledger changes; savedRev is the last revision on disk.
	rev      int
	savedRev int
	saving   bool
	message string
	isError bool
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 120
	budgetBarWidth   = 50

	// header + budget panel + borders + status bar
	chromeHeight     = 10
	minContentHeight = 3
)

// NewApp builds the dashboard over an already loaded ledger.
func NewApp(ctx context.Context, backend store.Backend, l *ledger.Ledger, logger *log.Logger) App {
	a := App{
		ctx:     ctx,
		backend: backend,
		ledger:  l,
		log:     logger,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	a.table = newTable()
	a.refreshTable()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Dirty reports whether the ledger has changes that are not yet saved.
func (a App) Dirty() bool {
	return a.rev != a.savedRev
}

func (a *App) markChanged() {
	a.rev++
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.resizeTable()
		if a.form != nil {
			a.form = a.form.WithWidth(a.contentWidth() - 4)
		}
		return a, nil

	case SavedMsg:
		a.saving = false
		if msg.Err != nil {
			a.log.Error("save failed", "path", a.backend.Location(), "err", msg.Err)
			a.setMessage(fmt.Sprintf("Save failed: %v", msg.Err), true)
			return a, nil
		}
		if msg.Rev > a.savedRev {
			a.savedRev = msg.Rev
		}
		a.log.Info("saved", "path", a.backend.Location(), "rev", msg.Rev)
		if a.Dirty() {
			// Changes made while the save was in flight.
			if msg.Quit {
				return a.save(true)
			}
			a.setMessage("Saved, but newer changes are not saved yet", false)
			return a, nil
		}
		a.setMessage("Expenses saved to "+a.backend.Location(), false)
		if msg.Quit {
			return a, tea.Quit
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Abort) {
			return a, tea.Quit
		}

		if a.form != nil {
			if msg.Type == tea.KeyEsc {
				a.closeForm()
				a.setMessage("Cancelled", false)
				return a, nil
			}
			return a.updateForm(msg)
		}

		switch {
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
			a.resizeTable()
			return a, nil
		case key.Matches(msg, a.keys.Add):
			return a.openAddForm()
		case key.Matches(msg, a.keys.Budget):
			return a.openBudgetForm()
		case key.Matches(msg, a.keys.Save):
			return a.save(false)
		case key.Matches(msg, a.keys.Quit):
			return a.save(true)
		}

		var cmd tea.Cmd
		a.table, cmd = a.table.Update(msg)
		return a, cmd
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}

	return a, nil
}

func (a App) save(quit bool) (tea.Model, tea.Cmd) {
	if a.saving {
		return a, nil
	}
	a.saving = true
	a.setMessage("Saving...", false)
	return a, saveCmd(a.ctx, a.backend, a.ledger.Clone(), a.rev, quit)
}

// saveCmd writes snapshot, taken at revision rev, in the background.
func saveCmd(ctx context.Context, backend store.Backend, snapshot *ledger.Ledger, rev int, quit bool) tea.Cmd {
	return func() tea.Msg {
		return SavedMsg{Err: backend.Save(ctx, snapshot), Rev: rev, Quit: quit}
	}
}

func (a App) openAddForm() (tea.Model, tea.Cmd) {
	a.expense = &prompt.ExpenseValues{Date: time.Now().Format(model.DateLayout)}
	a.formKind = formAdd
	a.form = prompt.ExpenseForm(a.expense).WithShowHelp(false)
	if a.width > 0 {
		a.form = a.form.WithWidth(a.contentWidth() - 4)
	}
	return a, a.form.Init()
}

func (a App) openBudgetForm() (tea.Model, tea.Cmd) {
	v := ""
	if a.ledger.HasBudget() {
		v = model.FormatAmount(a.ledger.Budget())
	}
	a.budget = &v
	a.formKind = formBudget
	a.form = prompt.BudgetForm(a.budget).WithShowHelp(false)
	if a.width > 0 {
		a.form = a.form.WithWidth(a.contentWidth() - 4)
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.applyForm()
		a.closeForm()
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		a.setMessage("Cancelled", false)
		return a, nil
	}

	return a, cmd
}

func (a *App) applyForm() {
	switch a.formKind {
	case formAdd:
		v := a.expense
		e, err := a.ledger.AddRaw(v.Date, v.Category, v.Amount, v.Description)
		if err != nil {
			a.setMessage(err.Error(), true)
			return
		}
		a.markChanged()
		a.refreshTable()
		a.table.GotoBottom()
		a.log.Debug("expense added", "date", e.Date, "category", e.Category, "amount", model.FormatAmount(e.Amount))
		a.setMessage("Expense added", false)

	case formBudget:
		b, err := model.ParseBudget(*a.budget)
		if err == nil {
			err = a.ledger.SetBudget(b)
		}
		if err != nil {
			a.setMessage(err.Error(), true)
			return
		}
		a.markChanged()
		a.log.Debug("budget set", "budget", model.FormatAmount(b))
		a.setMessage("Monthly budget set to "+cli.FormatMoney(b), false)
	}
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.expense = nil
	a.budget = nil
}

func (a *App) setMessage(s string, isError bool) {
	a.message = s
	a.isError = isError
}

func newTable() table.Model {
	t := theme.Active

	tbl := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(minContentHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Accent).
		Bold(true)
	s.Cell = s.Cell.Foreground(t.TextPrimary)
	s.Selected = s.Selected.
		Foreground(t.TextPrimary).
		Background(t.Selected).
		Bold(false)
	tbl.SetStyles(s)
	return tbl
}

// columns splits width between the four expense columns. Date and amount
// are fixed; category and description share the rest.
func columns(width int) []table.Column {
	const dateW, amountW = 10, 12
	rest := width - dateW - amountW - 8 // cell padding
	if rest < 20 {
		rest = 20
	}
	catW := rest / 3
	return []table.Column{
		{Title: "Date", Width: dateW},
		{Title: "Category", Width: catW},
		{Title: "Amount", Width: amountW},
		{Title: "Description", Width: rest - catW},
	}
}

func (a *App) refreshTable() {
	records := a.ledger.Records()
	rows := make([]table.Row, len(records))
	for i, e := range records {
		rows[i] = table.Row{
			e.Date,
			e.Category,
			fmt.Sprintf("%12s", cli.FormatMoney(e.Amount)),
			strings.ReplaceAll(e.Description, "\n", " "),
		}
	}
	a.table.SetRows(rows)
}

func (a *App) resizeTable() {
	a.table.SetColumns(columns(a.contentWidth() - 4))
	a.table.SetWidth(a.contentWidth() - 4)

	h := a.height - chromeHeight
	if a.help.ShowAll {
		h -= 3
	}
	if h < minContentHeight {
		h = minContentHeight
	}
	a.table.SetHeight(h)
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  spent needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}

	return a.viewMain()
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()

	logoStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(cw - 2)

	n := a.ledger.Len()
	header := logoStyle.Render("◈ spent") +
		mutedStyle.Render(fmt.Sprintf(" · %s %s", cli.FormatCount(n), cli.Plural(n, "expense")))

	barW := budgetBarWidth
	if barW > cw-8 {
		barW = cw - 8
	}
	budget := panelStyle.Render(components.BudgetPanel(a.ledger.BudgetStatus(), barW))

	var body string
	if a.form != nil {
		title := "Add expense"
		if a.formKind == formBudget {
			title = "Set monthly budget"
		}
		formStyle := panelStyle.BorderForeground(t.BorderAccent)
		body = formStyle.Render(logoStyle.Render(title) + "\n\n" + a.form.View() + "\n" +
			mutedStyle.Render("enter to confirm · esc to cancel"))
	} else if a.ledger.Len() == 0 {
		body = panelStyle.Render(mutedStyle.Render("No expenses recorded yet. Press a to add one."))
	} else {
		body = panelStyle.Render(a.table.View())
	}

	msg := ""
	if a.message != "" {
		style := lipgloss.NewStyle().Foreground(t.Good)
		if a.isError {
			style = lipgloss.NewStyle().Foreground(t.Bad)
		}
		msg = style.Render(" " + a.message)
	}

	status := components.RenderStatusBar(cw, a.help.View(a.keys), a.backend.Location(), a.Dirty())

	return lipgloss.JoinVertical(lipgloss.Left, header, budget, body, msg, status)
}
