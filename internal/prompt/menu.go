package prompt

import (
	"errors"
	"strings"

	"github.com/theirongolddev/spent/internal/store"

	"github.com/charmbracelet/huh"
)

// Action is a main menu choice.
type Action int

const (
	ActionAdd Action = iota + 1
	ActionView
	ActionTrack
	ActionSetBudget
	ActionSave
	ActionExit
)

var actionLabels = []struct {
	action Action
	label  string
}{
	{ActionAdd, "Add expense"},
	{ActionView, "View expenses"},
	{ActionTrack, "Track budget"},
	{ActionSetBudget, "Set budget"},
	{ActionSave, "Save expenses"},
	{ActionExit, "Exit"},
}

func (a Action) String() string {
	for _, al := range actionLabels {
		if al.action == a {
			return al.label
		}
	}
	return "unknown"
}

// MenuForm asks the user to pick the next action.
func MenuForm(choice *Action) *huh.Form {
	opts := make([]huh.Option[Action], 0, len(actionLabels))
	for _, al := range actionLabels {
		opts = append(opts, huh.NewOption(al.label, al.action))
	}
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[Action]().
			Title("What would you like to do?").
			Options(opts...).
			Value(choice),
	)).WithTheme(huh.ThemeCharm())
}

// SetupValues holds the choices made in the setup wizard.
type SetupValues struct {
	DataFile   string
	Backend    string
	LoadPolicy string
	Theme      string
}

// SetupForm builds the first-run wizard. themes lists selectable theme names.
func SetupForm(v *SetupValues, themes []string) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(themes))
	for _, name := range themes {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}
	policyOpts := make([]huh.Option[string], 0, len(store.Policies))
	for _, p := range store.Policies {
		policyOpts = append(policyOpts, huh.NewOption(policyLabel(p), string(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to spent!").
				Description("A few settings and you're ready to track expenses."),
			huh.NewInput().
				Title("Data file").
				Description("Where expenses and the budget are stored.").
				Value(&v.DataFile).
				Validate(validatePath),
			huh.NewSelect[string]().
				Title("Storage format").
				Options(
					huh.NewOption("CSV file", store.BackendCSV),
					huh.NewOption("SQLite database", store.BackendSQLite),
				).
				Value(&v.Backend),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("When a stored row is malformed").
				Options(policyOpts...).
				Value(&v.LoadPolicy),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
	).WithTheme(huh.ThemeCharm())
}

func validatePath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("data file cannot be empty")
	}
	return nil
}

func policyLabel(p store.LoadPolicy) string {
	switch p {
	case store.PolicySkip:
		return "Skip it and keep loading"
	case store.PolicyStrict:
		return "Refuse to load anything"
	default:
		return "Keep rows before it"
	}
}
