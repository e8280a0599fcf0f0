package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// run executes the root command with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	flagFile, flagBackend, flagLoadPolicy = "", "", ""
	flagQuiet, flagVerbose = false, false
	flagAddDate, flagAddCategory, flagAddAmount, flagAddDescription = "", "", "", ""
	flagListCategory, flagListSince, flagListUntil = "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"-q"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"SPENT_DATA_FILE", "SPENT_BACKEND", "SPENT_LOAD_POLICY", "SPENT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestAddListBudgetFlow(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "expenses.csv")

	adds := [][]string{
		{"--date", "2024-03-01", "--category", "Food", "--amount", "12.50", "--description", "Lunch"},
		{"--date", "2024-03-02", "--category", "Travel", "--amount", "100", "--description", "Train, return"},
		{"--date", "2024-03-05", "--category", "Food", "--amount", "7.25", "--description", "Coffee beans"},
	}
	for _, a := range adds {
		out, err := run(t, append([]string{"add", "-f", file}, a...)...)
		if err != nil {
			t.Fatalf("add %v: %v\n%s", a, err, out)
		}
		if !strings.Contains(out, "Added") {
			t.Errorf("add output = %q", out)
		}
	}

	out, err := run(t, "list", "-f", file)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"3 expenses", "Lunch", "Train, return", "$119.75", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "list", "-f", file, "--category", "food", "--since", "2024-03-02")
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if !strings.Contains(out, "1 expense") || !strings.Contains(out, "$7.25") || strings.Contains(out, "Lunch") {
		t.Errorf("filtered list:\n%s", out)
	}

	out, err = run(t, "budget", "-f", file)
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if !strings.Contains(out, "No monthly budget set") {
		t.Errorf("unset budget output:\n%s", out)
	}

	if _, err := run(t, "budget", "set", "100", "-f", file); err != nil {
		t.Fatalf("budget set: %v", err)
	}
	out, err = run(t, "budget", "-f", file)
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if !strings.Contains(out, "WARNING: You have exceeded your budget!") || !strings.Contains(out, "$19.75") {
		t.Errorf("over budget output:\n%s", out)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "Monthly Budget,100.00\ndate,category,amount,description\n") {
		t.Errorf("file starts with %q", string(data))
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "expenses.csv")

	if _, err := run(t, "add", "-f", file, "--date", "2024-02-30", "-c", "Food", "-a", "5", "-d", "x"); err == nil {
		t.Error("impossible date accepted")
	}
	if _, err := run(t, "add", "-f", file, "-c", "Food", "-a", "-5", "-d", "x"); err == nil {
		t.Error("negative amount accepted")
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("rejected add still wrote the data file")
	}
}

func TestAddWithoutTerminalNamesMissingFlags(t *testing.T) {
	if stdinIsTerminal() {
		t.Skip("stdin is a terminal")
	}
	dir := isolate(t)

	_, err := run(t, "add", "-f", filepath.Join(dir, "expenses.csv"), "--category", "Food")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "--amount, --description") {
		t.Errorf("err = %v", err)
	}
}

func TestExportWritesCSVFromSQLite(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "spent.db")
	dst := filepath.Join(dir, "out", "export.csv")

	if _, err := run(t, "add", "-f", db, "--backend", "sqlite", "--date", "2024-03-01", "-c", "Food", "-a", "3", "-d", "Tea"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := run(t, "export", dst, "-f", db, "--backend", "sqlite")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported 1 expense") {
		t.Errorf("export output = %q", out)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	want := "Monthly Budget,0.00\ndate,category,amount,description\n2024-03-01,Food,3.00,Tea\n"
	if string(data) != want {
		t.Errorf("export =\n%s\nwant\n%s", data, want)
	}

	if _, err := run(t, "export", db, "-f", db, "--backend", "sqlite"); err == nil {
		t.Error("export over the data file was allowed")
	}
}

func TestStrictPolicyFailsOnMalformedFile(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "expenses.csv")
	content := "Monthly Budget,50.00\ndate,category,amount,description\n2024-03-01,Food,5.00,Tea\n2024-03-02,Food,abc,Bad\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "list", "-f", file, "--load-policy", "strict"); err == nil {
		t.Error("strict policy loaded a malformed file")
	}

	out, err := run(t, "list", "-f", file)
	if err != nil {
		t.Fatalf("partial list: %v", err)
	}
	if !strings.Contains(out, "Tea") || strings.Contains(out, "Bad") {
		t.Errorf("partial list:\n%s", out)
	}
}

func TestInvalidConfigFlag(t *testing.T) {
	isolate(t)
	if _, err := run(t, "list", "--backend", "postgres"); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestExportRefusesDataFileAliases(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "expenses.csv")
	if _, err := run(t, "add", "-f", file, "--date", "2024-03-01", "-c", "Food", "-a", "3", "-d", "Tea"); err != nil {
		t.Fatalf("add: %v", err)
	}
	link := filepath.Join(dir, "link.csv")
	if err := os.Symlink(file, link); err != nil {
		t.Fatal(err)
	}
	chdirForTest(t, dir)

	for _, target := range []string{"./expenses.csv", filepath.Join(dir, "sub", "..", "expenses.csv"), link} {
		if _, err := run(t, "export", target, "-f", file); err == nil {
			t.Errorf("export to %s overwrote the data file", target)
		}
	}
}

func TestMutatingCommandsRefuseMalformedFile(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "expenses.csv")
	content := "Monthly Budget,50.00\ndate,category,amount,description\n2024-03-01,Food,5.00,Tea\n2024-03-02,Food,abc,Bad\n2024-03-03,Food,6.00,Cake\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "add", "-f", file, "--date", "2024-03-04", "-c", "Food", "-a", "1", "-d", "Gum")
	if err == nil || !strings.Contains(err.Error(), "1 malformed record") {
		t.Errorf("add err = %v", err)
	}
	if _, err := run(t, "budget", "set", "80", "-f", file); err == nil {
		t.Error("budget set saved over a malformed file")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("file rewritten:\n%s", data)
	}

	if _, err := run(t, "add", "-f", file, "--load-policy", "skip", "--date", "2024-03-04", "-c", "Food", "-a", "1", "-d", "Gum"); err != nil {
		t.Fatalf("add with explicit policy: %v", err)
	}
	out, err := run(t, "list", "-f", file)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"Tea", "Cake", "Gum"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q:\n%s", want, out)
		}
	}
}
