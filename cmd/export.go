package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/spent/internal/cli"
	"github.com/theirongolddev/spent/internal/config"
	"github.com/theirongolddev/spent/internal/store"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write all expenses and the budget to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	l, err := s.loadLedger(ctx)
	if err != nil {
		return err
	}

	dst := store.NewCSVFile(config.ExpandPath(args[0]), s.policy)
	if samePath(dst.Location(), s.backend.Location()) {
		return fmt.Errorf("export target %s is the data file itself", dst.Location())
	}
	if err := dst.Save(ctx, l); err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  Exported %s %s to %s\n",
		cli.FormatCount(l.Len()), cli.Plural(l.Len(), "expense"), dst.Location())
	return nil
}

// samePath reports whether a and b name the same file, through relative
// paths or links.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
