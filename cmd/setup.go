package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/spent/internal/config"
	"github.com/theirongolddev/spent/internal/prompt"
	"github.com/theirongolddev/spent/internal/tui/theme"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	v := prompt.SetupValues{
		DataFile:   cfg.General.DataFile,
		Backend:    strings.ToLower(cfg.General.Backend),
		LoadPolicy: strings.ToLower(cfg.General.LoadPolicy),
		Theme:      cfg.Appearance.Theme,
	}
	if err := prompt.SetupForm(&v, theme.Names()).Run(); err != nil {
		if prompt.Aborted(err) {
			return errors.New("setup cancelled, nothing saved")
		}
		return err
	}

	cfg.General.DataFile = config.ExpandPath(strings.TrimSpace(v.DataFile))
	cfg.General.Backend = v.Backend
	cfg.General.LoadPolicy = v.LoadPolicy
	cfg.Appearance.Theme = v.Theme
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Saved to %s\n", config.Path())
	fmt.Fprintln(out, "  Run `spent setup` anytime to reconfigure.")
	fmt.Fprintln(out)
	return nil
}
