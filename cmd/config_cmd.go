package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/spent/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Fprintln(out, "  Status: loaded")
	} else {
		fmt.Fprintln(out, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [General]")
	fmt.Fprintf(out, "    Data file:    %s%s\n", cfg.General.DataFile, source(config.EnvDataFile, "file"))
	fmt.Fprintf(out, "    Backend:      %s%s\n", cfg.General.Backend, source(config.EnvBackend, "backend"))
	fmt.Fprintf(out, "    Load policy:  %s%s\n", cfg.General.LoadPolicy, source(config.EnvLoadPolicy, "load-policy"))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Appearance]")
	fmt.Fprintf(out, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Log]")
	fmt.Fprintf(out, "    Level: %s%s\n", cfg.Log.Level, source(config.EnvLogLevel, ""))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Run `spent setup` to reconfigure.")
	return nil
}

// source names where a setting came from when it is not the config file.
func source(env, flag string) string {
	if flag != "" && rootCmd.PersistentFlags().Changed(flag) {
		return fmt.Sprintf("  (--%s)", flag)
	}
	if _, ok := os.LookupEnv(env); ok {
		return fmt.Sprintf("  ($%s)", env)
	}
	return ""
}
