package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/theirongolddev/spent/internal/tui"
	"github.com/theirongolddev/spent/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	l, err := s.loadLedger(ctx)
	if err != nil {
		return err
	}

	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor so background styling survives terminals that
	// under-report their capabilities.
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Hold log lines while the alt screen owns the terminal.
	var logBuf bytes.Buffer
	tuiLog := s.log.With()
	tuiLog.SetOutput(&logBuf)

	app := tui.NewApp(ctx, s.backend, l, tuiLog)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	_, _ = os.Stderr.Write(logBuf.Bytes())
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if a, ok := final.(tui.App); ok && a.Dirty() {
		s.log.Warn("quit without saving; unsaved changes were discarded")
	}
	return nil
}
