// Package cmd implements the spent CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/spent/internal/cli"
	"github.com/theirongolddev/spent/internal/config"
	"github.com/theirongolddev/spent/internal/ledger"
	"github.com/theirongolddev/spent/internal/logging"
	"github.com/theirongolddev/spent/internal/store"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagFile       string
	flagBackend    string
	flagLoadPolicy string
	flagQuiet      bool
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "spent",
	Short:        "Personal expense tracker",
	Long:         "Record expenses, set a monthly budget, and track how much of it is left.",
	SilenceUsage: true,
	RunE:         runShell,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Data file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: csv or sqlite")
	rootCmd.PersistentFlags().StringVar(&flagLoadPolicy, "load-policy", "", "Malformed record handling: partial, skip or strict")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")
}

// session bundles what every data command needs.
type session struct {
	cfg     config.Config
	log     *log.Logger
	policy  store.LoadPolicy
	backend store.Backend

	// malformed is how many stored records the last load could not parse.
	malformed int
}

// loadConfig reads config and env, then applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if flagFile != "" {
		cfg.General.DataFile = config.ExpandPath(flagFile)
	}
	if flagBackend != "" {
		cfg.General.Backend = flagBackend
	}
	if flagLoadPolicy != "" {
		cfg.General.LoadPolicy = flagLoadPolicy
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, flagQuiet, flagVerbose)

	policy, err := store.ParsePolicy(cfg.General.LoadPolicy)
	if err != nil {
		return nil, err
	}
	backend, err := store.Open(store.Options{
		Backend: cfg.General.Backend,
		Path:    cfg.General.DataFile,
		Policy:  policy,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("using storage", "backend", cfg.General.Backend, "path", backend.Location(), "policy", policy)
	return &session{cfg: cfg, log: logger, policy: policy, backend: backend}, nil
}

// loadLedger loads the stored ledger. Malformed records are logged and the
// ledger assembled under the load policy is used, except under the strict
// policy where any malformed record fails the command.
func (s *session) loadLedger(ctx context.Context) (*ledger.Ledger, error) {
	res, err := s.backend.Load(ctx)
	if res == nil {
		return nil, fmt.Errorf("loading expenses: %w", err)
	}

	if res.Missing {
		s.log.Info("no saved data yet, starting empty", "path", s.backend.Location())
	}
	s.malformed = len(res.ParseErrors)
	for _, pe := range res.ParseErrors {
		s.log.Warn("malformed record", "path", s.backend.Location(), "line", pe.Line, "err", pe.Err)
	}

	if err != nil {
		var pe *store.ParseError
		if !errors.As(err, &pe) || s.policy == store.PolicyStrict {
			return nil, fmt.Errorf("loading expenses: %w", err)
		}
		s.log.Warn("continuing with the records that loaded; saving will drop the rest",
			"records", res.Ledger.Len())
	}

	s.log.Debug("loaded ledger", "records", res.Ledger.Len(), "budget", res.Ledger.Budget())
	return res.Ledger, nil
}

// loadLedgerForUpdate is loadLedger for one-shot commands that save right
// away. A file with malformed records is refused, since saving would drop
// them, unless --load-policy was given to accept that.
func (s *session) loadLedgerForUpdate(ctx context.Context) (*ledger.Ledger, error) {
	l, err := s.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	if s.malformed > 0 && flagLoadPolicy == "" {
		return nil, fmt.Errorf("%s has %d %s that saving would drop; fix the file or pass --load-policy %s to save anyway",
			s.backend.Location(), s.malformed, cli.Plural(s.malformed, "malformed record"), s.policy)
	}
	return l, nil
}

func (s *session) saveLedger(ctx context.Context, l *ledger.Ledger) error {
	if err := s.backend.Save(ctx, l); err != nil {
		return fmt.Errorf("saving expenses: %w", err)
	}
	s.log.Info("saved", "path", s.backend.Location(), "records", l.Len())
	return nil
}
