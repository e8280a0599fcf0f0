// Package store persists a ledger to a flat CSV file or a SQLite database.
//
// Backends are stateless: every Load builds a fresh ledger and every Save
// rewrites the whole target.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/spent/internal/ledger"
)

// Backend names accepted by Open.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Backend loads and saves a complete ledger.
type Backend interface {
	// Load reads the stored ledger. A missing target yields an empty
	// ledger and no error.
	Load(ctx context.Context) (*LoadResult, error)
	// Save overwrites the target with l.
	Save(ctx context.Context, l *ledger.Ledger) error
	// Location describes where the data lives, for messages.
	Location() string
}

// LoadPolicy decides what happens to a ledger when stored records are malformed.
type LoadPolicy string

const (
	// PolicyPartial stops at the first bad record and keeps what came before.
	PolicyPartial LoadPolicy = "partial"
	// PolicySkip drops each bad record and keeps loading.
	PolicySkip LoadPolicy = "skip"
	// PolicyStrict discards everything when any record is bad.
	PolicyStrict LoadPolicy = "strict"
)

// Policies lists every valid LoadPolicy.
var Policies = []LoadPolicy{PolicyPartial, PolicySkip, PolicyStrict}

// ParsePolicy converts a config string to a LoadPolicy.
func ParsePolicy(s string) (LoadPolicy, error) {
	switch p := LoadPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyPartial, PolicySkip, PolicyStrict:
		return p, nil
	case "":
		return PolicyPartial, nil
	default:
		return "", fmt.Errorf("unknown load policy %q (want partial, skip or strict)", s)
	}
}

// LoadResult is the outcome of a load. Ledger is never nil.
type LoadResult struct {
	Ledger      *ledger.Ledger
	ParseErrors []*ParseError
	Missing     bool // target did not exist
}

// Err combines the parse errors, or returns nil when there were none.
func (r *LoadResult) Err() error {
	if len(r.ParseErrors) == 0 {
		return nil
	}
	errs := make([]error, len(r.ParseErrors))
	for i, pe := range r.ParseErrors {
		errs[i] = pe
	}
	return errors.Join(errs...)
}

// IOError reports a failure to open, read, write or close the backing store.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports a stored record that could not be restored.
// Line is the 1-based line number for CSV files, or the row sequence for SQLite.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options configures Open.
type Options struct {
	Backend string
	Path    string
	Policy  LoadPolicy
}

// Open returns the backend named by opts.Backend.
func Open(opts Options) (Backend, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendCSV, "":
		return NewCSVFile(opts.Path, opts.Policy), nil
	case BackendSQLite:
		return NewSQLite(opts.Path, opts.Policy), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want csv or sqlite)", opts.Backend)
	}
}

// restorer applies a LoadPolicy while records are replayed into a ledger.
type restorer struct {
	policy LoadPolicy
	ledger *ledger.Ledger
	errs   []*ParseError
}

func newRestorer(policy LoadPolicy) *restorer {
	if policy == "" {
		policy = PolicyPartial
	}
	return &restorer{policy: policy, ledger: ledger.New()}
}

// fail records a parse error and reports whether loading should continue.
func (r *restorer) fail(line int, err error) bool {
	r.errs = append(r.errs, &ParseError{Line: line, Err: err})
	return r.policy == PolicySkip
}

// add replays one record, reporting whether loading should continue.
func (r *restorer) add(line int, date, category, amount, description string) bool {
	if _, err := r.ledger.AddRaw(date, category, amount, description); err != nil {
		return r.fail(line, err)
	}
	return true
}

func (r *restorer) result() *LoadResult {
	res := &LoadResult{Ledger: r.ledger, ParseErrors: r.errs}
	if r.policy == PolicyStrict && len(r.errs) > 0 {
		res.Ledger = ledger.New()
	}
	return res
}
