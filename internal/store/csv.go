package store

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/spent/internal/ledger"
	"github.com/theirongolddev/spent/internal/model"

	"github.com/shopspring/decimal"
)

// BudgetLabel is the first field of the budget line.
const BudgetLabel = "Monthly Budget"

// Header is the column row that precedes the records.
var Header = []string{"date", "category", "amount", "description"}

// CSVFile stores a ledger in a single delimited text file:
//
//	Monthly Budget,<budget>
//	date,category,amount,description
//	<date>,<category>,<amount>,<description>
type CSVFile struct {
	path   string
	policy LoadPolicy
}

// NewCSVFile returns a CSV backend for path.
func NewCSVFile(path string, policy LoadPolicy) *CSVFile {
	return &CSVFile{path: path, policy: policy}
}

// Location returns the file path.
func (c *CSVFile) Location() string {
	return c.path
}

// Load reads the file. A missing file is an empty ledger.
func (c *CSVFile) Load(ctx context.Context) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &LoadResult{Ledger: ledger.New(), Missing: true}, nil
		}
		return nil, &IOError{Op: "open", Path: c.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	res, err := Decode(f, c.policy)
	if err != nil {
		return nil, &IOError{Op: "read", Path: c.path, Err: err}
	}
	return res, res.Err()
}

// Save truncates the file and writes l to it.
func (c *CSVFile) Save(ctx context.Context, l *ledger.Ledger) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return &IOError{Op: "create dir", Path: dir, Err: err}
		}
	}

	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return &IOError{Op: "create", Path: c.path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: c.path, Err: cerr}
		}
	}()

	if err := Encode(f, l); err != nil {
		return &IOError{Op: "write", Path: c.path, Err: err}
	}
	return nil
}

// Encode writes l in the flat-file format.
func Encode(w io.Writer, l *ledger.Ledger) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)

	if err := cw.Write([]string{BudgetLabel, model.FormatAmount(l.Budget())}); err != nil {
		return err
	}
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range l.Records() {
		row := []string{e.Date, e.Category, model.FormatAmount(e.Amount), e.Description}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// Decode parses the flat-file format, applying policy to malformed records.
// The returned error is non-nil only when r itself fails; format problems are
// reported in LoadResult.ParseErrors.
func Decode(r io.Reader, policy LoadPolicy) (*LoadResult, error) {
	rs := newRestorer(policy)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	// Budget line. An empty file is an empty ledger.
	row, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return rs.result(), nil
	}
	if err != nil {
		if line, ok := csvErrorLine(err); ok {
			rs.fail(line, err)
			return rs.result(), nil
		}
		return nil, err
	}
	if strings.TrimSpace(row[0]) != BudgetLabel {
		rs.fail(1, fmt.Errorf("expected %q label, got %q", BudgetLabel, row[0]))
		return rs.result(), nil
	}
	if len(row) > 1 {
		budget, err := parseStoredBudget(row[1])
		if err != nil {
			rs.fail(1, err)
			return rs.result(), nil
		}
		if budget.IsPositive() {
			_ = rs.ledger.SetBudget(budget)
		}
	}

	// Header row.
	row, err = cr.Read()
	if errors.Is(err, io.EOF) {
		return rs.result(), nil
	}
	if err != nil {
		if line, ok := csvErrorLine(err); ok {
			rs.fail(line, err)
			return rs.result(), nil
		}
		return nil, err
	}
	if !isHeader(row) {
		line, _ := cr.FieldPos(0)
		rs.fail(line, fmt.Errorf("expected header %q, got %q",
			strings.Join(Header, ","), strings.Join(row, ",")))
		return rs.result(), nil
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, ok := csvErrorLine(err)
			if !ok {
				return nil, err
			}
			if !rs.fail(line, err) {
				break
			}
			continue
		}

		line, _ := cr.FieldPos(0)
		if len(row) != len(Header) {
			if !rs.fail(line, fmt.Errorf("expected %d fields, got %d", len(Header), len(row))) {
				break
			}
			continue
		}
		if !rs.add(line, row[0], row[1], row[2], row[3]) {
			break
		}
	}

	return rs.result(), nil
}

func parseStoredBudget(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, &model.ValidationError{Field: "budget", Value: s, Err: model.ErrInvalidBudget}
	}
	return d, nil
}

func isHeader(row []string) bool {
	if len(row) != len(Header) {
		return false
	}
	for i, h := range Header {
		if strings.TrimSpace(row[i]) != h {
			return false
		}
	}
	return true
}

func csvErrorLine(err error) (int, bool) {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine, true
	}
	return 0, false
}
