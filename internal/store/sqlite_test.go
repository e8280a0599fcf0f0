package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/spent/internal/ledger"
	"github.com/theirongolddev/spent/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := sampleLedger(t)

	b := NewSQLite(filepath.Join(t.TempDir(), "db", "spent.db"), PolicyPartial)
	if err := b.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Saving twice must replace, not append.
	if err := b.Save(ctx, want); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	res, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !res.Ledger.Budget().Equal(want.Budget()) {
		t.Errorf("budget = %s, want %s", res.Ledger.Budget(), want.Budget())
	}
	if diff := cmp.Diff(want.Records(), res.Ledger.Records(), decimalEq); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteLoadMissing(t *testing.T) {
	b := NewSQLite(filepath.Join(t.TempDir(), "missing.db"), PolicyPartial)
	res, err := b.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !res.Missing || res.Ledger.Len() != 0 {
		t.Errorf("Missing = %v, Len = %d", res.Missing, res.Ledger.Len())
	}
}

func TestSQLiteLoadPolicies(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "spent.db")
	b := NewSQLite(path, PolicyPartial)

	l := ledger.New()
	for _, d := range []string{"a", "b", "c", "d"} {
		if _, err := l.AddRaw("2025-01-01", "Food", "1.00", d); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.Save(ctx, l); err != nil {
		t.Fatal(err)
	}

	// Corrupt the third row behind the backend's back.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE expenses SET amount = 'oops' WHERE seq = 3"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	tests := []struct {
		policy LoadPolicy
		want   int
	}{
		{PolicyPartial, 2},
		{PolicySkip, 3},
		{PolicyStrict, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			res, err := NewSQLite(path, tt.policy).Load(ctx)
			if !errors.Is(err, model.ErrInvalidAmount) {
				t.Fatalf("Load error = %v, want ErrInvalidAmount", err)
			}
			if res.Ledger.Len() != tt.want {
				t.Errorf("Len = %d, want %d", res.Ledger.Len(), tt.want)
			}
			if res.ParseErrors[0].Line != 3 {
				t.Errorf("ParseError.Line = %d, want 3", res.ParseErrors[0].Line)
			}
		})
	}
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		want    string
		ok      bool
	}{
		{"", "*store.CSVFile", true},
		{"csv", "*store.CSVFile", true},
		{"SQLite", "*store.SQLite", true},
		{"postgres", "", false},
	}
	for _, tt := range tests {
		b, err := Open(Options{Backend: tt.backend, Path: filepath.Join(dir, "x"), Policy: PolicyPartial})
		if !tt.ok {
			if err == nil {
				t.Errorf("Open(%q) expected error", tt.backend)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Open(%q): %v", tt.backend, err)
		}
		switch b.(type) {
		case *CSVFile:
			if tt.want != "*store.CSVFile" {
				t.Errorf("Open(%q) = %T, want %s", tt.backend, b, tt.want)
			}
		case *SQLite:
			if tt.want != "*store.SQLite" {
				t.Errorf("Open(%q) = %T, want %s", tt.backend, b, tt.want)
			}
		}
	}
}
