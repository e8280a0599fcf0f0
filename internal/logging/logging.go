// Package logging configures the structured logger used by spent commands.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level.
// Unknown level names fall back to warn. quiet raises the level to error
// and verbose lowers it to debug; quiet wins when both are set.
func New(w io.Writer, level string, quiet, verbose bool) *log.Logger {
	lvl := ParseLevel(level)
	if verbose {
		lvl = log.DebugLevel
	}
	if quiet {
		lvl = log.ErrorLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "spent",
	})
}

// ParseLevel maps a config level name to a log.Level.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
