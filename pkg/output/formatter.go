// Package output renders comparison results and text diffs for terminals
// and scripts.
package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/differ/pkg/models"
)

// Options controls how results are rendered
type Options struct {
	// ShowIdentical lists identical items, which are hidden by default
	ShowIdentical bool

	// Color enables ANSI styling in human output
	Color bool

	// ContextLines is the number of unchanged lines around each diff hunk.
	// Negative shows the whole file.
	ContextLines int
}

// Formatter defines the interface for output formatting.
// Implementations include human-readable and JSON formatters.
type Formatter interface {
	// Comparison renders a directory comparison
	Comparison(w io.Writer, result *models.DirectoryComparisonResult) error

	// Diff renders a text diff
	Diff(w io.Writer, result *models.TextDiffResult) error

	// Error renders a failed or cancelled operation
	Error(w io.Writer, err error) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter for name: "human" or "unified" for
// text, "json" for machine-readable output
func NewFormatter(name string, opts Options) (Formatter, error) {
	switch name {
	case "", "human", "unified":
		return NewHumanFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use: human, unified, json)", name)
	}
}
