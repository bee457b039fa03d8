package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/textdiff"
)

// styles groups the lipgloss styles used by the human formatter
type styles struct {
	header    lipgloss.Style
	hunk      lipgloss.Style
	added     lipgloss.Style
	removed   lipgloss.Style
	different lipgloss.Style
	errored   lipgloss.Style
	muted     lipgloss.Style
}

func newStyles() styles {
	// Diff lines keep their tabs
	base := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return styles{
		header:    base.Bold(true),
		hunk:      base.Foreground(lipgloss.Color("6")),
		added:     base.Foreground(lipgloss.Color("2")),
		removed:   base.Foreground(lipgloss.Color("1")),
		different: base.Foreground(lipgloss.Color("3")),
		errored:   base.Foreground(lipgloss.Color("1")).Bold(true),
		muted:     base.Faint(true),
	}
}

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	opts   Options
	styles styles
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(opts Options) *HumanFormatter {
	return &HumanFormatter{
		opts:   opts,
		styles: newStyles(),
	}
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// paint styles s when color is enabled
func (f *HumanFormatter) paint(style lipgloss.Style, s string) string {
	if !f.opts.Color {
		return s
	}
	return style.Render(s)
}

var statusLabels = map[models.ComparisonStatus]string{
	models.StatusIdentical: "= identical ",
	models.StatusDifferent: "~ different ",
	models.StatusLeftOnly:  "< left only ",
	models.StatusRightOnly: "> right only",
	models.StatusError:     "! error     ",
}

// Comparison lists every non-identical item followed by a summary
func (f *HumanFormatter) Comparison(w io.Writer, result *models.DirectoryComparisonResult) error {
	fmt.Fprintf(w, "%s\n", f.paint(f.styles.header, fmt.Sprintf("Comparing %s", result.LeftPath)))
	fmt.Fprintf(w, "%s\n\n", f.paint(f.styles.header, fmt.Sprintf("     with %s", result.RightPath)))

	listed := 0
	for i := range result.Items {
		item := &result.Items[i]
		if item.Status == models.StatusIdentical && !f.opts.ShowIdentical {
			continue
		}
		listed++
		fmt.Fprintf(w, "  %s\n", f.itemLine(item))
	}
	if listed == 0 {
		fmt.Fprintf(w, "  %s\n", f.paint(f.styles.muted, "No differences found"))
	}

	summary := result.Summary()
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Total:       %d\n", summary.TotalItems)
	fmt.Fprintf(w, "  Identical:   %d\n", summary.IdenticalItems)
	fmt.Fprintf(w, "  Different:   %d\n", summary.DifferentItems)
	fmt.Fprintf(w, "  Left only:   %d\n", summary.LeftOnlyItems)
	fmt.Fprintf(w, "  Right only:  %d\n", summary.RightOnlyItems)
	fmt.Fprintf(w, "  Errors:      %d\n", summary.ErrorItems)
	fmt.Fprintf(w, "\n")

	status := models.RunEqual
	if summary.HasDifferences() {
		status = models.RunDifferent
	}
	fmt.Fprintf(w, "Status: %s\n", status)

	return nil
}

func (f *HumanFormatter) itemLine(item *models.ComparisonItem) string {
	path := item.RelativePath
	if item.IsDirectory() {
		path += "/"
	}

	label := statusLabels[item.Status]
	var line string
	switch item.Status {
	case models.StatusDifferent:
		line = f.paint(f.styles.different, label) + "  " + path + f.sizes(item)
	case models.StatusLeftOnly:
		line = f.paint(f.styles.removed, label) + "  " + path
	case models.StatusRightOnly:
		line = f.paint(f.styles.added, label) + "  " + path
	case models.StatusError:
		line = f.paint(f.styles.errored, label) + "  " + path + ": " + item.ErrorMessage
	default:
		line = f.paint(f.styles.muted, label) + "  " + path
	}
	return line
}

// sizes annotates a differing file pair with both sizes
func (f *HumanFormatter) sizes(item *models.ComparisonItem) string {
	if item.Left == nil || item.Right == nil || item.Left.IsDirectory || item.Right.IsDirectory {
		return ""
	}
	return f.paint(f.styles.muted, fmt.Sprintf("  (%s / %s)",
		formatBytes(item.Left.FileSize()), formatBytes(item.Right.FileSize())))
}

// Diff writes a unified diff of the result
func (f *HumanFormatter) Diff(w io.Writer, result *models.TextDiffResult) error {
	fmt.Fprintf(w, "%s\n", f.paint(f.styles.header, "--- "+result.LeftFilePath))
	fmt.Fprintf(w, "%s\n", f.paint(f.styles.header, "+++ "+result.RightFilePath))

	if !result.HasDifferences() {
		fmt.Fprintf(w, "%s\n", f.paint(f.styles.muted, "No differences found"))
	} else {
		for _, hunk := range textdiff.Hunks(result.Lines, f.opts.ContextLines) {
			f.writeHunk(w, hunk)
		}
	}

	s := result.Summary
	fmt.Fprintf(w, "\n%d unchanged, %s, %s, %s\n",
		s.UnchangedLines,
		f.paint(f.styles.added, fmt.Sprintf("%d added", s.AddedLines)),
		f.paint(f.styles.removed, fmt.Sprintf("%d removed", s.RemovedLines)),
		f.paint(f.styles.different, fmt.Sprintf("%d modified", s.ModifiedLines)))

	return nil
}

func (f *HumanFormatter) writeHunk(w io.Writer, hunk textdiff.Hunk) {
	header := fmt.Sprintf("@@ -%s +%s @@", hunkRange(hunk.LeftStart, hunk.LeftCount), hunkRange(hunk.RightStart, hunk.RightCount))
	fmt.Fprintf(w, "%s\n", f.paint(f.styles.hunk, header))

	for _, line := range hunk.Lines {
		switch line.Kind {
		case models.ChangeUnchanged:
			fmt.Fprintf(w, " %s\n", deref(line.LeftText))
		case models.ChangeRemoved:
			fmt.Fprintf(w, "%s\n", f.paint(f.styles.removed, "-"+deref(line.LeftText)))
		case models.ChangeAdded:
			fmt.Fprintf(w, "%s\n", f.paint(f.styles.added, "+"+deref(line.RightText)))
		case models.ChangeModified:
			fmt.Fprintf(w, "%s\n", f.paint(f.styles.removed, "-"+deref(line.LeftText)))
			fmt.Fprintf(w, "%s\n", f.paint(f.styles.added, "+"+deref(line.RightText)))
		}
	}
}

func hunkRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// Error reports a failure. Cancellation is neutral, guard rails point to an
// external tool.
func (f *HumanFormatter) Error(w io.Writer, err error) error {
	switch {
	case models.IsCancelled(err):
		fmt.Fprintf(w, "%s\n", f.paint(f.styles.muted, "Cancelled: "+err.Error()))
	case models.IsGuardRail(err):
		fmt.Fprintf(w, "%s\n", f.paint(f.styles.different, err.Error()))
		fmt.Fprintf(w, "Hint: compare these files with an external diff tool.\n")
	default:
		fmt.Fprintf(w, "%s\n", f.paint(f.styles.errored, "Error: "+err.Error()))
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
