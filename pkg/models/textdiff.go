package models

// TextDiffRequest describes a diff between two text files
type TextDiffRequest struct {
	LeftFilePath     string `json:"left_file_path"`
	RightFilePath    string `json:"right_file_path"`
	IgnoreWhitespace bool   `json:"ignore_whitespace"`
	IgnoreCase       bool   `json:"ignore_case"`

	// ContextLines is the number of unchanged lines renderers keep around
	// changes. The diff engine itself always returns every line.
	ContextLines int `json:"context_lines"`
}

// LineChangeKind describes how a diff row changed
type LineChangeKind string

const (
	// ChangeUnchanged indicates the line is the same on both sides
	ChangeUnchanged LineChangeKind = "unchanged"
	// ChangeAdded indicates the line exists only on the right
	ChangeAdded LineChangeKind = "added"
	// ChangeRemoved indicates the line exists only on the left
	ChangeRemoved LineChangeKind = "removed"
	// ChangeModified indicates a left line replaced by a right line
	ChangeModified LineChangeKind = "modified"
)

// DiffLine is one row of diff output. Line numbers are 1-based.
type DiffLine struct {
	Kind            LineChangeKind `json:"kind"`
	LeftLineNumber  *int           `json:"left_line_number,omitempty"`
	LeftText        *string        `json:"left_text,omitempty"`
	RightLineNumber *int           `json:"right_line_number,omitempty"`
	RightText       *string        `json:"right_text,omitempty"`
}

// DiffSummary holds row counts for a diff
type DiffSummary struct {
	TotalLines     int `json:"total_lines"`
	UnchangedLines int `json:"unchanged_lines"`
	AddedLines     int `json:"added_lines"`
	RemovedLines   int `json:"removed_lines"`
	ModifiedLines  int `json:"modified_lines"`
}

// TextDiffResult is the complete result of a text diff
type TextDiffResult struct {
	LeftFilePath  string      `json:"left_file_path"`
	RightFilePath string      `json:"right_file_path"`
	Lines         []DiffLine  `json:"lines"`
	Summary       DiffSummary `json:"summary"`
}

// HasDifferences reports whether any row was added, removed or modified
func (r *TextDiffResult) HasDifferences() bool {
	return r.Summary.AddedLines+r.Summary.RemovedLines+r.Summary.ModifiedLines > 0
}
