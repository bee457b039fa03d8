package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/textdiff"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	opts Options
}

// JSONComparisonData is the document written for a directory comparison
type JSONComparisonData struct {
	Status         string                   `json:"status"`
	LeftPath       string                   `json:"left_path"`
	RightPath      string                   `json:"right_path"`
	ComparisonTime string                   `json:"comparison_time"`
	Summary        models.ComparisonSummary `json:"summary"`
	Items          []models.ComparisonItem  `json:"items"`
}

// JSONDiffData is the document written for a text diff
type JSONDiffData struct {
	Status        string             `json:"status"`
	LeftFilePath  string             `json:"left_file_path"`
	RightFilePath string             `json:"right_file_path"`
	Summary       models.DiffSummary `json:"summary"`
	Hunks         []JSONHunkData     `json:"hunks"`
}

// JSONHunkData represents one hunk of a text diff
type JSONHunkData struct {
	LeftStart  int               `json:"left_start"`
	LeftCount  int               `json:"left_count"`
	RightStart int               `json:"right_start"`
	RightCount int               `json:"right_count"`
	Lines      []models.DiffLine `json:"lines"`
}

// JSONErrorData represents a failed operation
type JSONErrorData struct {
	Status string `json:"status"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts Options) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// Comparison writes the comparison document. Identical items are included
// only with ShowIdentical; the summary always counts them.
func (f *JSONFormatter) Comparison(w io.Writer, result *models.DirectoryComparisonResult) error {
	summary := result.Summary()
	status := models.RunEqual
	if summary.HasDifferences() {
		status = models.RunDifferent
	}

	items := make([]models.ComparisonItem, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Status == models.StatusIdentical && !f.opts.ShowIdentical {
			continue
		}
		items = append(items, item)
	}

	return encode(w, JSONComparisonData{
		Status:         string(status),
		LeftPath:       result.LeftPath,
		RightPath:      result.RightPath,
		ComparisonTime: result.ComparisonTime.Format(time.RFC3339),
		Summary:        summary,
		Items:          items,
	})
}

// Diff writes the diff document, grouped into hunks with ContextLines
func (f *JSONFormatter) Diff(w io.Writer, result *models.TextDiffResult) error {
	status := models.RunEqual
	if result.HasDifferences() {
		status = models.RunDifferent
	}

	hunks := make([]JSONHunkData, 0)
	if result.HasDifferences() {
		for _, h := range textdiff.Hunks(result.Lines, f.opts.ContextLines) {
			hunks = append(hunks, JSONHunkData{
				LeftStart:  h.LeftStart,
				LeftCount:  h.LeftCount,
				RightStart: h.RightStart,
				RightCount: h.RightCount,
				Lines:      h.Lines,
			})
		}
	}

	return encode(w, JSONDiffData{
		Status:        string(status),
		LeftFilePath:  result.LeftFilePath,
		RightFilePath: result.RightFilePath,
		Summary:       result.Summary,
		Hunks:         hunks,
	})
}

// Error writes an error document
func (f *JSONFormatter) Error(w io.Writer, err error) error {
	return encode(w, JSONErrorData{
		Status: string(models.StatusFromError(err)),
		Kind:   string(models.KindOf(err)),
		Error:  err.Error(),
	})
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
