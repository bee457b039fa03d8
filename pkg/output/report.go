package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/differ/pkg/models"
)

// WriteReport writes the non-identical items of result to a file.
// Format can be "human" or "json". Nothing is written when the trees match.
func WriteReport(result *models.DirectoryComparisonResult, path string, format string) error {
	if !result.Summary().HasDifferences() {
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		err = writeReportJSON(result, file)
	default:
		err = writeReportHuman(result, file)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

var reportOrder = []models.ComparisonStatus{
	models.StatusError,
	models.StatusLeftOnly,
	models.StatusRightOnly,
	models.StatusDifferent,
}

var reportLabels = map[models.ComparisonStatus]string{
	models.StatusError:     "Errors",
	models.StatusLeftOnly:  "Only in Left",
	models.StatusRightOnly: "Only in Right",
	models.StatusDifferent: "Different",
}

// writeReportHuman writes the report grouped by status
func writeReportHuman(result *models.DirectoryComparisonResult, w io.Writer) error {
	fmt.Fprintf(w, "Differences Report\n")
	fmt.Fprintf(w, "==================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", result.ComparisonTime.Format(time.RFC3339))
	fmt.Fprintf(w, "Left: %s\n", result.LeftPath)
	fmt.Fprintf(w, "Right: %s\n\n", result.RightPath)

	byStatus := make(map[models.ComparisonStatus][]models.ComparisonItem)
	total := 0
	for _, item := range result.Items {
		if item.Status == models.StatusIdentical {
			continue
		}
		byStatus[item.Status] = append(byStatus[item.Status], item)
		total++
	}

	fmt.Fprintf(w, "Total Differences: %d\n\n", total)

	for _, status := range reportOrder {
		items := byStatus[status]
		if len(items) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d items)", reportLabels[status], len(items))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))

		for _, item := range items {
			fmt.Fprintf(w, "  %s\n", item.RelativePath)
			if item.ErrorMessage != "" {
				fmt.Fprintf(w, "    Details: %s\n", item.ErrorMessage)
			}
			if item.Left != nil && !item.Left.IsDirectory {
				fmt.Fprintf(w, "    Left:    %s, modified %s\n", formatBytes(item.Left.FileSize()), item.Left.LastModified.Format(time.RFC3339))
			}
			if item.Right != nil && !item.Right.IsDirectory {
				fmt.Fprintf(w, "    Right:   %s, modified %s\n", formatBytes(item.Right.FileSize()), item.Right.LastModified.Format(time.RFC3339))
			}
		}

		fmt.Fprintf(w, "\n")
	}

	return nil
}

// writeReportJSON writes the report in JSON format
func writeReportJSON(result *models.DirectoryComparisonResult, w io.Writer) error {
	var differences []models.ComparisonItem
	for _, item := range result.Items {
		if item.Status != models.StatusIdentical {
			differences = append(differences, item)
		}
	}

	report := struct {
		Generated   string                  `json:"generated"`
		LeftPath    string                  `json:"left_path"`
		RightPath   string                  `json:"right_path"`
		TotalCount  int                     `json:"total_count"`
		Differences []models.ComparisonItem `json:"differences"`
	}{
		Generated:   result.ComparisonTime.Format(time.RFC3339),
		LeftPath:    result.LeftPath,
		RightPath:   result.RightPath,
		TotalCount:  len(differences),
		Differences: differences,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
