package textdiff

import (
	"github.com/sdejongh/differ/pkg/models"
)

// Hunk is a run of diff rows with surrounding unchanged context.
// Starts are 1-based; a side with no rows in the hunk starts at the line
// preceding it, 0 at the top of the file, as unified diffs do.
type Hunk struct {
	LeftStart  int
	LeftCount  int
	RightStart int
	RightCount int
	Lines      []models.DiffLine
}

// Hunks groups rows into hunks keeping context unchanged rows around each
// change. Change clusters whose context windows touch share a hunk.
// A negative context returns every row as a single hunk.
func Hunks(lines []models.DiffLine, context int) []Hunk {
	if len(lines) == 0 {
		return nil
	}
	if context < 0 {
		return []Hunk{newHunk(lines, 0, len(lines))}
	}

	var hunks []Hunk
	start, end := -1, -1
	for i, line := range lines {
		if line.Kind == models.ChangeUnchanged {
			continue
		}

		lo := max(0, i-context)
		hi := min(len(lines), i+context+1)

		if start >= 0 && lo <= end {
			end = hi
			continue
		}
		if start >= 0 {
			hunks = append(hunks, newHunk(lines, start, end))
		}
		start, end = lo, hi
	}
	if start >= 0 {
		hunks = append(hunks, newHunk(lines, start, end))
	}

	return hunks
}

func newHunk(lines []models.DiffLine, start, end int) Hunk {
	h := Hunk{Lines: lines[start:end]}

	// Line numbers seen before the hunk anchor an empty side
	for _, line := range lines[:start] {
		if line.LeftLineNumber != nil {
			h.LeftStart = *line.LeftLineNumber
		}
		if line.RightLineNumber != nil {
			h.RightStart = *line.RightLineNumber
		}
	}

	leftSet, rightSet := false, false
	for _, line := range h.Lines {
		if line.LeftLineNumber != nil {
			if !leftSet {
				h.LeftStart = *line.LeftLineNumber
				leftSet = true
			}
			h.LeftCount++
		}
		if line.RightLineNumber != nil {
			if !rightSet {
				h.RightStart = *line.RightLineNumber
				rightSet = true
			}
			h.RightCount++
		}
	}

	return h
}
