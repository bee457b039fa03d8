package textdiff

import (
	"context"

	"github.com/sdejongh/differ/pkg/models"
)

// diffLines runs the matrix, backtrack and consolidation steps
func diffLines(ctx context.Context, left, right []lineContent, opts normalizeOptions) ([]models.DiffLine, models.DiffSummary, error) {
	m, err := buildMatrix(ctx, left, right)
	if err != nil {
		return nil, models.DiffSummary{}, err
	}

	ops, err := backtrack(ctx, left, right, m)
	if err != nil {
		return nil, models.DiffSummary{}, err
	}

	return consolidate(ctx, left, right, ops, opts)
}

// consolidate turns the edit script into rows. A Delete directly followed by
// an Insert becomes one row; nothing further ahead is paired.
func consolidate(ctx context.Context, left, right []lineContent, ops []diffOp, opts normalizeOptions) ([]models.DiffLine, models.DiffSummary, error) {
	lines := make([]models.DiffLine, 0, len(ops))
	var summary models.DiffSummary
	consumed := make([]bool, len(ops))

	for idx, op := range ops {
		if err := ctx.Err(); err != nil {
			return nil, models.DiffSummary{}, err
		}
		if consumed[idx] {
			continue
		}

		switch op.kind {
		case opEqual:
			lines = append(lines, pairedLine(models.ChangeUnchanged, left, right, op.left, op.right))
			summary.UnchangedLines++

		case opDelete:
			if next := idx + 1; next < len(ops) && ops[next].kind == opInsert && !consumed[next] {
				consumed[next] = true
				l, r := left[op.left], right[ops[next].right]
				if l.normalized == r.normalized {
					lines = append(lines, pairedLine(models.ChangeUnchanged, left, right, op.left, ops[next].right))
					summary.UnchangedLines++
				} else {
					lines = append(lines, pairedLine(models.ChangeModified, left, right, op.left, ops[next].right))
					summary.ModifiedLines++
				}
				continue
			}

			if opts.ignoreWhitespace && isBlank(left[op.left].original) {
				continue
			}
			lines = append(lines, models.DiffLine{
				Kind:           models.ChangeRemoved,
				LeftLineNumber: lineNumber(op.left),
				LeftText:       text(left[op.left].original),
			})
			summary.RemovedLines++

		case opInsert:
			if opts.ignoreWhitespace && isBlank(right[op.right].original) {
				continue
			}
			lines = append(lines, models.DiffLine{
				Kind:            models.ChangeAdded,
				RightLineNumber: lineNumber(op.right),
				RightText:       text(right[op.right].original),
			})
			summary.AddedLines++
		}
	}

	summary.TotalLines = len(lines)
	return lines, summary, nil
}

func pairedLine(kind models.LineChangeKind, left, right []lineContent, li, ri int) models.DiffLine {
	return models.DiffLine{
		Kind:            kind,
		LeftLineNumber:  lineNumber(li),
		LeftText:        text(left[li].original),
		RightLineNumber: lineNumber(ri),
		RightText:       text(right[ri].original),
	}
}

func lineNumber(index int) *int {
	n := index + 1
	return &n
}

func text(s string) *string {
	return &s
}
