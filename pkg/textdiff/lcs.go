package textdiff

import (
	"context"
)

const (
	// cancellation is checked this often inside a matrix row
	cellCheckInterval = 4096
	// and this often while walking the matrix back
	backtrackCheckInterval = 1024
)

type opKind int

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

// diffOp is one step of the edit script. Indexes are 0-based; the unused
// side is -1.
type diffOp struct {
	kind  opKind
	left  int
	right int
}

// allocMatrix is swapped in tests to observe matrix allocation
var allocMatrix = func(cells int) []int32 {
	return make([]int32, cells)
}

// lcsMatrix holds suffix LCS lengths: at(i, j) is the LCS length of
// left[i:] and right[j:]
type lcsMatrix struct {
	cells []int32
	width int
}

func (m *lcsMatrix) at(i, j int) int32 {
	return m.cells[i*m.width+j]
}

// buildMatrix fills the matrix bottom-up over normalized lines
func buildMatrix(ctx context.Context, left, right []lineContent) (*lcsMatrix, error) {
	n, w := len(left), len(right)
	m := &lcsMatrix{
		cells: allocMatrix((n + 1) * (w + 1)),
		width: w + 1,
	}

	for i := n - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := i * m.width
		below := (i + 1) * m.width
		for j := w - 1; j >= 0; j-- {
			if j%cellCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}

			switch {
			case left[i].normalized == right[j].normalized:
				m.cells[row+j] = m.cells[below+j+1] + 1
			case m.cells[below+j] >= m.cells[row+j+1]:
				m.cells[row+j] = m.cells[below+j]
			default:
				m.cells[row+j] = m.cells[row+j+1]
			}
		}
	}

	return m, nil
}

// backtrack walks the matrix from the top-left corner into an edit script.
// Ties prefer Delete.
func backtrack(ctx context.Context, left, right []lineContent, m *lcsMatrix) ([]diffOp, error) {
	n, w := len(left), len(right)
	ops := make([]diffOp, 0, n+w)

	i, j, steps := 0, 0, 0
	for i < n && j < w {
		steps++
		if steps%backtrackCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		switch {
		case left[i].normalized == right[j].normalized:
			ops = append(ops, diffOp{kind: opEqual, left: i, right: j})
			i++
			j++
		case m.at(i+1, j) >= m.at(i, j+1):
			ops = append(ops, diffOp{kind: opDelete, left: i, right: -1})
			i++
		default:
			ops = append(ops, diffOp{kind: opInsert, left: -1, right: j})
			j++
		}
	}

	for ; i < n; i++ {
		ops = append(ops, diffOp{kind: opDelete, left: i, right: -1})
	}
	for ; j < w; j++ {
		ops = append(ops, diffOp{kind: opInsert, left: -1, right: j})
	}

	return ops, nil
}
