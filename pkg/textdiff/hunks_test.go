package textdiff

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/differ/pkg/models"
)

func numbered(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return lines
}

func rows(t *testing.T, left, right []string) []models.DiffLine {
	t.Helper()
	lines, _, err := diffLines(context.Background(),
		contents(normalizeOptions{}, left...),
		contents(normalizeOptions{}, right...),
		normalizeOptions{})
	require.NoError(t, err)
	return lines
}

func TestHunks(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		assert.Nil(t, Hunks(nil, 3))
	})

	t.Run("no changes", func(t *testing.T) {
		lines := rows(t, numbered(5), numbered(5))
		assert.Empty(t, Hunks(lines, 3))
	})

	t.Run("context around a single change", func(t *testing.T) {
		right := numbered(10)
		right[5] = "changed"
		lines := rows(t, numbered(10), right)

		hunks := Hunks(lines, 2)
		require.Len(t, hunks, 1)

		h := hunks[0]
		assert.Equal(t, 4, h.LeftStart)
		assert.Equal(t, 5, h.LeftCount)
		assert.Equal(t, 4, h.RightStart)
		assert.Equal(t, 5, h.RightCount)
		assert.Equal(t, models.ChangeModified, h.Lines[2].Kind)
	})

	t.Run("distant changes split", func(t *testing.T) {
		right := numbered(10)
		right[1] = "first"
		right[8] = "second"

		hunks := Hunks(rows(t, numbered(10), right), 1)
		require.Len(t, hunks, 2)
		assert.Equal(t, 1, hunks[0].LeftStart)
		assert.Equal(t, 3, hunks[0].LeftCount)
		assert.Equal(t, 8, hunks[1].LeftStart)
		assert.Equal(t, 3, hunks[1].LeftCount)
	})

	t.Run("touching windows merge", func(t *testing.T) {
		right := numbered(10)
		right[2] = "first"
		right[5] = "second"

		hunks := Hunks(rows(t, numbered(10), right), 1)
		require.Len(t, hunks, 1)
		assert.Equal(t, 2, hunks[0].LeftStart)
		assert.Equal(t, 6, hunks[0].LeftCount)
	})

	t.Run("insertion at top anchors left at zero", func(t *testing.T) {
		hunks := Hunks(rows(t, []string{"b"}, []string{"a", "b"}), 0)
		require.Len(t, hunks, 1)

		h := hunks[0]
		assert.Equal(t, 0, h.LeftStart)
		assert.Equal(t, 0, h.LeftCount)
		assert.Equal(t, 1, h.RightStart)
		assert.Equal(t, 1, h.RightCount)
	})

	t.Run("deletion anchors right at preceding line", func(t *testing.T) {
		hunks := Hunks(rows(t, []string{"a", "b", "c"}, []string{"a", "c"}), 0)
		require.Len(t, hunks, 1)

		h := hunks[0]
		assert.Equal(t, 2, h.LeftStart)
		assert.Equal(t, 1, h.LeftCount)
		assert.Equal(t, 1, h.RightStart)
		assert.Equal(t, 0, h.RightCount)
	})

	t.Run("negative context keeps everything", func(t *testing.T) {
		right := numbered(6)
		right[0] = "changed"
		lines := rows(t, numbered(6), right)

		hunks := Hunks(lines, -1)
		require.Len(t, hunks, 1)
		assert.Len(t, hunks[0].Lines, 6)
		assert.Equal(t, 1, hunks[0].LeftStart)
		assert.Equal(t, 6, hunks[0].RightCount)
	})
}
