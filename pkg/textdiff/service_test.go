package textdiff

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/storage"
)

func writeLines(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	return writeRaw(t, dir, name, content)
}

func writeRaw(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func diffFiles(t *testing.T, left, right string, ignoreWhitespace, ignoreCase bool) *models.TextDiffResult {
	t.Helper()
	result, err := NewService(storage.NewLocal(), nil).ComputeDiff(context.Background(), models.TextDiffRequest{
		LeftFilePath:     left,
		RightFilePath:    right,
		IgnoreWhitespace: ignoreWhitespace,
		IgnoreCase:       ignoreCase,
	}, nil)
	require.NoError(t, err)
	return result
}

func kinds(lines []models.DiffLine) []models.LineChangeKind {
	out := make([]models.LineChangeKind, len(lines))
	for i, line := range lines {
		out[i] = line.Kind
	}
	return out
}

func TestComputeDiff_IdenticalFiles(t *testing.T) {
	dir := t.TempDir()
	left := writeLines(t, dir, "left.txt", "alpha", "beta", "gamma")
	right := writeLines(t, dir, "right.txt", "alpha", "beta", "gamma")

	result := diffFiles(t, left, right, false, false)

	assert.False(t, result.HasDifferences())
	assert.Equal(t, models.DiffSummary{TotalLines: 3, UnchangedLines: 3}, result.Summary)
	assert.Equal(t, left, result.LeftFilePath)
	assert.Equal(t, right, result.RightFilePath)

	for i, line := range result.Lines {
		require.NotNil(t, line.LeftLineNumber)
		require.NotNil(t, line.RightLineNumber)
		assert.Equal(t, i+1, *line.LeftLineNumber)
		assert.Equal(t, i+1, *line.RightLineNumber)
	}
}

func TestComputeDiff_SingleModifiedLine(t *testing.T) {
	dir := t.TempDir()
	left := writeLines(t, dir, "left.txt", "alpha", "beta", "gamma")
	right := writeLines(t, dir, "right.txt", "alpha", "delta", "gamma")

	result := diffFiles(t, left, right, false, false)

	assert.True(t, result.HasDifferences())
	assert.Equal(t, models.DiffSummary{TotalLines: 3, UnchangedLines: 2, ModifiedLines: 1}, result.Summary)
	require.Len(t, result.Lines, 3)

	modified := result.Lines[1]
	assert.Equal(t, models.ChangeModified, modified.Kind)
	assert.Equal(t, "beta", *modified.LeftText)
	assert.Equal(t, "delta", *modified.RightText)
	assert.Equal(t, 2, *modified.LeftLineNumber)
	assert.Equal(t, 2, *modified.RightLineNumber)
}

func TestComputeDiff_IgnoreWhitespace(t *testing.T) {
	dir := t.TempDir()

	t.Run("surrounding whitespace", func(t *testing.T) {
		left := writeLines(t, dir, "ws-left.txt", "alpha", "beta", "gamma")
		right := writeLines(t, dir, "ws-right.txt", "alpha", "   beta   ", "gamma")

		assert.False(t, diffFiles(t, left, right, true, false).HasDifferences())
		assert.True(t, diffFiles(t, left, right, false, false).HasDifferences())
	})

	t.Run("unchanged rows keep original text", func(t *testing.T) {
		left := writeLines(t, dir, "orig-left.txt", "a b")
		right := writeLines(t, dir, "orig-right.txt", "a\tb")

		result := diffFiles(t, left, right, true, false)
		require.Len(t, result.Lines, 1)
		assert.Equal(t, "a b", *result.Lines[0].LeftText)
		assert.Equal(t, "a\tb", *result.Lines[0].RightText)
	})

	t.Run("blank lines count for nothing", func(t *testing.T) {
		left := writeLines(t, dir, "blank-left.txt", "alpha", "beta")
		right := writeLines(t, dir, "blank-right.txt", "alpha", "  ", "beta", "\t")

		result := diffFiles(t, left, right, true, false)
		assert.False(t, result.HasDifferences())
		assert.Equal(t, 2, result.Summary.TotalLines)

		result = diffFiles(t, right, left, true, false)
		assert.Zero(t, result.Summary.RemovedLines)
	})
}

func TestComputeDiff_IgnoreCase(t *testing.T) {
	dir := t.TempDir()
	left := writeLines(t, dir, "left.txt", "Hello World")
	right := writeLines(t, dir, "right.txt", "HELLO WORLD")

	folded := diffFiles(t, left, right, false, true)
	assert.Equal(t, []models.LineChangeKind{models.ChangeUnchanged}, kinds(folded.Lines))

	exact := diffFiles(t, left, right, false, false)
	assert.Equal(t, []models.LineChangeKind{models.ChangeModified}, kinds(exact.Lines))
}

func TestComputeDiff_AdjacentPairingOnly(t *testing.T) {
	dir := t.TempDir()
	left := writeLines(t, dir, "left.txt", "a", "b", "c")
	right := writeLines(t, dir, "right.txt", "x", "y", "z")

	result := diffFiles(t, left, right, false, false)

	// Deletes come first on ties, so only the last delete meets an insert
	assert.Equal(t, []models.LineChangeKind{
		models.ChangeRemoved,
		models.ChangeRemoved,
		models.ChangeModified,
		models.ChangeAdded,
		models.ChangeAdded,
	}, kinds(result.Lines))
	assert.Equal(t, models.DiffSummary{
		TotalLines:    5,
		RemovedLines:  2,
		ModifiedLines: 1,
		AddedLines:    2,
	}, result.Summary)

	modified := result.Lines[2]
	assert.Equal(t, "c", *modified.LeftText)
	assert.Equal(t, "x", *modified.RightText)
	assert.Nil(t, result.Lines[0].RightLineNumber)
	assert.Nil(t, result.Lines[3].LeftText)
}

func TestComputeDiff_AddedAndRemoved(t *testing.T) {
	dir := t.TempDir()
	left := writeLines(t, dir, "left.txt", "one", "two", "three")
	right := writeLines(t, dir, "right.txt", "zero", "one", "three", "four")

	result := diffFiles(t, left, right, false, false)

	assert.Equal(t, []models.LineChangeKind{
		models.ChangeAdded,
		models.ChangeUnchanged,
		models.ChangeRemoved,
		models.ChangeUnchanged,
		models.ChangeAdded,
	}, kinds(result.Lines))
	assert.Equal(t, "two", *result.Lines[2].LeftText)
	assert.Equal(t, 2, *result.Lines[2].LeftLineNumber)
	assert.Equal(t, 4, *result.Lines[4].RightLineNumber)
}

func TestComputeDiff_EmptyFiles(t *testing.T) {
	dir := t.TempDir()
	empty1 := writeRaw(t, dir, "e1", "")
	empty2 := writeRaw(t, dir, "e2", "")
	full := writeLines(t, dir, "full", "a", "b")

	result := diffFiles(t, empty1, empty2, false, false)
	assert.Empty(t, result.Lines)
	assert.False(t, result.HasDifferences())

	result = diffFiles(t, empty1, full, false, false)
	assert.Equal(t, models.DiffSummary{TotalLines: 2, AddedLines: 2}, result.Summary)
}

func TestComputeDiff_Decoding(t *testing.T) {
	dir := t.TempDir()

	t.Run("BOM and line endings", func(t *testing.T) {
		left := writeRaw(t, dir, "bom.txt", "\xEF\xBB\xBFalpha\r\nbeta\rgamma\r\n")
		right := writeRaw(t, dir, "plain.txt", "alpha\nbeta\ngamma")

		result := diffFiles(t, left, right, false, false)
		assert.False(t, result.HasDifferences())
		assert.Equal(t, 3, result.Summary.TotalLines)
		assert.Equal(t, "alpha", *result.Lines[0].LeftText)
	})

	t.Run("blank lines survive", func(t *testing.T) {
		left := writeRaw(t, dir, "blanks.txt", "a\n\n\nb\n")
		right := writeRaw(t, dir, "blanks2.txt", "a\n\n\nb\n")

		result := diffFiles(t, left, right, false, false)
		assert.Equal(t, 4, result.Summary.TotalLines)
	})

	t.Run("invalid UTF-8 is replaced", func(t *testing.T) {
		left := writeRaw(t, dir, "latin1.txt", "caf\xe9\n")
		right := writeRaw(t, dir, "utf8.txt", "caf\uFFFD\n")

		result := diffFiles(t, left, right, false, false)
		assert.False(t, result.HasDifferences())
		assert.Equal(t, "caf\uFFFD", *result.Lines[0].LeftText)
	})
}

func TestComputeDiff_GuardRails(t *testing.T) {
	dir := t.TempDir()
	small := writeLines(t, dir, "small.txt", "a")
	service := NewService(storage.NewLocal(), nil)
	ctx := context.Background()

	t.Run("too large", func(t *testing.T) {
		big := filepath.Join(dir, "big.txt")
		require.NoError(t, os.WriteFile(big, nil, 0644))
		require.NoError(t, os.Truncate(big, MaxFileSizeBytes+1))

		_, err := service.ComputeDiff(ctx, models.TextDiffRequest{LeftFilePath: small, RightFilePath: big}, nil)
		assert.Equal(t, models.KindTooLarge, models.KindOf(err))
		assert.True(t, models.IsGuardRail(err))
		assert.Contains(t, err.Error(), "external diff tool")
	})

	t.Run("binary", func(t *testing.T) {
		binary := writeRaw(t, dir, "bin.dat", "abc\x00def\n")

		result, err := service.ComputeDiff(ctx, models.TextDiffRequest{LeftFilePath: binary, RightFilePath: small}, nil)
		assert.Nil(t, result)
		assert.Equal(t, models.KindUnsupportedContent, models.KindOf(err))
		assert.EqualError(t, err, "Binary files are not supported by the text diff.")
	})

	t.Run("NUL after the sample is text", func(t *testing.T) {
		late := writeRaw(t, dir, "late.txt", strings.Repeat("x", BinarySampleSize)+"\x00\n")

		_, err := service.ComputeDiff(ctx, models.TextDiffRequest{LeftFilePath: late, RightFilePath: small}, nil)
		assert.NoError(t, err)
	})

	t.Run("too complex never allocates the matrix", func(t *testing.T) {
		lines := make([]string, 1415)
		for i := range lines {
			lines[i] = "x"
		}
		left := writeLines(t, dir, "many-left.txt", lines...)
		right := writeLines(t, dir, "many-right.txt", lines...)

		allocated := false
		original := allocMatrix
		allocMatrix = func(cells int) []int32 {
			allocated = true
			return original(cells)
		}
		defer func() { allocMatrix = original }()

		_, err := service.ComputeDiff(ctx, models.TextDiffRequest{LeftFilePath: left, RightFilePath: right}, nil)
		assert.Equal(t, models.KindTooComplex, models.KindOf(err))
		assert.False(t, allocated)
	})
}

func TestComputeDiff_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	present := writeLines(t, dir, "present.txt", "a")
	missing := filepath.Join(dir, "missing.txt")
	service := NewService(storage.NewLocal(), nil)

	_, err := service.ComputeDiff(context.Background(), models.TextDiffRequest{LeftFilePath: missing, RightFilePath: present}, nil)
	assert.Equal(t, models.KindNotFound, models.KindOf(err))
	assert.EqualError(t, err, "Left file does not exist: "+missing)

	_, err = service.ComputeDiff(context.Background(), models.TextDiffRequest{LeftFilePath: present, RightFilePath: dir}, nil)
	assert.EqualError(t, err, "Right file does not exist: "+dir)
}

func TestComputeDiff_Progress(t *testing.T) {
	dir := t.TempDir()
	left := writeLines(t, dir, "left.txt", "a", "b")
	right := writeLines(t, dir, "right.txt", "a", "c")

	var fractions []float64
	_, err := NewService(storage.NewLocal(), nil).ComputeDiff(context.Background(), models.TextDiffRequest{
		LeftFilePath:  left,
		RightFilePath: right,
	}, func(f float64) {
		fractions = append(fractions, f)
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{0.05, 0.35, 0.45, 1.0}, fractions)
}

func TestComputeDiff_Cancellation(t *testing.T) {
	dir := t.TempDir()
	left := writeLines(t, dir, "left.txt", "a")
	right := writeLines(t, dir, "right.txt", "b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	result, err := NewService(storage.NewLocal(), nil).ComputeDiff(ctx, models.TextDiffRequest{
		LeftFilePath:  left,
		RightFilePath: right,
	}, func(float64) { called = true })

	assert.Nil(t, result)
	assert.True(t, models.IsCancelled(err))
	assert.EqualError(t, err, "Diff operation was cancelled")
	assert.False(t, called)
}

func TestComputeDiff_Idempotent(t *testing.T) {
	dir := t.TempDir()
	left := writeLines(t, dir, "left.txt", "one", "two", "three", "four")
	right := writeLines(t, dir, "right.txt", "one", "2", "three", "five", "six")

	first := diffFiles(t, left, right, false, false)
	second := diffFiles(t, left, right, false, false)
	assert.Equal(t, first, second)
}

func TestCanDiff(t *testing.T) {
	dir := t.TempDir()
	a := writeLines(t, dir, "a.txt", "a")
	b := writeLines(t, dir, "b.txt", "b")
	service := NewService(storage.NewLocal(), nil)
	ctx := context.Background()

	assert.True(t, service.CanDiff(ctx, a, b))
	assert.False(t, service.CanDiff(ctx, a, dir))
	assert.False(t, service.CanDiff(ctx, filepath.Join(dir, "missing"), b))
}
