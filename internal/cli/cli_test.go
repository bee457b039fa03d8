package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/differ/pkg/config"
	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/output"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "unexpected error: %v", err)
	return exitErr.ExitCode()
}

func TestCompareCommand(t *testing.T) {
	left := writeFiles(t, map[string]string{"a.txt": "same", "b.txt": "left"})
	right := writeFiles(t, map[string]string{"a.txt": "same", "b.txt": "right"})
	twin := writeFiles(t, map[string]string{"a.txt": "same", "b.txt": "left"})

	t.Run("identical trees", func(t *testing.T) {
		stdout, _, err := execute(t, "compare", "-l", left, "-r", twin)
		assert.Equal(t, 0, exitCode(t, err))
		assert.Contains(t, stdout, "Status: equal")
	})

	t.Run("different trees", func(t *testing.T) {
		stdout, _, err := execute(t, "compare", "-l", left, "-r", right)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stdout, "b.txt")
		assert.NotContains(t, stdout, "a.txt")
	})

	t.Run("json output", func(t *testing.T) {
		stdout, _, err := execute(t, "compare", "-l", left, "-r", right, "-o", "json", "--show-identical")
		assert.Equal(t, 1, exitCode(t, err))

		var doc output.JSONComparisonData
		require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
		assert.Equal(t, "different", doc.Status)
		assert.Len(t, doc.Items, 2)
	})

	t.Run("quiet prints nothing", func(t *testing.T) {
		stdout, _, err := execute(t, "-q", "compare", "-l", left, "-r", right)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Empty(t, stdout)
	})

	t.Run("report file", func(t *testing.T) {
		report := filepath.Join(t.TempDir(), "report.txt")
		_, _, err := execute(t, "compare", "-l", left, "-r", right, "--report", report)
		assert.Equal(t, 1, exitCode(t, err))

		data, err := os.ReadFile(report)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Different (1 items)")
	})

	t.Run("missing directory fails", func(t *testing.T) {
		missing := filepath.Join(left, "missing")
		stdout, stderr, err := execute(t, "compare", "-l", missing, "-r", right)
		assert.Equal(t, 2, exitCode(t, err))
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "Error: Left directory validation failed: Directory does not exist: "+missing)
	})

	t.Run("bad algorithm", func(t *testing.T) {
		_, _, err := execute(t, "compare", "-l", left, "-r", right, "--algorithm", "crc32")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "compare.algorithm")
	})
}

func TestDiffCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"left.txt":  "alpha\nbeta\ngamma\n",
		"right.txt": "alpha\ndelta\ngamma\n",
		"upper.txt": "ALPHA\nBETA\nGAMMA\n",
		"bin.dat":   "a\x00b",
	})
	left := filepath.Join(dir, "left.txt")

	t.Run("unified", func(t *testing.T) {
		stdout, _, err := execute(t, "diff", "-l", left, "-r", filepath.Join(dir, "right.txt"))
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stdout, "@@ -1,3 +1,3 @@\n alpha\n-beta\n+delta\n gamma\n")
	})

	t.Run("ignore case", func(t *testing.T) {
		stdout, _, err := execute(t, "diff", "-i", "-l", left, "-r", filepath.Join(dir, "upper.txt"))
		assert.Equal(t, 0, exitCode(t, err))
		assert.Contains(t, stdout, "No differences found")
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, "diff", "-o", "json", "-U", "0", "-l", left, "-r", filepath.Join(dir, "right.txt"))
		assert.Equal(t, 1, exitCode(t, err))

		var doc output.JSONDiffData
		require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
		require.Len(t, doc.Hunks, 1)
		assert.Len(t, doc.Hunks[0].Lines, 1)
	})

	t.Run("binary is a guard rail", func(t *testing.T) {
		_, stderr, err := execute(t, "diff", "-l", left, "-r", filepath.Join(dir, "bin.dat"))
		assert.Equal(t, 2, exitCode(t, err))
		assert.Contains(t, stderr, "Binary files are not supported by the text diff.")
		assert.Contains(t, stderr, "Hint: compare these files with an external diff tool.")
	})

	t.Run("json errors go to stdout", func(t *testing.T) {
		stdout, _, err := execute(t, "diff", "-o", "json", "-l", left, "-r", filepath.Join(dir, "missing.txt"))
		assert.Equal(t, 2, exitCode(t, err))

		var doc output.JSONErrorData
		require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
		assert.Equal(t, string(models.KindNotFound), doc.Kind)
	})
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "differ.yaml")

	stdout, _, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration file created at: "+path)

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, _, err = execute(t, "--config", path, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "--config", path, "config", "init", "--force")
	assert.NoError(t, err)

	stdout, _, err = execute(t, "--config", path, "--no-color", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "algorithm: sha256")
	assert.Contains(t, stdout, "color: false")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "differ "+Version)

	stdout, _, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", stdout)
}

func TestExitError(t *testing.T) {
	cause := models.NewError(models.KindCancelled, "Operation was cancelled")
	err := errorStatus(cause)

	assert.Equal(t, 3, err.ExitCode())
	assert.Equal(t, "Operation was cancelled", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "different", (&ExitError{Status: models.RunDifferent}).Error())
}
