// Package engine exposes the comparison operations: directory validation,
// scanning, tree comparison and text diffs. Every operation returns either
// a payload or a *models.Error; panics do not cross this boundary.
package engine

import (
	"context"
	"fmt"

	"github.com/sdejongh/differ/pkg/compare"
	"github.com/sdejongh/differ/pkg/logging"
	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/scan"
	"github.com/sdejongh/differ/pkg/storage"
	"github.com/sdejongh/differ/pkg/textdiff"
)

// Options configures an Engine
type Options struct {
	// Algorithm is the digest used for file equality, sha256 when empty
	Algorithm string

	// BufferSize is the hashing read buffer, compare.DefaultBufferSize when 0
	BufferSize int

	// Exclude lists glob patterns skipped while scanning
	Exclude []string
}

// Engine wires the scanner, hash comparer, aggregator and diff service
type Engine struct {
	scanner    *scan.Scanner
	comparer   *compare.HashComparator
	aggregator *Aggregator
	differ     *textdiff.Service
	logger     logging.Logger
}

// New creates an engine reading through backend
func New(backend storage.Backend, logger logging.Logger, opts Options) (*Engine, error) {
	logger = logging.OrNull(logger)

	algorithm, err := compare.GetAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, models.WrapError(models.KindInvalidInput, err.Error(), err)
	}

	compareOpts := []compare.Option{compare.WithAlgorithm(algorithm)}
	if opts.BufferSize > 0 {
		compareOpts = append(compareOpts, compare.WithBufferSize(opts.BufferSize))
	}

	scanner := scan.NewScanner(backend, logger, scan.WithExclude(opts.Exclude))
	comparer := compare.NewHashComparator(backend, logger, compareOpts...)

	return &Engine{
		scanner:    scanner,
		comparer:   comparer,
		aggregator: NewAggregator(scanner, comparer, logger),
		differ:     textdiff.NewService(backend, logger),
		logger:     logger,
	}, nil
}

// Algorithm returns the digest name used for file equality
func (e *Engine) Algorithm() string {
	return e.comparer.Algorithm()
}

// ValidateDirectory checks that path is an existing, readable directory
func (e *Engine) ValidateDirectory(path string) (err error) {
	defer e.recoverError(context.Background(), "ValidateDirectory", &err)
	return e.scanner.ValidatePath(context.Background(), path)
}

// ScanDirectory lists every entry below path
func (e *Engine) ScanDirectory(ctx context.Context, path string, progress models.ProgressFunc) (items []models.FileSystemItem, err error) {
	defer e.recoverError(ctx, "ScanDirectory", &err)
	return e.scanner.Scan(ctx, path, progress)
}

// CompareDirectories compares two trees by relative path and content
func (e *Engine) CompareDirectories(ctx context.Context, leftPath, rightPath string, progress models.ProgressFunc) (result *models.DirectoryComparisonResult, err error) {
	defer e.recoverError(ctx, "CompareDirectories", &err)
	return e.aggregator.CompareDirectories(ctx, leftPath, rightPath, progress)
}

// ComputeTextDiff diffs two text files line by line
func (e *Engine) ComputeTextDiff(ctx context.Context, req models.TextDiffRequest, progress models.FractionFunc) (result *models.TextDiffResult, err error) {
	defer e.recoverError(ctx, "ComputeTextDiff", &err)
	return e.differ.ComputeDiff(ctx, req, progress)
}

// CanDiff reports whether both paths exist as files
func (e *Engine) CanDiff(ctx context.Context, leftPath, rightPath string) bool {
	return e.differ.CanDiff(ctx, leftPath, rightPath)
}

func (e *Engine) recoverError(ctx context.Context, op string, err *error) {
	if r := recover(); r != nil {
		cause := fmt.Errorf("panic in %s: %v", op, r)
		e.logger.Error(ctx, "Unexpected engine failure", cause, logging.Fields{"operation": op})
		*err = models.WrapError(models.KindUnexpected, fmt.Sprintf("Unexpected error: %v", r), cause)
	}
}
