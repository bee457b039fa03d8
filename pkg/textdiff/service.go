// Package textdiff computes line-level diffs between two text files.
//
// The diff is a classic longest-common-subsequence over normalized lines,
// followed by a pass that folds a delete immediately followed by an insert
// into a single modified row. Large or binary inputs are rejected before any
// quadratic work starts.
package textdiff

import (
	"context"
	"fmt"
	"io"

	"github.com/sdejongh/differ/pkg/logging"
	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/storage"
)

const (
	// MaxFileSizeBytes is the largest file accepted on either side
	MaxFileSizeBytes int64 = 10 * 1024 * 1024
	// MaxMatrixCells bounds the product of the two line counts
	MaxMatrixCells int64 = 2_000_000
	// BinarySampleSize is how many leading bytes are inspected for NUL
	BinarySampleSize = 1024
)

// Progress fractions reported by ComputeDiff
const (
	fractionChecked   = 0.05
	fractionLeftRead  = 0.35
	fractionRightRead = 0.45
	fractionDone      = 1.0
)

// Service computes text diffs through a storage backend
type Service struct {
	backend storage.Backend
	logger  logging.Logger
}

// NewService creates a diff service reading through backend
func NewService(backend storage.Backend, logger logging.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  logging.OrNull(logger),
	}
}

// CanDiff reports whether both paths exist as files
func (s *Service) CanDiff(ctx context.Context, leftPath, rightPath string) bool {
	return s.isFile(ctx, leftPath) && s.isFile(ctx, rightPath)
}

func (s *Service) isFile(ctx context.Context, path string) bool {
	info, err := s.backend.Stat(ctx, path)
	return err == nil && info.IsRegular()
}

// ComputeDiff diffs the two files named by req. The returned result holds
// every row; ContextLines never filters it.
func (s *Service) ComputeDiff(ctx context.Context, req models.TextDiffRequest, progress models.FractionFunc) (*models.TextDiffResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	s.logger.Debug(ctx, "Computing text diff", logging.Fields{
		"left":              req.LeftFilePath,
		"right":             req.RightFilePath,
		"ignore_whitespace": req.IgnoreWhitespace,
		"ignore_case":       req.IgnoreCase,
	})

	if err := s.checkFiles(ctx, req); err != nil {
		return nil, err
	}
	progress.Report(fractionChecked)

	opts := normalizeOptions{ignoreWhitespace: req.IgnoreWhitespace, ignoreCase: req.IgnoreCase}

	left, err := s.readLines(ctx, req.LeftFilePath, opts)
	if err != nil {
		return nil, s.readError(ctx, req.LeftFilePath, err)
	}
	progress.Report(fractionLeftRead)

	right, err := s.readLines(ctx, req.RightFilePath, opts)
	if err != nil {
		return nil, s.readError(ctx, req.RightFilePath, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	cells := int64(len(left)) * int64(len(right))
	if cells > MaxMatrixCells {
		s.logger.Warn(ctx, "Diff matrix would be too large", logging.Fields{"cells": cells})
		return nil, models.NewError(models.KindTooComplex,
			"The files are too large or contain too many lines to diff. "+
				"Try narrowing your comparison or using an external diff tool.")
	}
	progress.Report(fractionRightRead)

	lines, summary, err := diffLines(ctx, left, right, opts)
	if err != nil {
		if models.ClassifyError(err) == models.KindCancelled {
			s.logger.Info(ctx, "Text diff was cancelled", nil)
			return nil, cancelled(err)
		}
		return nil, models.WrapError(models.KindUnexpected, fmt.Sprintf("Unexpected diff error: %v", err), err)
	}
	progress.Report(fractionDone)

	s.logger.Debug(ctx, "Text diff completed", logging.Fields{
		"rows":      summary.TotalLines,
		"unchanged": summary.UnchangedLines,
		"added":     summary.AddedLines,
		"removed":   summary.RemovedLines,
		"modified":  summary.ModifiedLines,
	})

	return &models.TextDiffResult{
		LeftFilePath:  req.LeftFilePath,
		RightFilePath: req.RightFilePath,
		Lines:         lines,
		Summary:       summary,
	}, nil
}

// checkFiles applies the existence, size and binary guard rails in order
func (s *Service) checkFiles(ctx context.Context, req models.TextDiffRequest) error {
	leftInfo, err := s.statFile(ctx, "Left", req.LeftFilePath)
	if err != nil {
		return err
	}
	rightInfo, err := s.statFile(ctx, "Right", req.RightFilePath)
	if err != nil {
		return err
	}

	if leftInfo.Size > MaxFileSizeBytes || rightInfo.Size > MaxFileSizeBytes {
		s.logger.Warn(ctx, "File exceeds diff size limit", logging.Fields{
			"left_size":  leftInfo.Size,
			"right_size": rightInfo.Size,
			"limit":      MaxFileSizeBytes,
		})
		return models.NewError(models.KindTooLarge,
			"One or both files are too large for the built-in diff. "+
				"Please open them in an external diff tool.")
	}

	for _, path := range []string{req.LeftFilePath, req.RightFilePath} {
		binary, err := s.isProbablyBinary(ctx, path)
		if err != nil {
			return s.readError(ctx, path, err)
		}
		if binary {
			return models.NewError(models.KindUnsupportedContent, "Binary files are not supported by the text diff.")
		}
	}

	return nil
}

func (s *Service) statFile(ctx context.Context, side, path string) (*storage.FileInfo, error) {
	info, err := s.backend.Stat(ctx, path)
	if err != nil {
		switch models.ClassifyError(err) {
		case models.KindNotFound:
			return nil, models.WrapError(models.KindNotFound, fmt.Sprintf("%s file does not exist: %s", side, path), err)
		case models.KindCancelled:
			return nil, cancelled(err)
		case models.KindAccessDenied:
			return nil, models.WrapError(models.KindAccessDenied, fmt.Sprintf("Access denied: %s", path), err)
		default:
			return nil, models.WrapError(models.KindIO, fmt.Sprintf("I/O error occurred: %v", err), err)
		}
	}
	if info.IsDir {
		return nil, models.NewError(models.KindNotFound, fmt.Sprintf("%s file does not exist: %s", side, path))
	}
	return info, nil
}

// isProbablyBinary reports whether a NUL byte occurs in the leading sample
func (s *Service) isProbablyBinary(ctx context.Context, path string) (bool, error) {
	reader, err := s.backend.Open(ctx, path)
	if err != nil {
		return false, err
	}
	defer reader.Close()

	buf := make([]byte, BinarySampleSize)
	n, err := io.ReadFull(reader, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, fmt.Errorf("failed to read sample: %w", err)
	}

	for _, b := range buf[:n] {
		if b == 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) readError(ctx context.Context, path string, err error) error {
	kind := models.ClassifyError(err)
	switch kind {
	case models.KindCancelled:
		s.logger.Info(ctx, "Text diff was cancelled", nil)
		return cancelled(err)
	case models.KindNotFound:
		return models.WrapError(kind, fmt.Sprintf("File does not exist: %s", path), err)
	case models.KindAccessDenied:
		return models.WrapError(kind, fmt.Sprintf("Access denied: %s", path), err)
	default:
		s.logger.Error(ctx, "I/O error while computing text diff", err, logging.Fields{"path": path})
		return models.WrapError(models.KindIO, fmt.Sprintf("I/O error occurred: %v", err), err)
	}
}

func cancelled(err error) error {
	return models.WrapError(models.KindCancelled, "Diff operation was cancelled", err)
}
