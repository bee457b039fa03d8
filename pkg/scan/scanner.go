// Package scan enumerates a directory tree into a flat list of entries.
package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sdejongh/differ/pkg/logging"
	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/storage"
)

// Scanner walks directory trees through a storage backend
type Scanner struct {
	backend  storage.Backend
	logger   logging.Logger
	excluder *Excluder
}

// Option configures a Scanner
type Option func(*Scanner)

// WithExclude skips entries matching any of the glob patterns
func WithExclude(patterns []string) Option {
	return func(s *Scanner) {
		s.excluder = NewExcluder(patterns)
	}
}

// NewScanner creates a scanner reading through backend
func NewScanner(backend storage.Backend, logger logging.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		backend:  backend,
		logger:   logging.OrNull(logger),
		excluder: NewExcluder(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidatePath checks that path names an existing, listable directory
func (s *Scanner) ValidatePath(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return models.NewError(models.KindInvalidInput, "Directory path cannot be empty")
	}

	fullPath, err := filepath.Abs(path)
	if err != nil {
		return models.WrapError(models.KindInvalidInput, fmt.Sprintf("Invalid directory path: %v", err), err)
	}

	info, err := s.backend.Stat(ctx, fullPath)
	if err != nil {
		switch models.ClassifyError(err) {
		case models.KindNotFound:
			return models.WrapError(models.KindNotFound, fmt.Sprintf("Directory does not exist: %s", fullPath), err)
		case models.KindAccessDenied:
			return models.WrapError(models.KindAccessDenied, fmt.Sprintf("Access denied to directory: %s", path), err)
		case models.KindCancelled:
			return models.WrapError(models.KindCancelled, "Operation was cancelled", err)
		default:
			return models.WrapError(models.KindIO, fmt.Sprintf("Error validating directory path: %v", err), err)
		}
	}
	if !info.IsDir {
		return models.NewError(models.KindNotFound, fmt.Sprintf("Directory does not exist: %s", fullPath))
	}

	// Listing proves read access
	if _, err := s.backend.ReadDir(ctx, fullPath); err != nil {
		switch models.ClassifyError(err) {
		case models.KindNotFound:
			return models.WrapError(models.KindNotFound, fmt.Sprintf("Directory not found: %s", path), err)
		case models.KindAccessDenied:
			return models.WrapError(models.KindAccessDenied, fmt.Sprintf("Access denied to directory: %s", path), err)
		case models.KindCancelled:
			return models.WrapError(models.KindCancelled, "Operation was cancelled", err)
		default:
			return models.WrapError(models.KindIO, fmt.Sprintf("Error validating directory path: %v", err), err)
		}
	}

	return nil
}

// Scan returns every file and directory below path, the root excluded.
// Unreadable or vanished subtrees are skipped with a warning. Cancellation
// returns a Cancelled error and no items.
func (s *Scanner) Scan(ctx context.Context, path string, progress models.ProgressFunc) ([]models.FileSystemItem, error) {
	s.logger.Info(ctx, "Starting directory scan", logging.Fields{"path": path})
	if !s.excluder.Empty() {
		s.logger.Debug(ctx, "Exclude patterns active", logging.Fields{"patterns": len(s.excluder.patterns)})
	}

	if err := s.ValidatePath(ctx, path); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(path)
	if err != nil {
		return nil, models.WrapError(models.KindInvalidInput, fmt.Sprintf("Invalid directory path: %v", err), err)
	}

	progress.Report(fmt.Sprintf("Scanning directory: %s", path))

	w := &walk{progress: progress}
	if err := s.walkDir(ctx, w, root, ""); err != nil {
		if models.ClassifyError(err) == models.KindCancelled {
			s.logger.Info(ctx, "Directory scan was cancelled", logging.Fields{"path": path})
			return nil, models.WrapError(models.KindCancelled, "Operation was cancelled", err)
		}
		s.logger.Error(ctx, "Error occurred during directory scan", err, logging.Fields{"path": path})
		return nil, models.WrapError(models.ClassifyError(err), fmt.Sprintf("Failed to scan directory: %v", err), err)
	}

	s.logger.Info(ctx, "Directory scan completed", logging.Fields{
		"path":    path,
		"items":   len(w.items),
		"skipped": w.skipped,
	})

	return w.items, nil
}

// walk accumulates the state of one Scan call
type walk struct {
	items    []models.FileSystemItem
	progress models.ProgressFunc
	skipped  int
}

// walkDir lists dir, emits its files, then descends into its subdirectories.
// A returned error is fatal for the whole scan.
func (s *Scanner) walkDir(ctx context.Context, w *walk, dir, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.backend.ReadDir(ctx, dir)
	if err != nil {
		switch models.ClassifyError(err) {
		case models.KindAccessDenied:
			w.skipped++
			s.logger.Warn(ctx, "Access denied to directory, skipping", logging.Fields{
				"path":  dir,
				"error": err.Error(),
			})
			return nil
		case models.KindNotFound:
			w.skipped++
			s.logger.Warn(ctx, "Directory not found, skipping", logging.Fields{
				"path":  dir,
				"error": err.Error(),
			})
			return nil
		default:
			return err
		}
	}

	var subdirs []storage.FileInfo
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		entryRel := joinRelative(rel, entry.Name)
		if s.excluder.Match(entryRel, entry.IsDir) {
			continue
		}

		if entry.IsDir {
			subdirs = append(subdirs, entry)
			continue
		}

		w.progress.Report(fmt.Sprintf("Processing: %s", entryRel))
		w.items = append(w.items, fileItem(entry, entryRel))
	}

	for _, sub := range subdirs {
		if err := ctx.Err(); err != nil {
			return err
		}

		subRel := joinRelative(rel, sub.Name)
		w.items = append(w.items, directoryItem(sub, subRel))

		if sub.IsSymlink {
			s.logger.Debug(ctx, "Not following symlinked directory", logging.Fields{"path": sub.Path})
			continue
		}

		if err := s.walkDir(ctx, w, sub.Path, subRel); err != nil {
			return err
		}
	}

	return nil
}

func joinRelative(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func fileItem(info storage.FileInfo, rel string) models.FileSystemItem {
	size := info.Size
	return models.FileSystemItem{
		FullPath:     info.Path,
		Name:         info.Name,
		IsDirectory:  false,
		Size:         &size,
		LastModified: info.ModTime,
		RelativePath: rel,
	}
}

func directoryItem(info storage.FileInfo, rel string) models.FileSystemItem {
	return models.FileSystemItem{
		FullPath:     info.Path,
		Name:         info.Name,
		IsDirectory:  true,
		LastModified: info.ModTime,
		RelativePath: rel,
	}
}
