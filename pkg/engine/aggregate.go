package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sdejongh/differ/pkg/compare"
	"github.com/sdejongh/differ/pkg/logging"
	"github.com/sdejongh/differ/pkg/models"
)

// DirectoryScanner validates and enumerates a directory tree
type DirectoryScanner interface {
	ValidatePath(ctx context.Context, path string) error
	Scan(ctx context.Context, path string, progress models.ProgressFunc) ([]models.FileSystemItem, error)
}

// Aggregator reconciles two scanned trees into one comparison list
type Aggregator struct {
	scanner  DirectoryScanner
	comparer compare.FileComparer
	logger   logging.Logger
	now      func() time.Time
}

// NewAggregator creates an aggregator
func NewAggregator(scanner DirectoryScanner, comparer compare.FileComparer, logger logging.Logger) *Aggregator {
	return &Aggregator{
		scanner:  scanner,
		comparer: comparer,
		logger:   logging.OrNull(logger),
		now:      time.Now,
	}
}

// CompareDirectories validates and scans both roots, then classifies every
// relative path found on either side
func (a *Aggregator) CompareDirectories(ctx context.Context, leftPath, rightPath string, progress models.ProgressFunc) (*models.DirectoryComparisonResult, error) {
	a.logger.Info(ctx, "Starting directory comparison", logging.Fields{
		"left":  leftPath,
		"right": rightPath,
	})

	progress.Report("Validating directories...")

	if err := a.scanner.ValidatePath(ctx, leftPath); err != nil {
		return nil, sideError("Left directory validation failed", err)
	}
	if err := a.scanner.ValidatePath(ctx, rightPath); err != nil {
		return nil, sideError("Right directory validation failed", err)
	}

	progress.Report("Scanning left directory...")
	leftItems, err := a.scanner.Scan(ctx, leftPath, progress)
	if err != nil {
		return nil, sideError("Failed to scan left directory", err)
	}

	progress.Report("Scanning right directory...")
	rightItems, err := a.scanner.Scan(ctx, rightPath, progress)
	if err != nil {
		return nil, sideError("Failed to scan right directory", err)
	}

	progress.Report("Comparing items...")
	items, err := a.CompareItems(ctx, leftItems, rightItems, progress)
	if err != nil {
		return nil, err
	}

	a.logger.Info(ctx, "Directory comparison completed", logging.Fields{"items": len(items)})

	return &models.DirectoryComparisonResult{
		LeftPath:       leftPath,
		RightPath:      rightPath,
		Items:          items,
		ComparisonTime: a.now(),
	}, nil
}

// CompareItems reconciles two scan results by relative path, ignoring case,
// and classifies each path. Only cancellation fails the whole call.
func (a *Aggregator) CompareItems(ctx context.Context, leftItems, rightItems []models.FileSystemItem, progress models.ProgressFunc) ([]models.ComparisonItem, error) {
	pairs := reconcile(leftItems, rightItems)

	items := make([]models.ComparisonItem, 0, len(pairs))
	for i, p := range pairs {
		select {
		case <-ctx.Done():
			a.logger.Info(ctx, "Directory comparison was cancelled", nil)
			return nil, models.WrapError(models.KindCancelled, "Operation was cancelled", ctx.Err())
		default:
		}

		progress.Report(fmt.Sprintf("Comparing item %d/%d: %s", i+1, len(pairs), p.path))

		item, err := a.classifySafe(ctx, p)
		if err != nil {
			a.logger.Info(ctx, "Directory comparison was cancelled", nil)
			return nil, models.WrapError(models.KindCancelled, "Operation was cancelled", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// pair is one reconciliation unit: a relative path with its entries.
// collision is set when the entry lost a case-only clash inside its own tree.
type pair struct {
	key       string
	path      string
	left      *models.FileSystemItem
	right     *models.FileSystemItem
	collision string
}

func foldKey(path string) string {
	return strings.ToUpper(path)
}

// reconcile builds the sorted union of both trees
func reconcile(leftItems, rightItems []models.FileSystemItem) []*pair {
	byKey := make(map[string]*pair, len(leftItems)+len(rightItems))
	var pairs []*pair

	for i := range leftItems {
		item := &leftItems[i]
		key := foldKey(item.RelativePath)
		if existing, ok := byKey[key]; ok {
			pairs = append(pairs, &pair{key: key, path: item.RelativePath, left: item, collision: existing.left.RelativePath})
			continue
		}
		p := &pair{key: key, path: item.RelativePath, left: item}
		byKey[key] = p
		pairs = append(pairs, p)
	}

	seenRight := make(map[string]string, len(rightItems))
	for i := range rightItems {
		item := &rightItems[i]
		key := foldKey(item.RelativePath)
		if first, ok := seenRight[key]; ok {
			pairs = append(pairs, &pair{key: key, path: item.RelativePath, right: item, collision: first})
			continue
		}
		seenRight[key] = item.RelativePath

		if p, ok := byKey[key]; ok {
			p.right = item
			continue
		}
		p := &pair{key: key, path: item.RelativePath, right: item}
		byKey[key] = p
		pairs = append(pairs, p)
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].path < pairs[j].path
	})

	return pairs
}

// classifySafe turns a panic while classifying into an Error item
func (a *Aggregator) classifySafe(ctx context.Context, p *pair) (item models.ComparisonItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error(ctx, "Error comparing item", fmt.Errorf("panic: %v", r), logging.Fields{"path": p.path})
			item = errorItem(p, fmt.Sprintf("Unexpected comparison error: %v", r))
			err = nil
		}
	}()
	return a.classify(ctx, p)
}

// classify returns the item for p. The error is set only on cancellation.
func (a *Aggregator) classify(ctx context.Context, p *pair) (models.ComparisonItem, error) {
	item := models.ComparisonItem{
		RelativePath: p.path,
		Left:         p.left,
		Right:        p.right,
	}

	switch {
	case p.collision != "":
		return errorItem(p, fmt.Sprintf("Path differs only by case from %s", p.collision)), nil

	case p.right == nil:
		item.Status = models.StatusLeftOnly

	case p.left == nil:
		item.Status = models.StatusRightOnly

	case p.left.IsDirectory != p.right.IsDirectory:
		item.Status = models.StatusDifferent

	case p.left.IsDirectory:
		item.Status = models.StatusIdentical

	case !a.comparer.CanCompare(ctx, p.left.FullPath, p.right.FullPath):
		return errorItem(p, "File comparison not supported for this file type"), nil

	default:
		identical, err := a.comparer.CompareFiles(ctx, p.left.FullPath, p.right.FullPath)
		if err != nil {
			if models.IsCancelled(err) {
				return models.ComparisonItem{}, err
			}
			a.logger.Warn(ctx, "File comparison failed", logging.Fields{
				"path":  p.path,
				"error": err.Error(),
			})
			return errorItem(p, err.Error()), nil
		}
		if identical {
			item.Status = models.StatusIdentical
		} else {
			item.Status = models.StatusDifferent
		}
	}

	return item, nil
}

func errorItem(p *pair, message string) models.ComparisonItem {
	return models.ComparisonItem{
		RelativePath: p.path,
		Left:         p.left,
		Right:        p.right,
		Status:       models.StatusError,
		ErrorMessage: message,
	}
}

// sideError prefixes err with which root failed, keeping its kind
func sideError(prefix string, err error) error {
	if models.IsCancelled(err) {
		return models.WrapError(models.KindCancelled, "Operation was cancelled", err)
	}
	return models.WrapError(models.KindOf(err), fmt.Sprintf("%s: %s", prefix, err.Error()), err)
}
