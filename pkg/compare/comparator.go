package compare

import (
	"context"
)

// FileComparer decides whether two files have equal content
type FileComparer interface {
	// Name returns the name of the comparison method
	Name() string

	// Description returns a human-readable summary of the method
	Description() string

	// CanCompare reports whether both paths currently exist as files
	CanCompare(ctx context.Context, leftPath, rightPath string) bool

	// CompareFiles returns true when the files are byte-identical.
	// Failures are *models.Error values.
	CompareFiles(ctx context.Context, leftPath, rightPath string) (bool, error)
}
