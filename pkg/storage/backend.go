package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file or directory
type FileInfo struct {
	Path        string
	Name        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	IsSymlink   bool
	Permissions uint32
}

// IsRegular reports whether the entry is a plain file
func (fi *FileInfo) IsRegular() bool {
	return !fi.IsDir
}

// Backend defines the read-only filesystem operations the engine needs.
// Returned errors wrap the underlying os errors so errors.Is keeps working
// against os.ErrNotExist and os.ErrPermission.
type Backend interface {
	// Stat returns metadata for path, following symlinks
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// ReadDir lists the direct children of a directory, sorted by name
	ReadDir(ctx context.Context, path string) ([]FileInfo, error)

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}
