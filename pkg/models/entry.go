package models

import (
	"time"
)

// FileSystemItem represents one entry found while scanning a directory tree
type FileSystemItem struct {
	// FullPath is the absolute path on the filesystem
	FullPath string `json:"full_path"`

	// Name is the last path element
	Name string `json:"name"`

	// IsDirectory indicates if this is a directory
	IsDirectory bool `json:"is_directory"`

	// Size in bytes, nil for directories
	Size *int64 `json:"size,omitempty"`

	// LastModified is the last modification time
	LastModified time.Time `json:"last_modified"`

	// RelativePath is the path relative to the scan root, always '/' separated
	RelativePath string `json:"relative_path"`
}

// FileSize returns the size, or 0 for directories
func (i *FileSystemItem) FileSize() int64 {
	if i == nil || i.Size == nil {
		return 0
	}
	return *i.Size
}

// ProgressFunc receives free-text status messages in traversal order
type ProgressFunc func(message string)

// FractionFunc receives completion fractions between 0 and 1
type FractionFunc func(fraction float64)

// Report calls p if it is set
func (p ProgressFunc) Report(message string) {
	if p != nil {
		p(message)
	}
}

// Report calls f if it is set
func (f FractionFunc) Report(fraction float64) {
	if f != nil {
		f(fraction)
	}
}
