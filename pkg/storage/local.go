package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local is the OS filesystem backend
type Local struct{}

// NewLocal creates a new local filesystem backend
func NewLocal() *Local {
	return &Local{}
}

// Stat returns metadata for path, following symlinks
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	fi := toFileInfo(path, info)
	return &fi, nil
}

// ReadDir lists the direct children of path.
// Symlinks are resolved; a link whose target cannot be stat'ed (dangling,
// looping or unreadable) is reported as an empty file.
// Entries removed between listing and stat are left out.
func (l *Local) ReadDir(ctx context.Context, path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fullPath := filepath.Join(path, entry.Name())

		if entry.Type()&fs.ModeSymlink != 0 {
			fi, err := statSymlink(fullPath)
			if err != nil {
				return nil, err
			}
			infos = append(infos, fi)
			continue
		}

		info, err := entry.Info()
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", fullPath, err)
		}
		infos = append(infos, toFileInfo(fullPath, info))
	}

	return infos, nil
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func statSymlink(path string) (FileInfo, error) {
	target, err := os.Stat(path)
	if err == nil {
		fi := toFileInfo(path, target)
		fi.IsSymlink = true
		return fi, nil
	}

	link, err := os.Lstat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return FileInfo{
		Path:        path,
		Name:        link.Name(),
		ModTime:     link.ModTime(),
		IsSymlink:   true,
		Permissions: uint32(link.Mode().Perm()),
	}, nil
}

func toFileInfo(path string, info os.FileInfo) FileInfo {
	fi := FileInfo{
		Path:        path,
		Name:        info.Name(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		Permissions: uint32(info.Mode().Perm()),
	}
	if !fi.IsDir {
		fi.Size = info.Size()
	}
	return fi
}
