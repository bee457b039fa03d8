package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/differ/pkg/logging"
	"github.com/sdejongh/differ/pkg/models"
	"github.com/sdejongh/differ/pkg/storage"
)

const (
	// DefaultBufferSize is the read buffer used while hashing
	DefaultBufferSize = 64 * 1024
	// MinBufferSize is the smallest accepted read buffer
	MinBufferSize = 4096
)

// HashComparator compares files by streaming them through a digest
type HashComparator struct {
	backend    storage.Backend
	logger     logging.Logger
	algorithm  *Algorithm
	bufferSize int
	bufferPool *sync.Pool
}

// Option configures a HashComparator
type Option func(*HashComparator)

// WithAlgorithm selects the digest. Unknown names are reported by GetAlgorithm.
func WithAlgorithm(algorithm *Algorithm) Option {
	return func(c *HashComparator) {
		if algorithm != nil {
			c.algorithm = algorithm
		}
	}
}

// WithBufferSize sets the read buffer size, clamped to MinBufferSize
func WithBufferSize(size int) Option {
	return func(c *HashComparator) {
		c.bufferSize = size
	}
}

// NewHashComparator creates a new hash-based comparator reading through backend
func NewHashComparator(backend storage.Backend, logger logging.Logger, opts ...Option) *HashComparator {
	c := &HashComparator{
		backend:    backend,
		logger:     logging.OrNull(logger),
		bufferSize: DefaultBufferSize,
	}
	c.algorithm, _ = GetAlgorithm(DefaultAlgorithm)

	for _, opt := range opts {
		opt(c)
	}

	if c.bufferSize < MinBufferSize {
		c.bufferSize = MinBufferSize
	}
	bufferSize := c.bufferSize
	c.bufferPool = &sync.Pool{
		New: func() interface{} {
			buf := make([]byte, bufferSize)
			return &buf
		},
	}

	return c
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return "hash"
}

// Description returns a human-readable summary of the method
func (c *HashComparator) Description() string {
	return fmt.Sprintf("Compares files by computing %s digests. Suitable for all file types.", c.algorithm.Name)
}

// Algorithm returns the digest name in use
func (c *HashComparator) Algorithm() string {
	return c.algorithm.Name
}

// CanCompare reports whether both paths exist as files
func (c *HashComparator) CanCompare(ctx context.Context, leftPath, rightPath string) bool {
	return c.isFile(ctx, leftPath) && c.isFile(ctx, rightPath)
}

func (c *HashComparator) isFile(ctx context.Context, path string) bool {
	info, err := c.backend.Stat(ctx, path)
	return err == nil && info.IsRegular()
}

// CompareFiles compares two files using their digests
func (c *HashComparator) CompareFiles(ctx context.Context, leftPath, rightPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, models.WrapError(models.KindCancelled, "Operation was cancelled", err)
	}

	c.logger.Debug(ctx, "Comparing files", logging.Fields{
		"left":  leftPath,
		"right": rightPath,
	})

	leftInfo, err := c.backend.Stat(ctx, leftPath)
	if err != nil {
		return false, statError("Left", leftPath, err)
	}

	rightInfo, err := c.backend.Stat(ctx, rightPath)
	if err != nil {
		return false, statError("Right", rightPath, err)
	}

	// If sizes differ, files are different
	if leftInfo.Size != rightInfo.Size {
		c.logger.Debug(ctx, "Files have different sizes", logging.Fields{
			"left_size":  leftInfo.Size,
			"right_size": rightInfo.Size,
		})
		return false, nil
	}

	if leftInfo.Size == 0 {
		c.logger.Debug(ctx, "Both files are empty, considering them identical", nil)
		return true, nil
	}

	leftHash, err := c.computeHash(ctx, leftPath)
	if err != nil {
		return false, c.hashError(ctx, leftPath, err)
	}

	rightHash, err := c.computeHash(ctx, rightPath)
	if err != nil {
		return false, c.hashError(ctx, rightPath, err)
	}

	identical := bytes.Equal(leftHash, rightHash)
	c.logger.Debug(ctx, "Hash comparison finished", logging.Fields{
		"algorithm": c.algorithm.Name,
		"identical": identical,
	})

	return identical, nil
}

// computeHash streams path through the digest, checking ctx between reads
func (c *HashComparator) computeHash(ctx context.Context, path string) ([]byte, error) {
	reader, err := c.backend.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	hasher := c.algorithm.NewFunc()

	bufPtr := c.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer c.bufferPool.Put(bufPtr)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	return hasher.Sum(nil), nil
}

func statError(side, path string, err error) error {
	kind := models.ClassifyError(err)
	switch kind {
	case models.KindNotFound:
		return models.WrapError(kind, fmt.Sprintf("%s file does not exist: %s", side, path), err)
	case models.KindAccessDenied:
		return models.WrapError(kind, fmt.Sprintf("Access denied: %s", path), err)
	case models.KindCancelled:
		return models.WrapError(kind, "Operation was cancelled", err)
	default:
		return models.WrapError(kind, fmt.Sprintf("I/O error: %v", err), err)
	}
}

func (c *HashComparator) hashError(ctx context.Context, path string, err error) error {
	kind := models.ClassifyError(err)
	switch kind {
	case models.KindCancelled:
		c.logger.Debug(ctx, "File comparison was cancelled", nil)
		return models.WrapError(kind, "Operation was cancelled", err)
	case models.KindNotFound:
		c.logger.Error(ctx, "File vanished while comparing", err, logging.Fields{"path": path})
		return models.WrapError(kind, fmt.Sprintf("File does not exist: %s", path), err)
	case models.KindAccessDenied:
		c.logger.Error(ctx, "Access denied while comparing files", err, logging.Fields{"path": path})
		return models.WrapError(kind, fmt.Sprintf("Access denied: %v", err), err)
	default:
		c.logger.Error(ctx, "I/O error while comparing files", err, logging.Fields{"path": path})
		return models.WrapError(models.KindIO, fmt.Sprintf("I/O error: %v", err), err)
	}
}
