package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// FileLogger writes log lines to a file with size-based rotation
type FileLogger struct {
	*entries
}

// NewFileLogger creates a new file logger, appending to an existing file
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	out := &fileOutput{config: config}
	if err := out.open(); err != nil {
		return nil, err
	}

	return &FileLogger{entries: newEntries(out, config.Level, config.Format)}, nil
}

type fileOutput struct {
	mu          sync.Mutex
	config      FileLoggerConfig
	file        *os.File
	currentSize int64
}

func (o *fileOutput) open() error {
	file, err := os.OpenFile(o.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	o.file = file
	o.currentSize = info.Size()
	return nil
}

func (o *fileOutput) write(line []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.file == nil {
		return
	}

	if o.config.MaxSize > 0 && o.currentSize >= o.config.MaxSize {
		o.rotate()
		if o.file == nil {
			return
		}
	}

	n, _ := o.file.Write(line)
	o.currentSize += int64(n)
}

func (o *fileOutput) close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.file == nil {
		return nil
	}
	err := o.file.Close()
	o.file = nil
	return err
}

// rotate shifts path.N to path.N+1, moves the live file to path.1 and
// drops anything past MaxBackups
func (o *fileOutput) rotate() {
	o.file.Close()
	o.file = nil

	path := o.config.Path
	for i := o.config.MaxBackups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
	}

	if o.config.MaxBackups > 0 {
		os.Rename(path, path+".1")
		os.Remove(fmt.Sprintf("%s.%d", path, o.config.MaxBackups+1))
	} else {
		os.Remove(path)
	}

	if err := o.open(); err != nil {
		return
	}
	o.currentSize = 0
}
