package logging

import (
	"io"
	"sync"
)

// StreamLogger writes log lines to an io.Writer such as os.Stderr
type StreamLogger struct {
	*entries
}

// NewStreamLogger creates a logger that writes to w.
// Close does not close w.
func NewStreamLogger(w io.Writer, format Format, level Level) *StreamLogger {
	return &StreamLogger{entries: newEntries(&streamOutput{w: w}, level, format)}
}

type streamOutput struct {
	mu sync.Mutex
	w  io.Writer
}

func (o *streamOutput) write(line []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.w.Write(line)
}

func (o *streamOutput) close() error {
	return nil
}
