package output

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const defaultTermWidth = 120

// getUpdateInterval returns the progress update interval based on OS
// Windows terminals have higher latency with ANSI sequences, so we use a longer interval
func getUpdateInterval() time.Duration {
	if runtime.GOOS == "windows" {
		return 300 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// terminalWidth returns the width of w, or defaultTermWidth for pipes and files
func terminalWidth(w io.Writer) int {
	if file, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}

// StatusLine shows the latest progress message on a single rewritten line
type StatusLine struct {
	writer      io.Writer
	termWidth   int
	interval    time.Duration
	mu          sync.Mutex
	lastDisplay time.Time
	lastWidth   int
	now         func() time.Time
}

// NewStatusLine creates a status line writing to w
func NewStatusLine(w io.Writer) *StatusLine {
	return &StatusLine{
		writer:    w,
		termWidth: terminalWidth(w),
		interval:  getUpdateInterval(),
		now:       time.Now,
	}
}

// Report displays message, dropping updates that arrive faster than the
// refresh interval. Its signature matches models.ProgressFunc.
func (s *StatusLine) Report(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.lastDisplay.IsZero() && now.Sub(s.lastDisplay) < s.interval {
		return
	}
	s.lastDisplay = now

	line := s.truncateLine(message)
	pad := ""
	if n := s.lastWidth - len([]rune(line)); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	fmt.Fprintf(s.writer, "\r%s%s", line, pad)
	s.lastWidth = len([]rune(line))
}

// Done clears the status line
func (s *StatusLine) Done() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastWidth > 0 {
		fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", s.lastWidth))
		s.lastWidth = 0
	}
}

// truncateLine keeps a line one column short of the terminal width so it
// never wraps
func (s *StatusLine) truncateLine(line string) string {
	limit := s.termWidth - 1
	runes := []rune(line)
	if len(runes) <= limit {
		return line
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// fractionScale is the bar total; fractions are mapped onto it
const fractionScale = 1000

// DiffBar renders text diff completion fractions as a progress bar
type DiffBar struct {
	bar *pb.ProgressBar
}

// NewDiffBar creates and starts a progress bar writing to w
func NewDiffBar(w io.Writer) *DiffBar {
	bar := pb.New(fractionScale)
	bar.SetTemplateString(`{{ "Computing diff" }} {{ bar . }} {{ percent . }}`)
	bar.SetWriter(w)
	bar.SetMaxWidth(terminalWidth(w))
	bar.Start()
	return &DiffBar{bar: bar}
}

// Report moves the bar to fraction. Its signature matches models.FractionFunc.
func (d *DiffBar) Report(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	d.bar.SetCurrent(int64(fraction * fractionScale))
}

// Finish stops the bar
func (d *DiffBar) Finish() {
	d.bar.Finish()
}
