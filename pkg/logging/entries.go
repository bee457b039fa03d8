package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// output receives fully formatted log lines. Implementations serialize writes.
type output interface {
	write(line []byte)
	close() error
}

// entries is the Logger shared by FileLogger and StreamLogger.
// Loggers derived through WithFields share the same output.
type entries struct {
	out    output
	level  Level
	format Format
	fields Fields
	now    func() time.Time
}

func newEntries(out output, level Level, format Format) *entries {
	return &entries{
		out:    out,
		level:  level,
		format: format,
		now:    time.Now,
	}
}

// Debug logs a debug message
func (l *entries) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *entries) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *entries) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *entries) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields
func (l *entries) WithFields(fields Fields) Logger {
	return &entries{
		out:    l.out,
		level:  l.level,
		format: l.format,
		fields: mergeFields(l.fields, fields),
		now:    l.now,
	}
}

// Close flushes and closes the underlying output
func (l *entries) Close() error {
	return l.out.close()
}

func (l *entries) log(level Level, msg string, err error, fields Fields) {
	if level < l.level {
		return
	}

	all := mergeFields(l.fields, fields)

	var line []byte
	if l.format == FormatJSON {
		var fmtErr error
		line, fmtErr = l.formatJSON(level, msg, err, all)
		if fmtErr != nil {
			return
		}
	} else {
		line = l.formatText(level, msg, err, all)
	}

	l.out.write(line)
}

func (l *entries) formatJSON(level Level, msg string, err error, fields Fields) ([]byte, error) {
	entry := map[string]interface{}{
		"timestamp": l.now().UTC().Format(time.RFC3339),
		"level":     LevelString(level),
		"message":   msg,
	}

	if err != nil {
		entry["error"] = err.Error()
	}

	for k, v := range fields {
		if _, reserved := entry[k]; reserved {
			continue
		}
		entry[k] = v
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil, jsonErr
	}

	return append(data, '\n'), nil
}

// formatText writes fields in key order so lines are stable
func (l *entries) formatText(level Level, msg string, err error, fields Fields) []byte {
	timestamp := l.now().UTC().Format("2006-01-02T15:04:05.000Z")

	line := fmt.Sprintf("%s [%s] %s", timestamp, LevelString(level), msg)

	if err != nil {
		line += fmt.Sprintf(" error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%v", k, fields[k])
	}

	return []byte(line + "\n")
}
