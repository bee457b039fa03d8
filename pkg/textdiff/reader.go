package textdiff

import (
	"bufio"
	"bytes"
	"context"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lineContent pairs a line as read with the form used for matching
type lineContent struct {
	original   string
	normalized string
}

// readLines decodes path and splits it into lines. A UTF-8 BOM is dropped,
// UTF-16 BOMs switch the decoder, and invalid UTF-8 becomes U+FFFD.
func (s *Service) readLines(ctx context.Context, path string, opts normalizeOptions) ([]lineContent, error) {
	reader, err := s.backend.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(reader, decoder))
	// Every invalid byte may grow to three bytes of U+FFFD
	scanner.Buffer(make([]byte, 0, 64*1024), int(3*MaxFileSizeBytes)+4)
	scanner.Split(scanLines)

	var lines []lineContent
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := scanner.Text()
		lines = append(lines, lineContent{
			original:   line,
			normalized: normalize(line, opts),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return lines, nil
}

// scanLines is a bufio.SplitFunc accepting "\n", "\r\n" and a lone "\r" as
// terminators. A terminator at end of input does not start a new line.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		// A trailing '\r' may be the first half of "\r\n"
		if !atEOF {
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
