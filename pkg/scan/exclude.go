package scan

import (
	"path"
	"strings"
)

type patternKind int

const (
	// name glob matched against the last path element: *.tmp
	patternBase patternKind = iota
	// glob matched against the whole relative path: build/*
	patternPath
	// directory prefix: .git/
	patternDir
	// glob matched at any depth: **/node_modules
	patternDeep
)

type excludePattern struct {
	kind patternKind
	glob string
}

// Excluder decides whether a relative path is skipped during a scan.
// Relative paths are '/' separated.
type Excluder struct {
	patterns []excludePattern
}

// NewExcluder compiles patterns. Empty patterns are ignored.
func NewExcluder(patterns []string) *Excluder {
	e := &Excluder{}
	for _, p := range patterns {
		p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
		if p == "" {
			continue
		}

		switch {
		case strings.HasSuffix(p, "/"):
			e.patterns = append(e.patterns, excludePattern{kind: patternDir, glob: strings.TrimSuffix(p, "/")})
		case strings.HasPrefix(p, "**/"):
			e.patterns = append(e.patterns, excludePattern{kind: patternDeep, glob: strings.TrimPrefix(p, "**/")})
		case strings.Contains(p, "/"):
			e.patterns = append(e.patterns, excludePattern{kind: patternPath, glob: p})
		default:
			e.patterns = append(e.patterns, excludePattern{kind: patternBase, glob: p})
		}
	}
	return e
}

// Empty reports whether no pattern was configured
func (e *Excluder) Empty() bool {
	return e == nil || len(e.patterns) == 0
}

// Match reports whether relativePath is excluded
func (e *Excluder) Match(relativePath string, isDir bool) bool {
	if e.Empty() {
		return false
	}

	base := path.Base(relativePath)

	for _, p := range e.patterns {
		switch p.kind {
		case patternDir:
			// .git/ matches a directory named .git anywhere, and anything below it
			if isDir && matchGlob(base, p.glob) {
				return true
			}
			if relativePath == p.glob ||
				strings.HasPrefix(relativePath, p.glob+"/") ||
				strings.Contains(relativePath, "/"+p.glob+"/") {
				return true
			}

		case patternDeep:
			if matchGlob(base, p.glob) || matchGlob(relativePath, p.glob) {
				return true
			}
			if strings.HasSuffix(relativePath, "/"+p.glob) {
				return true
			}

		case patternPath:
			if matchGlob(relativePath, p.glob) || strings.HasSuffix(relativePath, "/"+p.glob) {
				return true
			}

		case patternBase:
			if matchGlob(base, p.glob) {
				return true
			}
		}
	}

	return false
}

func matchGlob(name, pattern string) bool {
	matched, _ := path.Match(pattern, name)
	return matched
}
