package models

import (
	"time"
)

// ComparisonStatus represents the outcome of comparing one relative path
type ComparisonStatus string

const (
	// StatusLeftOnly indicates the path exists only in the left tree
	StatusLeftOnly ComparisonStatus = "left_only"
	// StatusRightOnly indicates the path exists only in the right tree
	StatusRightOnly ComparisonStatus = "right_only"
	// StatusIdentical indicates both sides exist and are equal
	StatusIdentical ComparisonStatus = "identical"
	// StatusDifferent indicates both sides exist and differ
	StatusDifferent ComparisonStatus = "different"
	// StatusError indicates both sides exist but the comparison failed
	StatusError ComparisonStatus = "error"
)

// ComparisonItem holds the result for one relative path
type ComparisonItem struct {
	// RelativePath is the reconciliation key shared by both trees
	RelativePath string `json:"relative_path"`

	// Left is the entry from the left tree, nil if absent
	Left *FileSystemItem `json:"left,omitempty"`

	// Right is the entry from the right tree, nil if absent
	Right *FileSystemItem `json:"right,omitempty"`

	// Status is the classification of this path
	Status ComparisonStatus `json:"status"`

	// ErrorMessage explains an Error status
	ErrorMessage string `json:"error_message,omitempty"`
}

// IsDirectory reports whether the item is a directory, preferring the left side
func (c *ComparisonItem) IsDirectory() bool {
	if c.Left != nil {
		return c.Left.IsDirectory
	}
	if c.Right != nil {
		return c.Right.IsDirectory
	}
	return false
}

// DirectoryComparisonResult is the complete result of comparing two trees
type DirectoryComparisonResult struct {
	LeftPath       string           `json:"left_path"`
	RightPath      string           `json:"right_path"`
	Items          []ComparisonItem `json:"items"`
	ComparisonTime time.Time        `json:"comparison_time"`
}

// ComparisonSummary holds per-status counts
type ComparisonSummary struct {
	TotalItems     int `json:"total_items"`
	IdenticalItems int `json:"identical_items"`
	DifferentItems int `json:"different_items"`
	LeftOnlyItems  int `json:"left_only_items"`
	RightOnlyItems int `json:"right_only_items"`
	ErrorItems     int `json:"error_items"`
}

// Summary counts the items per status
func (r *DirectoryComparisonResult) Summary() ComparisonSummary {
	s := ComparisonSummary{TotalItems: len(r.Items)}
	for i := range r.Items {
		switch r.Items[i].Status {
		case StatusIdentical:
			s.IdenticalItems++
		case StatusDifferent:
			s.DifferentItems++
		case StatusLeftOnly:
			s.LeftOnlyItems++
		case StatusRightOnly:
			s.RightOnlyItems++
		case StatusError:
			s.ErrorItems++
		}
	}
	return s
}

// HasDifferences reports whether any item is not identical
func (s ComparisonSummary) HasDifferences() bool {
	return s.IdenticalItems != s.TotalItems
}

// RunStatus represents the overall result of a command
type RunStatus string

const (
	// RunEqual indicates no differences were found
	RunEqual RunStatus = "equal"
	// RunDifferent indicates differences were found
	RunDifferent RunStatus = "different"
	// RunFailed indicates the operation failed
	RunFailed RunStatus = "failed"
	// RunCancelled indicates the operation was cancelled
	RunCancelled RunStatus = "cancelled"
)

// ExitCode returns the process exit code for the status
func (s RunStatus) ExitCode() int {
	switch s {
	case RunEqual:
		return 0
	case RunDifferent:
		return 1
	case RunFailed:
		return 2
	case RunCancelled:
		return 3
	default:
		return 2
	}
}

// StatusFromError returns RunCancelled or RunFailed for a non-nil err
func StatusFromError(err error) RunStatus {
	if IsCancelled(err) {
		return RunCancelled
	}
	return RunFailed
}
