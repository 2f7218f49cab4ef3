package domain

import (
	"fmt"
	"strings"
)

// LintIssue is a single lint finding normalized by the parser model
type LintIssue struct {
	LintMessage     string `json:"lintMessage"`
	SuggestionsText string `json:"suggestionsText"`
	Loc             int    `json:"loc"`
	Column          int    `json:"column"`
	FilePath        string `json:"filePath"`
}

// Location returns file:line for log messages
func (i LintIssue) Location() string {
	return fmt.Sprintf("%s:%d", i.FilePath, i.Loc)
}

// FixResult is the fixer model's report for one issue
type FixResult struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// Resolved reports whether the status is "resolved", ignoring case
func (r FixResult) Resolved() bool {
	return strings.EqualFold(r.Status, StatusResolved)
}

// RunResult holds the issues of a run and their index-aligned fix results.
// Results is empty when Issues is empty.
type RunResult struct {
	Issues  []LintIssue
	Results []FixResult
}

// ResultFor returns the fix result for issue i, if one exists
func (r RunResult) ResultFor(i int) (FixResult, bool) {
	if i < 0 || i >= len(r.Results) {
		return FixResult{}, false
	}
	return r.Results[i], true
}

// Unresolved counts issues without a resolved fix result
func (r RunResult) Unresolved() int {
	count := 0
	for i := range r.Issues {
		result, ok := r.ResultFor(i)
		if !ok || !result.Resolved() {
			count++
		}
	}
	return count
}

// Outcome classifies a completed run
func (r RunResult) Outcome() RunOutcome {
	switch {
	case len(r.Issues) == 0:
		return RunClean
	case r.Unresolved() == 0:
		return RunResolved
	default:
		return RunUnresolved
	}
}

// StatusCounts tallies results by their reported status (verbatim, not case-folded)
func (r RunResult) StatusCounts() map[string]int {
	counts := make(map[string]int, len(r.Results))
	for _, result := range r.Results {
		counts[result.Status]++
	}
	return counts
}
