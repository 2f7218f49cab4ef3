package domain

import "time"

// Run represents one recorded lint fix run
type Run struct {
	ID              string
	LintCommand     string
	WorkDir         string
	ParserModel     string
	FixModel        string
	Concurrency     int
	Outcome         RunOutcome
	IssueCount      int
	UnresolvedCount int
	ErrorMessage    string
	StartedAt       time.Time
	FinishedAt      *time.Time
}

// Duration returns how long the run took, or zero while it is still running
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Finish records the pipeline's outcome. A non-nil err marks the run failed.
func (r *Run) Finish(result RunResult, err error, at time.Time) {
	r.FinishedAt = &at
	if err != nil {
		r.Outcome = RunFailed
		r.ErrorMessage = err.Error()
		return
	}
	r.Outcome = result.Outcome()
	r.IssueCount = len(result.Issues)
	r.UnresolvedCount = result.Unresolved()
}

// IssueRecord is a persisted issue together with its fix outcome
type IssueRecord struct {
	RunID   string
	Index   int
	Issue   LintIssue
	Status  string
	Summary string
}
