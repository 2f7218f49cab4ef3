package domain

// StatusResolved is the fix status reported by the model when an issue was fixed.
// Status comparison is case-insensitive.
const StatusResolved = "resolved"

// RunOutcome represents the final state of a lint fix run
type RunOutcome string

const (
	RunRunning    RunOutcome = "running"
	RunClean      RunOutcome = "clean"      // no lint issues found
	RunResolved   RunOutcome = "resolved"   // every issue resolved
	RunUnresolved RunOutcome = "unresolved" // at least one issue remains
	RunFailed     RunOutcome = "failed"     // pipeline aborted with an error
)

// Phase identifies which of the two model invocations is running
type Phase string

const (
	PhaseParse Phase = "parse"
	PhaseFix   Phase = "fix"
)
