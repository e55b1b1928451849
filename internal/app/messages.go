package app

import "github.com/jwulff/folio/internal/audit"

// AnalysisDoneMsg carries the outcome of one analysis call. Gen is the
// analysis generation the call was issued under.
type AnalysisDoneMsg struct {
	Gen     int
	Program audit.Program
	Report  *audit.Report
	Err     error
}

// RewriteDoneMsg carries the outcome of one rewrite call.
type RewriteDoneMsg struct {
	Gen  int
	Text string
	Err  error
}

// ClearTransientErrorMsg clears a transient error after a timeout. Seq
// identifies the error it was scheduled for.
type ClearTransientErrorMsg struct {
	Seq int
}
