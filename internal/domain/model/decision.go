package model

import "time"

// Decision is one audit-log entry: an actionable verdict reached for a
// review, whether or not the directive was actually posted. Decisions are
// write-mostly history; they never feed back into verdict computation.
type Decision struct {
	ID           int64
	ChangeNumber int64
	URL          string
	Revision     string
	Directive    string
	BugNumber    int64 // Zero when the directive carried no bug.
	Posted       bool  // False for dry-run decisions.
	DecidedAt    time.Time
}
