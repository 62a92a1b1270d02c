package driven

import "context"

// BugTracker defines the driven port for bug-tracker lookups. Used only to
// enrich log output; a failing tracker never blocks a directive.
type BugTracker interface {
	// FetchBugTitle returns the title of the given bug, or an error when the
	// bug cannot be fetched.
	FetchBugTitle(ctx context.Context, bugNumber int64) (string, error)
}
