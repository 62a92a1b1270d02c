package model

import "time"

// Review represents one open Gerrit change with its discussion thread and
// current patch set, as returned by a gerrit query with --comments and
// --current-patch-set. It is an immutable snapshot; nothing in this system
// mutates it after the fetch.
type Review struct {
	Number   int64 // Monotonically assigned change number; used for recency checks.
	URL      string
	Owner    string // Owner's username.
	Subject  string
	Comments []Comment // Chronological order, oldest first.
	PatchSet PatchSet  // The current (latest) patch set.
}

// LastCommentAt returns the timestamp of the most recent comment, or the zero
// time when the review has no comments.
func (r Review) LastCommentAt() time.Time {
	if len(r.Comments) == 0 {
		return time.Time{}
	}
	return r.Comments[len(r.Comments)-1].PostedAt
}

// PatchSet is one revision of a change. Comments older than CreatedAt belong
// to a prior revision.
type PatchSet struct {
	Number    int
	Revision  string // Commit SHA; the target for posted directives.
	CreatedAt time.Time
	Approvals []Approval
}

// Approval is a single vote on a patch set.
type Approval struct {
	Type  string // e.g. "Code-Review", "Verified".
	Value int
}

// Comment is one entry in a review's discussion thread. The Gerrit adapter
// strips the "Patch Set <n>:" header when mapping, so Message holds the bare
// text the author (human or bot) wrote.
type Comment struct {
	Author   string // Reviewer's username.
	Message  string
	PostedAt time.Time
}
