package model

import "strconv"

// VerdictKind enumerates the possible outcomes of evaluating one review.
type VerdictKind string

const (
	VerdictNoAction     VerdictKind = "no_action"
	VerdictRetryNoBug   VerdictKind = "retry_no_bug"
	VerdictRetryWithBug VerdictKind = "retry_with_bug"
)

// Verdict is the decision engine's result for a single review. It is a pure
// function of the review's comment history plus the extra-flaky allowlist;
// it carries no identity beyond its payload.
type Verdict struct {
	Kind      VerdictKind
	BugNumber int64 // Set only when Kind is VerdictRetryWithBug.
}

// NoAction returns the verdict that triggers nothing.
func NoAction() Verdict {
	return Verdict{Kind: VerdictNoAction}
}

// RetryNoBug returns the verdict that emits "recheck no bug".
func RetryNoBug() Verdict {
	return Verdict{Kind: VerdictRetryNoBug}
}

// RetryWithBug returns the verdict that emits "recheck bug <n>".
func RetryWithBug(bug int64) Verdict {
	return Verdict{Kind: VerdictRetryWithBug, BugNumber: bug}
}

// Actionable reports whether the verdict calls for a retry directive.
func (v Verdict) Actionable() bool {
	return v.Kind != VerdictNoAction
}

// Directive returns the exact text to post for an actionable verdict, and
// the empty string for NoAction. The strings are bit-exact: the review
// system's retry trigger matches on them literally.
func (v Verdict) Directive() string {
	switch v.Kind {
	case VerdictRetryNoBug:
		return "recheck no bug"
	case VerdictRetryWithBug:
		return "recheck bug " + strconv.FormatInt(v.BugNumber, 10)
	default:
		return ""
	}
}
