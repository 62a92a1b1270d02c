package application

import "strings"

// flakyPrefixes lists job-name prefixes of the infrastructure test suites
// whose failures are known to be frequently unrelated to the change under
// review, in both pre-merge "check" and post-approval "gate" naming.
var flakyPrefixes = []string{
	"check-tempest-",
	"gate-tempest-",
	"check-devstack-",
	"gate-devstack-",
	"check-grenade-",
	"gate-grenade-",
}

// FlakyClassifier decides whether a failed job may be retried without a human
// look. It is a total, deterministic predicate over job names.
type FlakyClassifier struct {
	extra map[string]bool
}

// NewFlakyClassifier builds a classifier that additionally treats the given
// exact job names as flaky. A nil or empty extra list is equivalent to none.
func NewFlakyClassifier(extra []string) FlakyClassifier {
	m := make(map[string]bool, len(extra))
	for _, name := range extra {
		if name != "" {
			m[name] = true
		}
	}
	return FlakyClassifier{extra: m}
}

// IsFlaky reports whether the named job is a known-flaky infrastructure job.
func (c FlakyClassifier) IsFlaky(job string) bool {
	for _, prefix := range flakyPrefixes {
		if strings.HasPrefix(job, prefix) {
			return true
		}
	}
	return c.extra[job]
}
