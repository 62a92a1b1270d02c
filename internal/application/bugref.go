package application

import (
	"regexp"
	"strconv"
)

// bugLink matches a bug-tracker link in a failure-classification comment.
var bugLink = regexp.MustCompile(`https://bugs\.launchpad\.net/bugs/(\d+)`)

// ExtractBugNumber returns the first bug number referenced in a
// classification comment body, or (0, false) when none is present. When
// multiple links appear the first in document order wins; arbitrarily
// picking one is the documented policy, not an error.
func ExtractBugNumber(body string) (int64, bool) {
	m := bugLink.FindStringSubmatch(body)
	if m == nil {
		return 0, false
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
