// Package application contains the recheck decision engine and the use-case
// orchestration around it.
package application

import (
	"regexp"
	"strings"

	"github.com/ericfisherdev/recheckhub/internal/domain/model"
)

// jobLine matches one job result line in a CI report:
//
//	- <job-name> <url> : <STATUS>
//
// Lines that do not match (prose, headers, vote summaries) are ignored.
var jobLine = regexp.MustCompile(`^- (\S+) https?://\S+ : (\S+)`)

// successStatus is the exact status token the CI report uses for a passing
// job. Every other token (FAILURE, ABORTED, TIMED_OUT, ...) counts as failed.
const successStatus = "SUCCESS"

// nonVotingMarker flags jobs whose result must never affect the verdict.
const nonVotingMarker = "(non-voting)"

// ParseJobOutcomes extracts per-job results from one CI report body.
// Non-voting job lines are skipped entirely regardless of status. An empty
// or prose-only report yields empty sets, which downstream treats as
// "no usable signal".
func ParseJobOutcomes(body string) model.JobOutcomes {
	outcomes := model.NewJobOutcomes()

	for _, line := range strings.Split(body, "\n") {
		if strings.Contains(line, nonVotingMarker) {
			continue
		}
		m := jobLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		job, status := m[1], m[2]
		if status == successStatus {
			outcomes.Successes[job] = true
		} else {
			outcomes.Failures[job] = true
		}
	}

	return outcomes
}
