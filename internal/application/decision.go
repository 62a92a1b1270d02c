package application

import "github.com/ericfisherdev/recheckhub/internal/domain/model"

// Decide computes the verdict for one review from its scan result. Rule
// order is significant; eligibility is a separate layer checked only for
// actionable verdicts.
func Decide(scan ScanResult, classifier FlakyClassifier) model.Verdict {
	if scan.ManualRecheck || scan.CIComment == nil {
		return model.NoAction()
	}

	outcomes := ParseJobOutcomes(scan.CIComment.Message)

	// A run where literally nothing passed looks like an infrastructure-wide
	// outage rather than flakiness; fail safe.
	if len(outcomes.Successes) == 0 {
		return model.NoAction()
	}

	// All green: there is nothing to retry.
	if len(outcomes.Failures) == 0 {
		return model.NoAction()
	}

	// Never paper over a real failure.
	for job := range outcomes.Failures {
		if !classifier.IsFlaky(job) {
			return model.NoAction()
		}
	}

	verdict := model.RetryNoBug()
	if scan.ClassificationComment != nil {
		if bug, ok := ExtractBugNumber(scan.ClassificationComment.Message); ok {
			verdict = model.RetryWithBug(bug)
		}
	}
	return verdict
}
