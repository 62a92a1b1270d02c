package application

import (
	"strings"
	"time"

	"github.com/ericfisherdev/recheckhub/internal/domain/model"
)

// EligibilityRules holds the thresholds for the review-level veto layer.
// The layer is independent of CI outcome and is evaluated only when the
// decision engine produced an actionable verdict.
type EligibilityRules struct {
	MinChangeNumber int64         // Changes below this are treated as permanently archived.
	MinCommentAge   time.Duration // Freshness window for the classifier to post its analysis.
	ProposalBot     string        // Username of the automated proposal bot.
}

// requirementsSubjectPrefix marks the proposal bot's dependency-bump changes.
// Nobody monitors their CI status, so retrying them helps no one.
const requirementsSubjectPrefix = "Updated from global requirements"

// codeReviewLabel is the vote type whose terminal negative value vetoes any
// automated action.
const codeReviewLabel = "Code-Review"

// Eligible reports whether an actionable verdict may be acted upon. The
// current time is injected so the freshness rule is testable.
func Eligible(review model.Review, verdict model.Verdict, rules EligibilityRules, now time.Time) bool {
	if review.Number < rules.MinChangeNumber {
		return false
	}

	// A human already rejected the change; no retry can rescue it.
	for _, a := range review.PatchSet.Approvals {
		if a.Type == codeReviewLabel && a.Value <= -2 {
			return false
		}
	}

	if review.Owner == rules.ProposalBot &&
		strings.HasPrefix(review.Subject, requirementsSubjectPrefix) {
		return false
	}

	// Give the classification service a window to post before acting blindly.
	// Once a bug is already known, waiting longer adds no information.
	if verdict.Kind != model.VerdictRetryWithBug {
		if last := review.LastCommentAt(); !last.IsZero() && now.Sub(last) < rules.MinCommentAge {
			return false
		}
	}

	return true
}
