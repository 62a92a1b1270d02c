package application

import (
	"strings"

	"github.com/ericfisherdev/recheckhub/internal/domain/model"
)

// recheckPrefix marks a retry request already present in the thread: a manual
// "recheck" comment, or a directive this bot posted on an earlier run (the
// Gerrit adapter strips the patch-set header, so those start with "recheck"
// too).
const recheckPrefix = "recheck"

// ScanResult is what one backward walk over a review's comments produced.
type ScanResult struct {
	// CIComment is the most recent CI report on the current patch set, or nil
	// when none was found before the scan boundary.
	CIComment *model.Comment
	// ClassificationComment is the most recent failure-classification report
	// posted after the CI report, or nil.
	ClassificationComment *model.Comment
	// ManualRecheck is true when a retry was already requested; the review
	// must be left alone.
	ManualRecheck bool
}

// ScanComments walks the review's comments from most recent to oldest,
// looking for the CI report that pertains to the current patch set.
//
// Per comment, in order:
//   - a comment older than the current patch set ends the scan with no CI
//     comment (older comments belong to a prior revision);
//   - a comment starting with the recheck prefix aborts the scan entirely;
//   - the first comment authored by ciUser is the CI report, and the scan
//     stops there.
//
// A classification comment is accepted only while no CI comment has been
// found, i.e. only when it is chronologically after the CI report. This
// approximates "posted immediately after the CI report" and can misfire when
// storage order disagrees with timestamps; known approximation, kept as is.
func ScanComments(review model.Review, ciUser, classifierUser string) ScanResult {
	var result ScanResult

	for i := len(review.Comments) - 1; i >= 0; i-- {
		c := &review.Comments[i]

		if c.PostedAt.Before(review.PatchSet.CreatedAt) {
			break
		}
		if strings.HasPrefix(c.Message, recheckPrefix) {
			return ScanResult{ManualRecheck: true}
		}

		switch c.Author {
		case ciUser:
			result.CIComment = c
			return result
		case classifierUser:
			if result.ClassificationComment == nil {
				result.ClassificationComment = c
			}
		}
	}

	// No CI report found before the boundary; any classification comment that
	// was seen is useless without one.
	return ScanResult{}
}
