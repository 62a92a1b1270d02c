package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/recheckhub/internal/application"
	"github.com/ericfisherdev/recheckhub/internal/domain/model"
)

const (
	ciUser         = "jenkins"
	classifierUser = "elasticrecheck"
)

var patchSetCreated = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// reviewWithComments builds a review whose current patch set was created at
// patchSetCreated, with the given comments appended in order.
func reviewWithComments(comments ...model.Comment) model.Review {
	return model.Review{
		Number:   90001,
		URL:      "https://review.example.org/90001",
		Owner:    "alice",
		Comments: comments,
		PatchSet: model.PatchSet{
			Number:    2,
			Revision:  "deadbeef",
			CreatedAt: patchSetCreated,
		},
	}
}

// at returns a comment posted the given number of minutes after patch-set
// creation (negative means before).
func at(minutes int, author, message string) model.Comment {
	return model.Comment{
		Author:   author,
		Message:  message,
		PostedAt: patchSetCreated.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestScanComments_CICommentLast(t *testing.T) {
	review := reviewWithComments(
		at(1, "bob", "Nice cleanup."),
		at(30, ciUser, "Build failed.\n\n- job-a http://l/a : FAILURE\n"),
	)

	result := application.ScanComments(review, ciUser, classifierUser)

	require.NotNil(t, result.CIComment)
	assert.Equal(t, ciUser, result.CIComment.Author)
	assert.Nil(t, result.ClassificationComment)
	assert.False(t, result.ManualRecheck)
}

func TestScanComments_ClassificationAfterCI(t *testing.T) {
	review := reviewWithComments(
		at(30, ciUser, "Build failed."),
		at(31, classifierUser, "I think you hit https://bugs.launchpad.net/bugs/1357476"),
	)

	result := application.ScanComments(review, ciUser, classifierUser)

	require.NotNil(t, result.CIComment)
	require.NotNil(t, result.ClassificationComment)
	assert.Equal(t, classifierUser, result.ClassificationComment.Author)
}

func TestScanComments_ClassificationBeforeCIIsIgnored(t *testing.T) {
	// A classifier comment from an earlier CI run, chronologically before the
	// newest CI report, must not be paired with it.
	review := reviewWithComments(
		at(10, classifierUser, "stale analysis https://bugs.launchpad.net/bugs/1111111"),
		at(30, ciUser, "Build failed."),
	)

	result := application.ScanComments(review, ciUser, classifierUser)

	require.NotNil(t, result.CIComment)
	assert.Nil(t, result.ClassificationComment)
}

func TestScanComments_MostRecentCICommentWins(t *testing.T) {
	review := reviewWithComments(
		at(5, ciUser, "old report"),
		at(30, ciUser, "new report"),
	)

	result := application.ScanComments(review, ciUser, classifierUser)

	require.NotNil(t, result.CIComment)
	assert.Equal(t, "new report", result.CIComment.Message)
}

func TestScanComments_ManualRecheckAborts(t *testing.T) {
	t.Run("bare recheck", func(t *testing.T) {
		review := reviewWithComments(
			at(30, ciUser, "Build failed."),
			at(45, "bob", "recheck"),
		)

		result := application.ScanComments(review, ciUser, classifierUser)

		assert.True(t, result.ManualRecheck)
		assert.Nil(t, result.CIComment)
	})

	t.Run("directive from a prior run", func(t *testing.T) {
		review := reviewWithComments(
			at(30, ciUser, "Build failed."),
			at(45, "recheckbot", "recheck no bug"),
		)

		result := application.ScanComments(review, ciUser, classifierUser)

		assert.True(t, result.ManualRecheck)
	})
}

func TestScanComments_StopsAtPatchSetBoundary(t *testing.T) {
	t.Run("CI report on a prior revision is not used", func(t *testing.T) {
		review := reviewWithComments(
			at(-60, ciUser, "Build failed on patch set 1."),
			at(1, "bob", "Uploaded a new patch set."),
		)

		result := application.ScanComments(review, ciUser, classifierUser)

		assert.Nil(t, result.CIComment)
	})

	t.Run("recheck on a prior revision does not abort", func(t *testing.T) {
		review := reviewWithComments(
			at(-60, "bob", "recheck"),
			at(30, ciUser, "Build failed."),
		)

		result := application.ScanComments(review, ciUser, classifierUser)

		assert.False(t, result.ManualRecheck)
		require.NotNil(t, result.CIComment)
	})
}

func TestScanComments_UnrelatedCommentsAreSkipped(t *testing.T) {
	review := reviewWithComments(
		at(30, ciUser, "Build failed."),
		at(40, "bob", "That failure looks unrelated to the change."),
	)

	result := application.ScanComments(review, ciUser, classifierUser)

	require.NotNil(t, result.CIComment)
	assert.Equal(t, "Build failed.", result.CIComment.Message)
}

func TestScanComments_NoComments(t *testing.T) {
	result := application.ScanComments(reviewWithComments(), ciUser, classifierUser)

	assert.Nil(t, result.CIComment)
	assert.Nil(t, result.ClassificationComment)
	assert.False(t, result.ManualRecheck)
}
