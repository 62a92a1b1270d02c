// Package driven defines the driven ports: the interfaces the application
// core needs from external systems (review server, bug tracker, storage).
package driven

import (
	"context"

	"github.com/ericfisherdev/recheckhub/internal/domain/model"
)

// ReviewSource defines the driven port for querying the review server.
type ReviewSource interface {
	// QueryOpenReviews runs the given search expression and returns the full
	// matching batch, each review with its complete comment history and
	// current patch set. One synchronous call per run; a failure aborts the run.
	QueryOpenReviews(ctx context.Context, query string) ([]model.Review, error)
}

// DirectiveSink defines the driven port for posting retry directives.
// It is intentionally separate from ReviewSource: the read and write sides
// are independently replaceable (and the write side is skipped in dry runs).
type DirectiveSink interface {
	// PostDirective posts message as a review comment against the given
	// patch-set revision. Best effort: a failure is reported to the caller
	// but must not stop the rest of the batch.
	PostDirective(ctx context.Context, revision, message string) error
}
