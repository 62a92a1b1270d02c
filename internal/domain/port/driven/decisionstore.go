package driven

import (
	"context"

	"github.com/ericfisherdev/recheckhub/internal/domain/model"
)

// DecisionStore defines the driven port for the decision audit log.
// The log is history only: verdict computation never reads from it.
type DecisionStore interface {
	// RecordDecision appends one decision to the log.
	RecordDecision(ctx context.Context, d model.Decision) error
	// RecentDecisions returns up to limit decisions, most recent first.
	RecentDecisions(ctx context.Context, limit int) ([]model.Decision, error)
}
