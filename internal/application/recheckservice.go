package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ericfisherdev/recheckhub/internal/domain/model"
	"github.com/ericfisherdev/recheckhub/internal/domain/port/driven"
)

// Settings carries the run-time parameters of one recheck batch.
type Settings struct {
	Query          string   // Review-server search expression.
	CIUser         string   // Authoring identity of the CI system.
	ClassifierUser string   // Authoring identity of the failure-classification service.
	ExtraFlakyJobs []string // Additional exact job names to treat as flaky.
	Rules          EligibilityRules
	Post           bool  // False means dry run: log decisions, post nothing.
	DebugChange    int64 // When non-zero, only this change number is evaluated.
}

// RecheckService orchestrates one batch: fetch the open failing reviews,
// evaluate each, and emit retry directives for the actionable ones. Reviews
// are evaluated sequentially; no state is shared across them or across runs.
type RecheckService struct {
	source   driven.ReviewSource
	sink     driven.DirectiveSink
	tracker  driven.BugTracker    // Optional; nil disables bug title lookups.
	store    driven.DecisionStore // Optional; nil disables the audit log.
	settings Settings
	logger   *slog.Logger
	now      func() time.Time
}

// NewRecheckService creates a RecheckService. tracker and store may be nil.
func NewRecheckService(
	source driven.ReviewSource,
	sink driven.DirectiveSink,
	tracker driven.BugTracker,
	store driven.DecisionStore,
	settings Settings,
) *RecheckService {
	return &RecheckService{
		source:   source,
		sink:     sink,
		tracker:  tracker,
		store:    store,
		settings: settings,
		logger:   slog.Default(),
		now:      time.Now,
	}
}

// SetNow overrides the service's clock. Test hook.
func (s *RecheckService) SetNow(now func() time.Time) {
	s.now = now
}

// Run executes one batch. A query failure aborts the run; a post failure is
// logged and the remaining reviews are still evaluated.
func (s *RecheckService) Run(ctx context.Context) error {
	reviews, err := s.source.QueryOpenReviews(ctx, s.settings.Query)
	if err != nil {
		return fmt.Errorf("query open reviews: %w", err)
	}

	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].Number < reviews[j].Number
	})

	classifier := NewFlakyClassifier(s.settings.ExtraFlakyJobs)

	acted := false
	for _, review := range reviews {
		if s.settings.DebugChange != 0 && review.Number != s.settings.DebugChange {
			continue
		}

		scan := ScanComments(review, s.settings.CIUser, s.settings.ClassifierUser)
		verdict := Decide(scan, classifier)
		s.logger.Debug("evaluated review",
			"change", review.Number,
			"verdict", string(verdict.Kind),
			"manual_recheck", scan.ManualRecheck,
		)

		if !verdict.Actionable() {
			continue
		}
		if !Eligible(review, verdict, s.settings.Rules, s.now()) {
			s.logger.Debug("verdict vetoed by eligibility rules", "change", review.Number)
			continue
		}

		acted = true
		s.act(ctx, review, verdict)
	}

	if !acted {
		s.logger.Info("no reviews need rechecks")
	}
	return nil
}

// Start runs an immediate batch, then repeats on the given interval until the
// context is canceled. Each cycle recomputes from scratch; a failed cycle is
// logged and the next one proceeds normally.
func (s *RecheckService) Start(ctx context.Context, interval time.Duration) {
	if err := s.Run(ctx); err != nil {
		s.logger.Error("recheck cycle failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("recheck service stopped")
			return
		case <-ticker.C:
			if err := s.Run(ctx); err != nil {
				s.logger.Error("recheck cycle failed", "error", err)
			}
		}
	}
}

// act posts (or dry-runs) the directive for one eligible review and records
// the decision. All failures here are non-fatal to the batch.
func (s *RecheckService) act(ctx context.Context, review model.Review, verdict model.Verdict) {
	directive := verdict.Directive()

	attrs := []any{
		"change", review.Number,
		"url", review.URL,
		"directive", directive,
		"post", s.settings.Post,
	}
	if verdict.Kind == model.VerdictRetryWithBug && s.tracker != nil {
		if title, err := s.tracker.FetchBugTitle(ctx, verdict.BugNumber); err != nil {
			s.logger.Warn("bug title lookup failed", "bug", verdict.BugNumber, "error", err)
		} else {
			attrs = append(attrs, "bug_title", title)
		}
	}

	posted := false
	if s.settings.Post {
		if err := s.sink.PostDirective(ctx, review.PatchSet.Revision, directive); err != nil {
			s.logger.Error("posting directive failed", "change", review.Number, "error", err)
		} else {
			posted = true
		}
	}

	s.logger.Info("recheck", attrs...)

	if s.store != nil {
		d := model.Decision{
			ChangeNumber: review.Number,
			URL:          review.URL,
			Revision:     review.PatchSet.Revision,
			Directive:    directive,
			BugNumber:    verdict.BugNumber,
			Posted:       posted,
			DecidedAt:    s.now(),
		}
		if err := s.store.RecordDecision(ctx, d); err != nil {
			s.logger.Warn("recording decision failed", "change", review.Number, "error", err)
		}
	}
}
