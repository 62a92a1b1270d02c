package gerrit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/ericfisherdev/recheckhub/internal/domain/model"
)

// Wire types for one line of "gerrit query --format=JSON" output. Numeric
// fields arrive as strings on older servers and as numbers on newer ones;
// json.Number absorbs both.
type queryRecord struct {
	Type            string        `json:"type"` // Non-empty only on the stats/error trailer record.
	Number          json.Number   `json:"number"`
	Subject         string        `json:"subject"`
	URL             string        `json:"url"`
	Owner           account       `json:"owner"`
	Comments        []wireComment `json:"comments"`
	CurrentPatchSet *wirePatchSet `json:"currentPatchSet"`
}

type account struct {
	Username string `json:"username"`
}

type wireComment struct {
	Timestamp int64   `json:"timestamp"` // Unix seconds.
	Reviewer  account `json:"reviewer"`
	Message   string  `json:"message"`
}

type wirePatchSet struct {
	Number    json.Number    `json:"number"`
	Revision  string         `json:"revision"`
	CreatedOn int64          `json:"createdOn"` // Unix seconds.
	Approvals []wireApproval `json:"approvals"`
}

type wireApproval struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// patchSetHeader is the "Patch Set <n>:" line Gerrit prepends to every
// comment message, plus whatever trails on that line and the blank lines
// after it.
var patchSetHeader = regexp.MustCompile(`^Patch Set \d+:[^\n]*\n*`)

// parseQueryOutput decodes the line-delimited JSON a gerrit query emits.
// The trailing stats record is dropped; records that fail to decode or lack
// the fields the engine needs are skipped with a warning so one malformed
// review can never take down a run.
func parseQueryOutput(out []byte) ([]model.Review, error) {
	var reviews []model.Review

	sc := bufio.NewScanner(bytes.NewReader(out))
	// Review records carry full comment histories and can run long.
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec queryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			slog.Warn("skipping unparseable query record", "error", err)
			continue
		}
		if rec.Type != "" {
			continue
		}

		review, err := mapReview(rec)
		if err != nil {
			slog.Warn("skipping malformed review record", "change", rec.Number.String(), "error", err)
			continue
		}
		reviews = append(reviews, review)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan query output: %w", err)
	}
	return reviews, nil
}

// mapReview converts one wire record to the domain model.
func mapReview(rec queryRecord) (model.Review, error) {
	number, err := rec.Number.Int64()
	if err != nil {
		return model.Review{}, fmt.Errorf("change number %q: %w", rec.Number.String(), err)
	}
	if rec.CurrentPatchSet == nil {
		return model.Review{}, errors.New("missing current patch set")
	}
	if rec.CurrentPatchSet.Revision == "" {
		return model.Review{}, errors.New("current patch set has no revision")
	}

	comments := make([]model.Comment, 0, len(rec.Comments))
	for _, c := range rec.Comments {
		comments = append(comments, model.Comment{
			Author:   c.Reviewer.Username,
			Message:  stripPatchSetHeader(c.Message),
			PostedAt: time.Unix(c.Timestamp, 0).UTC(),
		})
	}

	psNumber, err := rec.CurrentPatchSet.Number.Int64()
	if err != nil {
		return model.Review{}, fmt.Errorf("patch set number %q: %w", rec.CurrentPatchSet.Number.String(), err)
	}

	approvals := make([]model.Approval, 0, len(rec.CurrentPatchSet.Approvals))
	for _, a := range rec.CurrentPatchSet.Approvals {
		value, err := strconv.Atoi(a.Value)
		if err != nil {
			slog.Warn("skipping approval with non-numeric value", "type", a.Type, "value", a.Value)
			continue
		}
		approvals = append(approvals, model.Approval{Type: a.Type, Value: value})
	}

	return model.Review{
		Number:   number,
		URL:      rec.URL,
		Owner:    rec.Owner.Username,
		Subject:  rec.Subject,
		Comments: comments,
		PatchSet: model.PatchSet{
			Number:    int(psNumber),
			Revision:  rec.CurrentPatchSet.Revision,
			CreatedAt: time.Unix(rec.CurrentPatchSet.CreatedOn, 0).UTC(),
			Approvals: approvals,
		},
	}, nil
}

// stripPatchSetHeader removes the header line Gerrit prepends to comment
// messages, leaving the text the author actually wrote. Without this the
// engine could not recognize previously posted recheck directives.
func stripPatchSetHeader(message string) string {
	return patchSetHeader.ReplaceAllString(message, "")
}
