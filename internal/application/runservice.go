// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/ericfisherdev/autocomment/internal/domain/model"
	"github.com/ericfisherdev/autocomment/internal/domain/port/driven"
)

// RunOptions holds the non-port settings of a RunService.
type RunOptions struct {
	Repo       model.Repository
	State      model.IssueState
	Policy     model.Policy
	Template   *template.Template
	DryRun     bool
	Interval   time.Duration // Zero means Start performs a single pass.
	RunTimeout time.Duration // Zero means a pass is bounded only by the parent context.
}

// RunService fetches issues, comments on the ones that qualify, and advances
// the watermark.
type RunService struct {
	source    driven.IssueSource
	commenter driven.IssueCommenter
	store     driven.WatermarkStore
	publisher driven.ProgressPublisher
	opts      RunOptions
}

// NewRunService creates a new RunService. publisher may be nil, in which case
// the watermark is only stored locally.
func NewRunService(
	source driven.IssueSource,
	commenter driven.IssueCommenter,
	store driven.WatermarkStore,
	publisher driven.ProgressPublisher,
	opts RunOptions,
) *RunService {
	if opts.State == "" {
		opts.State = model.IssueStateAll
	}
	return &RunService{
		source:    source,
		commenter: commenter,
		store:     store,
		publisher: publisher,
		opts:      opts,
	}
}

// Start runs a pass immediately and then, if an interval is configured, once
// per interval until the context is canceled. Errors from individual passes
// are logged and do not stop the loop. With no interval the result of the
// single pass is returned.
func (s *RunService) Start(ctx context.Context) error {
	if s.opts.Interval <= 0 {
		_, err := s.RunOnce(ctx)
		return err
	}

	if _, err := s.RunOnce(ctx); err != nil {
		slog.Error("initial run failed", "error", err)
	}

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("run service stopped")
			return nil
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				slog.Error("run failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single pass. A failed comment aborts the pass before the
// watermark is saved, so the next pass sees the same issues again. A failed
// publish is logged and otherwise ignored.
func (s *RunService) RunOnce(ctx context.Context) (model.RunResult, error) {
	if s.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RunTimeout)
		defer cancel()
	}

	start := time.Now()
	result := model.RunResult{Skipped: map[model.SkipReason]int{}}

	watermark, err := s.store.Load(ctx)
	if err != nil {
		return result, fmt.Errorf("load watermark: %w", err)
	}
	result.PreviousWatermark = watermark
	result.Watermark = watermark

	issues, err := s.source.FetchIssues(ctx, s.opts.Repo, s.opts.State)
	if err != nil {
		return result, err
	}
	result.Fetched = len(issues)

	maxSeen := watermark
	for _, issue := range issues {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		d := Decide(issue, watermark, s.opts.Policy)
		if d.Advance && issue.Number > maxSeen {
			maxSeen = issue.Number
		}

		if !d.Comment {
			result.Skipped[d.Reason]++
			slog.Debug("issue skipped", "issue", issue.Number, "author", issue.Author, "reason", string(d.Reason))
			continue
		}

		if err := s.comment(ctx, issue); err != nil {
			return result, err
		}
		result.Commented = append(result.Commented, issue.Number)
	}

	result.Watermark = maxSeen

	if !result.Changed() {
		slog.Info("no new issues", "repo", s.opts.Repo.FullName(), "watermark", watermark)
		return result, nil
	}

	if s.opts.DryRun {
		slog.Info("dry run: watermark not saved", "watermark", maxSeen, "previous", watermark)
		return result, nil
	}

	if err := s.store.Save(ctx, maxSeen); err != nil {
		return result, fmt.Errorf("save watermark: %w", err)
	}
	result.Saved = true
	slog.Info("updated last issue", "watermark", maxSeen, "previous", watermark)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, maxSeen); err != nil {
			slog.Warn("publish watermark failed", "watermark", maxSeen, "error", err)
		} else {
			result.Published = true
		}
	}

	slog.Info("run complete",
		"repo", s.opts.Repo.FullName(),
		"fetched", result.Fetched,
		"commented", len(result.Commented),
		"watermark", result.Watermark,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return result, nil
}

// comment renders and posts the comment for a qualifying issue.
func (s *RunService) comment(ctx context.Context, issue model.Issue) error {
	body, err := RenderComment(s.opts.Template, issue)
	if err != nil {
		return err
	}

	if s.opts.DryRun {
		slog.Info("dry run: would comment on issue", "issue", issue.Number, "author", issue.Author, "body", body)
		return nil
	}

	if err := s.commenter.CreateIssueComment(ctx, s.opts.Repo, issue, body); err != nil {
		return err
	}

	slog.Info("commented on issue", "issue", issue.Number, "author", issue.Author, "url", issue.URL)
	return nil
}
