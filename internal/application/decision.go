package application

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/ericfisherdev/autocomment/internal/domain/model"
)

// Decide evaluates a single issue against the loaded watermark and policy.
// Every issue numbered above the watermark counts toward the new watermark,
// pull requests included, whether or not it goes on to receive a comment.
func Decide(issue model.Issue, watermark int, policy model.Policy) model.Decision {
	d := model.Decision{Advance: model.AdvanceOnInspect && issue.Number > watermark}

	switch {
	case issue.IsPullRequest:
		d.Reason = model.SkipPullRequest
	case issue.Number <= watermark:
		d.Reason = model.SkipAlreadyProcessed
	case policy.SkipClosed && issue.State == model.IssueStateClosed:
		d.Reason = model.SkipClosed
	case !policy.IsTarget(issue.Author):
		d.Reason = model.SkipNotTarget
	case policy.SkipSelf && policy.IsSelf(issue.Author):
		d.Reason = model.SkipSelf
	default:
		d.Comment = true
	}

	return d
}

// RenderComment executes tmpl for the issue.
func RenderComment(tmpl *template.Template, issue model.Issue) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, model.NewCommentData(issue)); err != nil {
		return "", fmt.Errorf("render comment for #%d: %w", issue.Number, err)
	}
	return buf.String(), nil
}
