package application_test

import (
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/autocomment/internal/application"
	"github.com/ericfisherdev/autocomment/internal/domain/model"
)

var strictPolicy = model.Policy{
	TargetUsers: []string{"anurag2787", "Carol"},
	BotUsername: "helper-bot",
	SkipClosed:  true,
	SkipSelf:    true,
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		issue   model.Issue
		policy  model.Policy
		comment bool
		reason  model.SkipReason
		advance bool
	}{
		{
			name:    "pull request above watermark advances but is skipped",
			issue:   model.Issue{Number: 11, Author: "anurag2787", State: model.IssueStateOpen, IsPullRequest: true},
			policy:  strictPolicy,
			reason:  model.SkipPullRequest,
			advance: true,
		},
		{
			name:   "pull request below watermark",
			issue:  model.Issue{Number: 2, Author: "anurag2787", State: model.IssueStateOpen, IsPullRequest: true},
			policy: strictPolicy,
			reason: model.SkipPullRequest,
		},
		{
			name:   "at watermark",
			issue:  model.Issue{Number: 5, Author: "anurag2787", State: model.IssueStateOpen},
			policy: strictPolicy,
			reason: model.SkipAlreadyProcessed,
		},
		{
			name:   "below watermark",
			issue:  model.Issue{Number: 3, Author: "x", State: model.IssueStateOpen},
			policy: strictPolicy,
			reason: model.SkipAlreadyProcessed,
		},
		{
			name:    "closed target issue advances but is skipped",
			issue:   model.Issue{Number: 7, Author: "anurag2787", State: model.IssueStateClosed},
			policy:  strictPolicy,
			reason:  model.SkipClosed,
			advance: true,
		},
		{
			name:    "closed allowed when policy permits",
			issue:   model.Issue{Number: 7, Author: "anurag2787", State: model.IssueStateClosed},
			policy:  model.Policy{TargetUsers: []string{"anurag2787"}},
			comment: true,
			advance: true,
		},
		{
			name:    "non-target author",
			issue:   model.Issue{Number: 8, Author: "mallory", State: model.IssueStateOpen},
			policy:  strictPolicy,
			reason:  model.SkipNotTarget,
			advance: true,
		},
		{
			name:    "target match is case-insensitive",
			issue:   model.Issue{Number: 9, Author: "carol", State: model.IssueStateOpen},
			policy:  strictPolicy,
			comment: true,
			advance: true,
		},
		{
			name:    "self authored target skipped",
			issue:   model.Issue{Number: 10, Author: "Helper-Bot", State: model.IssueStateOpen},
			policy:  model.Policy{TargetUsers: []string{"helper-bot"}, BotUsername: "helper-bot", SkipSelf: true},
			reason:  model.SkipSelf,
			advance: true,
		},
		{
			name:    "self guard disabled",
			issue:   model.Issue{Number: 10, Author: "helper-bot", State: model.IssueStateOpen},
			policy:  model.Policy{TargetUsers: []string{"helper-bot"}, BotUsername: "helper-bot"},
			comment: true,
			advance: true,
		},
		{
			name:    "qualifying issue",
			issue:   model.Issue{Number: 6, Author: "anurag2787", State: model.IssueStateOpen},
			policy:  strictPolicy,
			comment: true,
			advance: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := application.Decide(tc.issue, 5, tc.policy)

			assert.Equal(t, tc.comment, d.Comment)
			assert.Equal(t, tc.reason, d.Reason)
			assert.Equal(t, tc.advance, d.Advance)
		})
	}
}

func TestRenderComment(t *testing.T) {
	tmpl := template.Must(template.New("c").Parse("@{{.Author}} could you assign #{{.Number}} ({{.Title}}) to me?"))

	body, err := application.RenderComment(tmpl, model.Issue{Number: 6, Author: "anurag2787", Title: "Crash"})

	require.NoError(t, err)
	assert.Equal(t, "@anurag2787 could you assign #6 (Crash) to me?", body)
}

func TestRenderComment_Error(t *testing.T) {
	tmpl := template.Must(template.New("c").Parse("{{.Missing}}"))

	_, err := application.RenderComment(tmpl, model.Issue{Number: 2})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "#2")
}
