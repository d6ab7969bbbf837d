package driven

import (
	"context"

	"github.com/ericfisherdev/autocomment/internal/domain/model"
)

// IssueCommenter defines the driven port for GitHub write operations.
// It is kept separate from IssueSource so read-only callers never see it.
type IssueCommenter interface {
	// CreateIssueComment posts body as a new comment on the issue.
	CreateIssueComment(ctx context.Context, repo model.Repository, issue model.Issue, body string) error
}

// IdentityResolver resolves the login that owns the configured token.
type IdentityResolver interface {
	AuthenticatedLogin(ctx context.Context) (string, error)
}
