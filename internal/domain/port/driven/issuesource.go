package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/autocomment/internal/domain/model"
)

// ErrInvalidRepo is returned when a repository reference is missing its owner or name.
var ErrInvalidRepo = errors.New("invalid repository: owner and name are required")

// IssueSource defines the driven port for listing repository issues.
type IssueSource interface {
	// FetchIssues returns the first page (up to 100) of issues in the
	// repository, filtered by state and sorted by creation time ascending.
	// state is "open", "closed" or "all".
	FetchIssues(ctx context.Context, repo model.Repository, state model.IssueState) ([]model.Issue, error)
}
