package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/autocomment/internal/domain/model"
	"github.com/ericfisherdev/autocomment/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.IssueCommenter   = (*Client)(nil)
	_ driven.IdentityResolver = (*Client)(nil)
)

// AuthenticatedLogin returns the login of the user that owns the client's token.
func (c *Client) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("resolving authenticated user: %w", err)
	}
	if user.GetLogin() == "" {
		return "", errors.New("resolving authenticated user: empty login in response")
	}
	return user.GetLogin(), nil
}

// CreateIssueComment creates a comment on the issue. The issue's comments_url
// is used when it points at the configured API host; otherwise the URL is
// built from the repository and issue number.
func (c *Client) CreateIssueComment(ctx context.Context, repo model.Repository, issue model.Issue, body string) error {
	if err := validateRepo(repo); err != nil {
		return err
	}

	comment := &gh.IssueComment{Body: gh.Ptr(body)}

	if c.sameHost(issue.CommentsURL) {
		req, err := c.gh.NewRequest(http.MethodPost, issue.CommentsURL, comment)
		if err != nil {
			return fmt.Errorf("building comment request for %s#%d: %w", repo.FullName(), issue.Number, err)
		}
		if _, err := c.gh.Do(ctx, req, nil); err != nil {
			return fmt.Errorf("creating issue comment on %s#%d: %w", repo.FullName(), issue.Number, err)
		}
		return nil
	}

	_, _, err := c.gh.Issues.CreateComment(ctx, repo.Owner, repo.Name, issue.Number, comment)
	if err != nil {
		return fmt.Errorf("creating issue comment on %s#%d: %w", repo.FullName(), issue.Number, err)
	}

	return nil
}

// sameHost reports whether rawURL is an absolute URL on the API host. The
// token is attached to every request, so it must not follow a foreign host.
func (c *Client) sameHost(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return false
	}
	return u.Host == c.gh.BaseURL.Host
}
