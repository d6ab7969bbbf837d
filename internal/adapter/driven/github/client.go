// Package github implements the IssueSource and IssueCommenter ports using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/autocomment/internal/domain/model"
	"github.com/ericfisherdev/autocomment/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IssueSource = (*Client)(nil)

// pageSize is the number of issues requested per listing. Only the first page is read.
const pageSize = 100

// Client implements the driven.IssueSource port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. go-github-ratelimit (secondary rate limit middleware), only when secondaryRateLimit is set
//  2. httpcache (ETag-based conditional request caching)
//  3. oauth2 (static bearer token)
//  4. go-github (GitHub REST API client) rooted at apiURL
func NewClient(token, apiURL string, secondaryRateLimit bool) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		Base:   http.DefaultTransport,
	}

	httpClient := cacheTransport.Client()
	if secondaryRateLimit {
		httpClient = github_ratelimit.NewClient(cacheTransport)
	}

	return NewClientWithHTTPClient(httpClient, apiURL)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// The http.Client is responsible for authentication. Tests use it to inject an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchIssues retrieves the first page of issues for the given repository
// filtered by state. Results are sorted by creation time, oldest first.
// Pull requests are included (GitHub lists them as issues) and flagged.
func (c *Client) FetchIssues(ctx context.Context, repo model.Repository, state model.IssueState) ([]model.Issue, error) {
	if err := validateRepo(repo); err != nil {
		return nil, err
	}

	opts := &gh.IssueListByRepoOptions{
		State:     string(state),
		Sort:      "created",
		Direction: "asc",
		ListOptions: gh.ListOptions{
			PerPage: pageSize,
		},
	}

	issues, resp, err := c.gh.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("listing issues for %s: %w", repo.FullName(), err)
	}

	logRateLimit(resp, repo.FullName(), len(issues))

	result := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		result = append(result, mapIssue(issue))
	}

	return result, nil
}

// mapIssue converts a go-github Issue to a domain model Issue.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapIssue(issue *gh.Issue) model.Issue {
	return model.Issue{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Author:        issue.GetUser().GetLogin(),
		State:         model.IssueState(issue.GetState()),
		IsPullRequest: issue.IsPullRequest(),
		CommentsURL:   issue.GetCommentsURL(),
		URL:           issue.GetHTMLURL(),
		CreatedAt:     issue.GetCreatedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// validateRepo rejects repository references with an empty owner or name.
func validateRepo(repo model.Repository) error {
	if repo.Owner == "" || repo.Name == "" {
		return fmt.Errorf("%w: got %q", driven.ErrInvalidRepo, repo.FullName())
	}
	return nil
}
