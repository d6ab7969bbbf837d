package model

import "time"

// IssueState represents the state of an issue as reported by GitHub.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
	IssueStateAll    IssueState = "all" // List filter only; never the state of a fetched issue.
)

// Issue represents a single entry from the repository issue listing.
// GitHub returns pull requests from the same endpoint; IsPullRequest marks them.
type Issue struct {
	Number        int
	Title         string
	Author        string
	State         IssueState
	IsPullRequest bool
	CommentsURL   string // API URL for creating comments on this issue.
	URL           string // HTML URL, used for logging only.
	CreatedAt     time.Time
}
