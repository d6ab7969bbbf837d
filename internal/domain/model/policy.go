package model

import "strings"

// AdvanceOnInspect controls whether the watermark moves past every inspected
// issue, including ones later filtered out by state or author. It is always
// true: an issue below the watermark is never reconsidered, even if its author
// is added to the target set afterwards.
const AdvanceOnInspect = true

// Policy is the set of filter rules applied to each fetched issue.
type Policy struct {
	TargetUsers []string
	BotUsername string
	SkipClosed  bool
	SkipSelf    bool
}

// IsTarget reports whether login is in the target user set. Logins compare
// case-insensitively, as GitHub treats them.
func (p Policy) IsTarget(login string) bool {
	for _, u := range p.TargetUsers {
		if strings.EqualFold(u, login) {
			return true
		}
	}
	return false
}

// IsSelf reports whether login is the bot's own identity.
func (p Policy) IsSelf(login string) bool {
	return p.BotUsername != "" && strings.EqualFold(p.BotUsername, login)
}

// SkipReason explains why an issue did not receive a comment.
type SkipReason string

const (
	SkipNone             SkipReason = ""
	SkipPullRequest      SkipReason = "pull_request"
	SkipAlreadyProcessed SkipReason = "already_processed"
	SkipClosed           SkipReason = "closed"
	SkipNotTarget        SkipReason = "not_target"
	SkipSelf             SkipReason = "self"
)

// Decision is the outcome of evaluating one issue against the policy.
type Decision struct {
	Comment bool
	Reason  SkipReason
	// Advance is true when the issue counts toward the watermark.
	Advance bool
}
