// Package git implements the ProgressPublisher port by committing the
// watermark file and pushing it with the git command line.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/ericfisherdev/autocomment/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ProgressPublisher = (*Publisher)(nil)

// CommitMessage is the commit subject template; %d is the new watermark.
const CommitMessage = "chore: update last processed issue to %d"

// Options configures a Publisher.
type Options struct {
	Dir         string // Working tree; empty means the process working directory.
	File        string // Watermark file to stage.
	Remote      string // Defaults to "origin".
	Branch      string // Remote branch; empty pushes to the current branch name.
	AuthorName  string
	AuthorEmail string
}

// Publisher commits the watermark file and pushes it to a remote.
type Publisher struct {
	opts Options
}

// NewPublisher creates a Publisher from opts.
func NewPublisher(opts Options) *Publisher {
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	return &Publisher{opts: opts}
}

// Publish stages the watermark file, commits it and pushes. When the file has
// no pending change nothing is committed or pushed.
func (p *Publisher) Publish(ctx context.Context, watermark int) error {
	changed, err := p.hasChanges(ctx)
	if err != nil {
		return err
	}
	if !changed {
		slog.Debug("watermark file unchanged in git, nothing to publish", "file", p.opts.File)
		return nil
	}

	target := "HEAD"
	if p.opts.Branch != "" {
		target = "HEAD:" + p.opts.Branch
	}

	commands := [][]string{
		{"add", "--", p.opts.File},
		append(p.identityArgs(), "commit", "-m", fmt.Sprintf(CommitMessage, watermark), "--", p.opts.File),
		{"push", p.opts.Remote, target},
	}

	for _, args := range commands {
		if _, err := p.git(ctx, args...); err != nil {
			return err
		}
	}

	slog.Info("published watermark", "watermark", watermark, "remote", p.opts.Remote, "target", target)
	return nil
}

// hasChanges reports whether the watermark file differs from HEAD or is untracked.
func (p *Publisher) hasChanges(ctx context.Context) (bool, error) {
	out, err := p.git(ctx, "status", "--porcelain", "--", p.opts.File)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

func (p *Publisher) identityArgs() []string {
	var args []string
	if p.opts.AuthorName != "" {
		args = append(args, "-c", "user.name="+p.opts.AuthorName)
	}
	if p.opts.AuthorEmail != "" {
		args = append(args, "-c", "user.email="+p.opts.AuthorEmail)
	}
	return args
}

func (p *Publisher) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.opts.Dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w\nOutput: %s", strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}
