// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ericfisherdev/autocomment/internal/domain/model"
)

// DefaultCommentTemplate is the comment posted when no template is configured.
const DefaultCommentTemplate = "@{{.Author}} could you please assign this to me? I’m familiar with this area and would like to take it up."

// Storage backends for the watermark.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration. It is built once at startup and
// passed by pointer to the composition root; nothing mutates it afterwards.
type Config struct {
	GitHubToken string
	Owner       string
	Repo        string

	TargetUsers     []string
	BotUsername     string
	IssueState      string
	SkipClosed      bool
	SkipSelf        bool
	CommentTemplate *template.Template

	StateBackend string
	StateFile    string
	DBPath       string

	Publish        bool
	GitRemote      string
	GitBranch      string
	GitAuthorName  string
	GitAuthorEmail string

	APIURL             string
	SecondaryRateLimit bool
	PollInterval       time.Duration
	RunTimeout         time.Duration
	DryRun             bool
	LogLevel           slog.Level
}

// fileConfig mirrors the optional YAML file named by AUTOCOMMENT_CONFIG_FILE.
// Pointer fields distinguish "unset" from the zero value.
type fileConfig struct {
	TargetUsers     []string `yaml:"targetUsers"`
	BotUsername     *string  `yaml:"botUsername"`
	IssueState      *string  `yaml:"issueState"`
	SkipClosed      *bool    `yaml:"skipClosed"`
	SkipSelf        *bool    `yaml:"skipSelf"`
	CommentTemplate *string  `yaml:"commentTemplate"`
	StateBackend    *string  `yaml:"stateBackend"`
	StateFile       *string  `yaml:"stateFile"`
	DBPath          *string  `yaml:"dbPath"`
	Publish         *bool    `yaml:"publish"`
	GitRemote       *string  `yaml:"gitRemote"`
	GitBranch       *string  `yaml:"gitBranch"`
}

// Load reads configuration from environment variables and returns a validated Config.
// TOKEN, OWNER and REPO are required; every missing one is named in the error.
// When AUTOCOMMENT_CONFIG_FILE points at a YAML file its values act as defaults
// and environment variables override them.
func Load() (*Config, error) {
	token := strings.TrimSpace(os.Getenv("TOKEN"))
	owner := strings.TrimSpace(os.Getenv("OWNER"))
	repo := strings.TrimSpace(os.Getenv("REPO"))

	var missing []string
	if token == "" {
		missing = append(missing, "TOKEN")
	}
	if owner == "" {
		missing = append(missing, "OWNER")
	}
	if repo == "" {
		missing = append(missing, "REPO")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := &Config{
		GitHubToken:  token,
		Owner:        owner,
		Repo:         repo,
		TargetUsers:  []string{"anurag2787"},
		IssueState:   "all",
		SkipClosed:   true,
		SkipSelf:     true,
		StateBackend: BackendFile,
		StateFile:    "state/last_issue.txt",
		DBPath:       "autocomment.db",
		GitRemote:    "origin",
		APIURL:       "https://api.github.com/",
		LogLevel:     slog.LevelInfo,
	}
	commentTemplate := DefaultCommentTemplate

	if path, ok := os.LookupEnv("AUTOCOMMENT_CONFIG_FILE"); ok && path != "" {
		fc, err := readFile(path)
		if err != nil {
			return nil, err
		}
		fc.apply(cfg, &commentTemplate)
	}

	if v, ok := os.LookupEnv("AUTOCOMMENT_TARGET_USERS"); ok {
		cfg.TargetUsers = splitList(v)
	}
	if v, ok := os.LookupEnv("AUTOCOMMENT_BOT_USERNAME"); ok {
		cfg.BotUsername = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("AUTOCOMMENT_ISSUE_STATE"); ok {
		cfg.IssueState = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("AUTOCOMMENT_COMMENT_TEMPLATE"); ok && v != "" {
		commentTemplate = v
	}
	if v, ok := os.LookupEnv("AUTOCOMMENT_STATE_BACKEND"); ok {
		cfg.StateBackend = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("AUTOCOMMENT_STATE_FILE"); ok && v != "" {
		cfg.StateFile = v
	}
	if v, ok := os.LookupEnv("AUTOCOMMENT_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("AUTOCOMMENT_GIT_REMOTE"); ok && v != "" {
		cfg.GitRemote = v
	}
	if v, ok := os.LookupEnv("AUTOCOMMENT_GIT_BRANCH"); ok {
		cfg.GitBranch = v
	}
	cfg.GitAuthorName = os.Getenv("AUTOCOMMENT_GIT_AUTHOR_NAME")
	cfg.GitAuthorEmail = os.Getenv("AUTOCOMMENT_GIT_AUTHOR_EMAIL")
	if v, ok := os.LookupEnv("AUTOCOMMENT_API_URL"); ok && v != "" {
		if !strings.HasSuffix(v, "/") {
			v += "/"
		}
		cfg.APIURL = v
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"AUTOCOMMENT_SKIP_CLOSED", &cfg.SkipClosed},
		{"AUTOCOMMENT_SKIP_SELF", &cfg.SkipSelf},
		{"AUTOCOMMENT_PUBLISH", &cfg.Publish},
		{"AUTOCOMMENT_SECONDARY_RATE_LIMIT", &cfg.SecondaryRateLimit},
		{"AUTOCOMMENT_DRY_RUN", &cfg.DryRun},
	}
	for _, b := range bools {
		v, ok := os.LookupEnv(b.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s has invalid boolean %q: %w", b.key, v, err)
		}
		*b.dst = parsed
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"AUTOCOMMENT_POLL_INTERVAL", &cfg.PollInterval},
		{"AUTOCOMMENT_RUN_TIMEOUT", &cfg.RunTimeout},
	}
	for _, d := range durations {
		v, ok := os.LookupEnv(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s has invalid duration %q: %w", d.key, v, err)
		}
		if parsed < 0 {
			return nil, fmt.Errorf("%s must not be negative, got %s", d.key, v)
		}
		*d.dst = parsed
	}

	if v, ok := os.LookupEnv("AUTOCOMMENT_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("AUTOCOMMENT_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	tmpl, err := parseCommentTemplate(commentTemplate)
	if err != nil {
		return nil, err
	}
	cfg.CommentTemplate = tmpl

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseCommentTemplate parses text and executes it once against sample data,
// so a reference to an unknown field fails at startup rather than on the
// first qualifying issue.
func parseCommentTemplate(text string) (*template.Template, error) {
	tmpl, err := template.New("comment").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("comment template is invalid: %w", err)
	}

	sample := model.CommentData{Author: "octocat", Number: 1, Title: "sample"}
	if err := tmpl.Execute(io.Discard, sample); err != nil {
		return nil, fmt.Errorf("comment template is invalid: %w", err)
	}

	return tmpl, nil
}

// UsesFileState returns true when the watermark lives in a plain text file,
// which is the only backend the git publisher can commit.
func (c *Config) UsesFileState() bool {
	return c.StateBackend == BackendFile
}

func (c *Config) validate() error {
	var errs []error

	switch c.IssueState {
	case "all", "open":
	default:
		errs = append(errs, fmt.Errorf("AUTOCOMMENT_ISSUE_STATE must be \"all\" or \"open\", got %q", c.IssueState))
	}

	switch c.StateBackend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("AUTOCOMMENT_STATE_BACKEND must be %q or %q, got %q", BackendFile, BackendSQLite, c.StateBackend))
	}

	if len(c.TargetUsers) == 0 {
		errs = append(errs, errors.New("AUTOCOMMENT_TARGET_USERS must name at least one user"))
	}

	return errors.Join(errs...)
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *Config, commentTemplate *string) {
	if fc.TargetUsers != nil {
		cfg.TargetUsers = splitList(strings.Join(fc.TargetUsers, ","))
	}
	setString(&cfg.BotUsername, fc.BotUsername)
	setString(&cfg.IssueState, fc.IssueState)
	setString(commentTemplate, fc.CommentTemplate)
	setString(&cfg.StateBackend, fc.StateBackend)
	setString(&cfg.StateFile, fc.StateFile)
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.GitRemote, fc.GitRemote)
	setString(&cfg.GitBranch, fc.GitBranch)
	if fc.SkipClosed != nil {
		cfg.SkipClosed = *fc.SkipClosed
	}
	if fc.SkipSelf != nil {
		cfg.SkipSelf = *fc.SkipSelf
	}
	if fc.Publish != nil {
		cfg.Publish = *fc.Publish
	}
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func splitList(v string) []string {
	out := []string{}
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
