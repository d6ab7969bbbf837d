package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	gitadapter "github.com/ericfisherdev/autocomment/internal/adapter/driven/git"
	githubadapter "github.com/ericfisherdev/autocomment/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/autocomment/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/autocomment/internal/adapter/driven/statefile"
	"github.com/ericfisherdev/autocomment/internal/application"
	"github.com/ericfisherdev/autocomment/internal/config"
	"github.com/ericfisherdev/autocomment/internal/domain/model"
	"github.com/ericfisherdev/autocomment/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load .env (optional) and configuration; fail fast before any network call.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	repo := model.Repository{Owner: cfg.Owner, Name: cfg.Repo}
	slog.Info("config loaded",
		"repo", repo.FullName(),
		"issue_state", cfg.IssueState,
		"target_users", cfg.TargetUsers,
		"state_backend", cfg.StateBackend,
		"publish", cfg.Publish,
		"dry_run", cfg.DryRun,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Create GitHub client.
	ghClient, err := githubadapter.NewClient(cfg.GitHubToken, cfg.APIURL, cfg.SecondaryRateLimit)
	if err != nil {
		return err
	}

	// 4. Open watermark store.
	store, closeStore, err := openStore(ctx, cfg, repo)
	if err != nil {
		return err
	}
	defer closeStore()

	// 5. Optional progress publisher.
	publisher := newPublisher(cfg)

	// 6. Resolve the bot identity for the self-comment guard.
	policy, err := application.ResolveBotIdentity(ctx, ghClient, model.Policy{
		TargetUsers: cfg.TargetUsers,
		BotUsername: cfg.BotUsername,
		SkipClosed:  cfg.SkipClosed,
		SkipSelf:    cfg.SkipSelf,
	})
	if err != nil {
		return err
	}

	// 7. Run.
	svc := application.NewRunService(ghClient, ghClient, store, publisher, application.RunOptions{
		Repo:       repo,
		State:      model.IssueState(cfg.IssueState),
		Policy:     policy,
		Template:   cfg.CommentTemplate,
		DryRun:     cfg.DryRun,
		Interval:   cfg.PollInterval,
		RunTimeout: cfg.RunTimeout,
	})

	return svc.Start(ctx)
}

// openStore returns the configured watermark store and a function that
// releases its resources.
func openStore(ctx context.Context, cfg *config.Config, repo model.Repository) (driven.WatermarkStore, func(), error) {
	if cfg.UsesFileState() {
		store := statefile.NewStore(cfg.StateFile)
		slog.Info("using watermark file", "path", store.Path())
		return store, func() {}, nil
	}

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	closeDB := func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		closeDB()
		return nil, nil, err
	}
	slog.Info("using watermark database", "path", db.Path())

	return sqliteadapter.NewWatermarkRepo(db, repo), closeDB, nil
}

// newPublisher returns the git publisher when publishing is enabled and the
// watermark lives in a file, and nil otherwise.
func newPublisher(cfg *config.Config) driven.ProgressPublisher {
	if !cfg.Publish {
		return nil
	}
	if !cfg.UsesFileState() {
		slog.Warn("publishing requires the file state backend; disabled", "state_backend", cfg.StateBackend)
		return nil
	}
	return gitadapter.NewPublisher(gitadapter.Options{
		File:        cfg.StateFile,
		Remote:      cfg.GitRemote,
		Branch:      cfg.GitBranch,
		AuthorName:  cfg.GitAuthorName,
		AuthorEmail: cfg.GitAuthorEmail,
	})
}
