package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	gerritadapter "github.com/ericfisherdev/recheckhub/internal/adapter/driven/gerrit"
	"github.com/ericfisherdev/recheckhub/internal/adapter/driven/launchpad"
	sqliteadapter "github.com/ericfisherdev/recheckhub/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/recheckhub/internal/application"
	"github.com/ericfisherdev/recheckhub/internal/config"
	"github.com/ericfisherdev/recheckhub/internal/domain/port/driven"
)

// options holds the run-mode switches parsed from the command line.
type options struct {
	verbose  bool
	post     bool
	change   int64
	flaky    string
	interval time.Duration
	history  int
}

func main() {
	var opts options
	flag.BoolVar(&opts.verbose, "v", false, "enable debug logging")
	flag.BoolVar(&opts.post, "post", false, "post directives to the review server (default is dry run)")
	flag.Int64Var(&opts.change, "change", 0, "evaluate only this change number")
	flag.StringVar(&opts.flaky, "flaky", "", "comma-separated extra job names to treat as flaky")
	flag.DurationVar(&opts.interval, "interval", 0, "repeat the batch on this interval (0 runs once)")
	flag.IntVar(&opts.history, "history", 0, "print the N most recent recorded decisions and exit")
	flag.Parse()

	if opts.verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := run(opts); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"gerrit", fmt.Sprintf("%s:%d", cfg.GerritServer, cfg.GerritPort),
		"gerrit_user", cfg.GerritUser,
		"db_path", cfg.DBPath,
		"post", opts.post,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the decision audit log, if configured.
	var store driven.DecisionStore
	if cfg.DBPath != "" {
		db, err := sqliteadapter.NewDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()

		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			return err
		}
		store = sqliteadapter.NewDecisionRepo(db)
	}

	// 4. History report mode: print and exit.
	if opts.history > 0 {
		if store == nil {
			return fmt.Errorf("-history requires a configured RECHECKHUB_DB_PATH")
		}
		return printHistory(ctx, store, opts.history)
	}

	// 5. Wire the Gerrit client (read and write sides of the same transport).
	gerrit, err := gerritadapter.NewClient(
		cfg.GerritServer, cfg.GerritPort, cfg.GerritUser,
		cfg.SSHKeyPath, cfg.KnownHostsPath,
	)
	if err != nil {
		return err
	}

	// 6. Create the recheck service.
	svc := application.NewRecheckService(gerrit, gerrit, launchpad.NewClient(), store, application.Settings{
		Query:          cfg.Query,
		CIUser:         cfg.CIUser,
		ClassifierUser: cfg.ClassifierUser,
		ExtraFlakyJobs: splitFlaky(opts.flaky),
		Rules: application.EligibilityRules{
			MinChangeNumber: cfg.MinChangeNumber,
			MinCommentAge:   cfg.MinCommentAge,
			ProposalBot:     cfg.ProposalBot,
		},
		Post:        opts.post,
		DebugChange: opts.change,
	})

	// 7. One-shot batch, or loop until a shutdown signal in interval mode.
	if opts.interval > 0 {
		slog.Info("recheckhub started", "interval", opts.interval)
		svc.Start(ctx, opts.interval)
		return nil
	}
	return svc.Run(ctx)
}

// splitFlaky parses the -flaky flag's comma-separated job names.
func splitFlaky(raw string) []string {
	if raw == "" {
		return nil
	}
	var jobs []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			jobs = append(jobs, name)
		}
	}
	return jobs
}

// printHistory writes the most recent recorded decisions to stdout.
func printHistory(ctx context.Context, store driven.DecisionStore, limit int) error {
	decisions, err := store.RecentDecisions(ctx, limit)
	if err != nil {
		return fmt.Errorf("list recent decisions: %w", err)
	}
	if len(decisions) == 0 {
		fmt.Println("no recorded decisions")
		return nil
	}

	for _, d := range decisions {
		mode := "dry-run"
		if d.Posted {
			mode = "posted"
		}
		fmt.Printf("%s  %d  %s -> %q (%s)\n",
			d.DecidedAt.Format(time.RFC3339), d.ChangeNumber, d.URL, d.Directive, mode)
	}
	return nil
}
