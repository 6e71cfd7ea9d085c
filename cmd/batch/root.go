package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrsingh86/freightdesk/internal/batch"
	"github.com/mrsingh86/freightdesk/internal/config"
	"github.com/mrsingh86/freightdesk/internal/documents"
	"github.com/mrsingh86/freightdesk/internal/links"
	"github.com/mrsingh86/freightdesk/internal/shipments"
	"github.com/mrsingh86/freightdesk/internal/signals"
	"github.com/mrsingh86/freightdesk/internal/tasks"
	"github.com/mrsingh86/freightdesk/pkg/database"
	"github.com/mrsingh86/freightdesk/pkg/storage"
)

// env holds everything a batch subcommand needs: config, logger, and the
// domain systems wired over a pinged database connection.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     database.System
	runner *batch.Runner
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "batch",
		Short:         "Freightdesk batch processing",
		Long:          "Offline passes that resolve documents to shipments, advance workflow state, and score follow-up priority.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newRunCommand(),
		newResolveCommand(),
		newReconcileCommand(),
		newWorkflowCommand(),
		newScoreCommand(),
	)

	return root
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: index, resolve, reconcile, workflow, score",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				summary, err := e.runner.Run(ctx)
				if err != nil {
					return err
				}
				return printSummary(summary)
			})
		},
	}
}

func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve unlinked documents to shipments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				var summary batch.Summary

				index, err := e.runner.BuildIndex(ctx)
				if err != nil {
					return err
				}
				summary.IndexedShipments = index.Size()

				if err := e.runner.ResolvePass(ctx, index, &summary); err != nil {
					return err
				}
				return printSummary(summary)
			})
		},
	}
}

func newReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Re-validate existing links and repair mismatches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				var summary batch.Summary

				index, err := e.runner.BuildIndex(ctx)
				if err != nil {
					return err
				}
				summary.IndexedShipments = index.Size()

				repair, err := e.runner.Reconcile(ctx, index)
				if err != nil {
					return err
				}
				summary.Repair = repair
				return printSummary(summary)
			})
		},
	}
}

func newWorkflowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "workflow",
		Short: "Recompute workflow state from linked document evidence",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				var summary batch.Summary
				if err := e.runner.WorkflowPass(ctx, &summary); err != nil {
					return err
				}
				return printSummary(summary)
			})
		},
	}
}

func newScoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Recompute follow-up priority and refresh tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				var summary batch.Summary
				if err := e.runner.ScorePass(ctx, &summary); err != nil {
					return err
				}
				return printSummary(summary)
			})
		},
	}
}

func withEnv(ctx context.Context, fn func(context.Context, *env) error) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.db.Connection().Close()

	return fn(ctx, e)
}

func newEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("module", "batch")

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		return nil, err
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	conn := db.Connection()
	pagination := cfg.API.Pagination

	shipmentSys := shipments.New(conn, logger, pagination)
	documentSys := documents.New(conn, store, logger, pagination, cfg.Batch.OwnDomains)
	linkSys := links.New(conn, logger, pagination)
	signalSys := signals.New(conn, logger, pagination)
	taskSys := tasks.New(conn, logger, pagination)

	runner := batch.NewRunner(
		shipmentSys,
		documentSys,
		linkSys,
		signalSys,
		taskSys,
		logger,
		batch.Options{
			PageSize:          cfg.Batch.PageSize,
			Workers:           cfg.Batch.Workers,
			MaxRepairAttempts: cfg.Batch.MaxRepairAttempts,
		},
	)

	return &env{
		cfg:    cfg,
		logger: logger,
		db:     db,
		runner: runner,
	}, nil
}

func printSummary(summary batch.Summary) error {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
