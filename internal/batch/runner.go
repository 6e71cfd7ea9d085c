// Package batch implements the offline processing passes that keep shipment
// state current: index build, document resolution, link reconciliation,
// workflow advancement, and priority scoring. Passes are designed to be
// idempotent so an interrupted run can simply be re-run.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mrsingh86/freightdesk/internal/documents"
	"github.com/mrsingh86/freightdesk/internal/links"
	"github.com/mrsingh86/freightdesk/internal/priority"
	"github.com/mrsingh86/freightdesk/internal/resolve"
	"github.com/mrsingh86/freightdesk/internal/shipments"
	"github.com/mrsingh86/freightdesk/internal/signals"
	"github.com/mrsingh86/freightdesk/internal/tasks"
	"github.com/mrsingh86/freightdesk/internal/workflow"
	"github.com/mrsingh86/freightdesk/pkg/pagination"
)

// Options tune a batch run.
type Options struct {
	PageSize          int
	Workers           int
	MaxRepairAttempts int
}

// Summary aggregates the counters of a full batch run.
type Summary struct {
	IndexedShipments  int                   `json:"indexed_shipments"`
	ScannedDocuments  int                   `json:"scanned_documents"`
	Linked            int                   `json:"linked"`
	Misses            int                   `json:"misses"`
	Repair            resolve.RepairOutcome `json:"repair"`
	StatesApplied     int                   `json:"states_applied"`
	UnhandledEvidence int                   `json:"unhandled_evidence"`
	ScoredShipments   int                   `json:"scored_shipments"`
	TasksUpserted     int                   `json:"tasks_upserted"`
}

// Runner executes batch passes over the shipment and document stores.
type Runner struct {
	shipments shipments.System
	documents documents.System
	links     links.System
	signals   signals.System
	tasks     tasks.System
	logger    *slog.Logger
	opts      Options
}

// NewRunner creates a batch runner over the domain systems.
func NewRunner(
	shipmentSys shipments.System,
	documentSys documents.System,
	linkSys links.System,
	signalSys signals.System,
	taskSys tasks.System,
	logger *slog.Logger,
	opts Options,
) *Runner {
	if opts.PageSize <= 0 {
		opts.PageSize = 200
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxRepairAttempts <= 0 {
		opts.MaxRepairAttempts = 3
	}

	return &Runner{
		shipments: shipmentSys,
		documents: documentSys,
		links:     linkSys,
		signals:   signalSys,
		tasks:     taskSys,
		logger:    logger.With("system", "batch"),
		opts:      opts,
	}
}

// Run executes the full pipeline: index, resolve, reconcile, workflow, score.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	index, err := r.BuildIndex(ctx)
	if err != nil {
		return summary, err
	}
	summary.IndexedShipments = index.Size()

	if err := r.ResolvePass(ctx, index, &summary); err != nil {
		return summary, err
	}

	repair, err := r.Reconcile(ctx, index)
	if err != nil {
		return summary, err
	}
	summary.Repair = repair

	if err := r.WorkflowPass(ctx, &summary); err != nil {
		return summary, err
	}

	if err := r.ScorePass(ctx, &summary); err != nil {
		return summary, err
	}

	r.logger.Info("batch run complete",
		"indexed", summary.IndexedShipments,
		"scanned", summary.ScannedDocuments,
		"linked", summary.Linked,
		"misses", summary.Misses,
		"states_applied", summary.StatesApplied,
		"unhandled_evidence", summary.UnhandledEvidence,
		"scored", summary.ScoredShipments,
	)
	return summary, nil
}

// BuildIndex scans every shipment and every active link into a fresh
// resolution index.
func (r *Runner) BuildIndex(ctx context.Context) (*resolve.Index, error) {
	index := resolve.NewIndex()

	err := pagination.EachPage(
		ctx,
		r.opts.PageSize,
		r.shipments.Scan,
		func(s shipments.Shipment) uuid.UUID { return s.ID },
		func(s shipments.Shipment) error {
			index.AddShipment(s)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("index shipments: %w", err)
	}

	err = pagination.EachPage(
		ctx,
		r.opts.PageSize,
		r.links.ScanActive,
		func(l links.ActiveLink) uuid.UUID { return l.ID },
		func(l links.ActiveLink) error {
			if l.ShipmentID != nil {
				index.AddThreadLink(l.ThreadID, *l.ShipmentID)
			}
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("index thread links: %w", err)
	}

	r.logger.Info("resolution index built", "shipments", index.Size())
	return index, nil
}

// ResolvePass runs the cascade over every unlinked document. The pass is
// sequential: each successful attach seeds the thread index, so later
// documents in the same thread resolve by continuity within a single run.
func (r *Runner) ResolvePass(ctx context.Context, index *resolve.Index, summary *Summary) error {
	resolver := resolve.NewResolver(index, r.logger)

	scan := func(ctx context.Context, after uuid.UUID, limit int) ([]documents.Document, error) {
		return r.documents.ScanUnlinked(ctx, after, limit, r.opts.MaxRepairAttempts)
	}

	err := pagination.EachPage(
		ctx,
		r.opts.PageSize,
		scan,
		func(d documents.Document) uuid.UUID { return d.ID },
		func(d documents.Document) error {
			summary.ScannedDocuments++

			match, ok := resolver.Resolve(d)
			if !ok {
				summary.Misses++
				return r.links.RecordMiss(ctx, d.ID)
			}

			applied, _, err := r.links.Attach(ctx, links.AttachCommand{
				DocumentID: d.ID,
				ShipmentID: match.ShipmentID,
				Method:     match.Method,
				Confidence: match.Confidence,
			})
			if err != nil {
				return err
			}

			if applied {
				summary.Linked++
				index.AddThreadLink(d.ThreadID, match.ShipmentID)
			}
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("resolve documents: %w", err)
	}

	r.logger.Info("resolution pass complete",
		"scanned", summary.ScannedDocuments,
		"linked", summary.Linked,
		"misses", summary.Misses,
	)
	return nil
}

// Reconcile re-validates active links against the index.
func (r *Runner) Reconcile(ctx context.Context, index *resolve.Index) (resolve.RepairOutcome, error) {
	repairer := resolve.NewRepairer(
		r.documents,
		r.links,
		resolve.NewResolver(index, r.logger),
		r.logger,
		r.opts.PageSize,
		r.opts.MaxRepairAttempts,
	)
	return repairer.Reconcile(ctx)
}

// WorkflowPass groups active links by shipment and applies the state machine
// to each shipment's evidence. Shipments are processed concurrently, but all
// of a shipment's evidence stays with one goroutine so its state is written
// by a single worker.
func (r *Runner) WorkflowPass(ctx context.Context, summary *Summary) error {
	evidence := make(map[uuid.UUID][]workflow.Evidence)

	err := pagination.EachPage(
		ctx,
		r.opts.PageSize,
		r.links.ScanActive,
		func(l links.ActiveLink) uuid.UUID { return l.ID },
		func(l links.ActiveLink) error {
			if l.ShipmentID == nil {
				return nil
			}
			evidence[*l.ShipmentID] = append(evidence[*l.ShipmentID], workflow.Evidence{
				DocumentType: l.DocumentType,
				Direction:    l.Direction,
			})
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("collect workflow evidence: %w", err)
	}

	machine := workflow.NewMachine(r.shipments, r.logger)

	var applied, unhandled atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for shipmentID, ev := range evidence {
		g.Go(func() error {
			ok, _, unmapped, err := machine.Apply(gctx, shipmentID, ev)
			if err != nil {
				return fmt.Errorf("apply state for shipment %s: %w", shipmentID, err)
			}
			if ok {
				applied.Add(1)
			}
			unhandled.Add(int64(unmapped))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	summary.StatesApplied = int(applied.Load())
	summary.UnhandledEvidence = int(unhandled.Load())

	r.logger.Info("workflow pass complete",
		"shipments", len(evidence),
		"states_applied", summary.StatesApplied,
		"unhandled_evidence", summary.UnhandledEvidence,
	)
	return nil
}

// ScorePass recomputes follow-up priority for every live shipment and
// refreshes its task. Cancelled shipments carry no follow-up work.
func (r *Runner) ScorePass(ctx context.Context, summary *Summary) error {
	now := time.Now().UTC()

	var scored, upserted atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	err := pagination.EachPage(
		ctx,
		r.opts.PageSize,
		r.shipments.Scan,
		func(s shipments.Shipment) uuid.UUID { return s.ID },
		func(s shipments.Shipment) error {
			if s.WorkflowState != nil && *s.WorkflowState == string(workflow.StateCancelled) {
				return nil
			}

			g.Go(func() error {
				result, err := r.scoreShipment(gctx, s, now)
				if err != nil {
					return fmt.Errorf("score shipment %s: %w", s.ID, err)
				}

				scored.Add(1)

				_, err = r.tasks.Upsert(gctx, tasks.UpsertCommand{
					ShipmentID:    s.ID,
					TaskType:      tasks.TaskFollowUp,
					Title:         fmt.Sprintf("Follow up on booking %s", s.BookingNumber),
					PriorityScore: result.Score,
					PriorityLabel: string(result.Label),
					Factors:       result.Factors,
				})
				if err != nil {
					return fmt.Errorf("upsert task for shipment %s: %w", s.ID, err)
				}

				upserted.Add(1)
				return nil
			})
			return nil
		},
	)
	if err != nil {
		g.Wait()
		return fmt.Errorf("scan shipments for scoring: %w", err)
	}

	if err := g.Wait(); err != nil {
		return err
	}

	summary.ScoredShipments = int(scored.Load())
	summary.TasksUpserted = int(upserted.Load())

	r.logger.Info("scoring pass complete",
		"scored", summary.ScoredShipments,
		"tasks_upserted", summary.TasksUpserted,
	)
	return nil
}

func (r *Runner) scoreShipment(ctx context.Context, s shipments.Shipment, now time.Time) (priority.Result, error) {
	blockers, err := r.signals.ListOpenBlockers(ctx, s.ID)
	if err != nil {
		return priority.Result{}, err
	}

	insights, err := r.signals.ListInsights(ctx, s.ID)
	if err != nil {
		return priority.Result{}, err
	}

	drafts, err := r.documents.CountDrafts(ctx, s.ID)
	if err != nil {
		return priority.Result{}, err
	}

	// NotifySeverity and LateResponseRate have no batch-side source; they
	// stay zero here and are only supplied through the scoring endpoint.
	in := priority.Input{
		Now:            now,
		NearestCutoff:  s.NearestUnmetCutoff(now),
		CustomerTier:   s.CustomerTier,
		DraftDocuments: drafts,
	}

	for _, b := range blockers {
		in.Blockers = append(in.Blockers, priority.BlockerInput{Severity: b.Severity})
	}
	for _, i := range insights {
		in.Insights = append(in.Insights, priority.InsightInput{Severity: i.Severity, Boost: i.Boost})
	}

	return priority.Score(in), nil
}
