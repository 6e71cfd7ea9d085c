package signals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/pagination"
	"github.com/mrsingh86/freightdesk/pkg/query"
	"github.com/mrsingh86/freightdesk/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a signal repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "signals"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) ListBlockers(
	ctx context.Context,
	page pagination.PageRequest,
	filters BlockerFilters,
) (*pagination.PageResult[Blocker], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(blockerProjection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count blockers: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	results, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanBlocker)
	if err != nil {
		return nil, fmt.Errorf("query blockers: %w", err)
	}

	result := pagination.NewPageResult(results, total, page.Page, page.PageSize)
	return &result, nil
}

// CreateBlocker opens a blocker. A partial unique index on open blockers
// makes re-detection of the same (shipment, type) condition return the
// existing row instead of piling up duplicates.
func (r *repo) CreateBlocker(ctx context.Context, cmd CreateBlockerCommand) (*Blocker, error) {
	q := `
		INSERT INTO blockers(id, shipment_id, blocker_type, severity, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (shipment_id, blocker_type) WHERE status = 'open' DO NOTHING
		RETURNING id, shipment_id, blocker_type, severity, description, status, cleared_at, created_at, updated_at`

	args := []any{uuid.New(), cmd.ShipmentID, cmd.BlockerType, cmd.Severity, cmd.Description}

	b, err := repository.QueryOne(ctx, r.db, q, args, scanBlocker)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.findOpenBlocker(ctx, cmd.ShipmentID, cmd.BlockerType)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("blocker opened",
		"id", b.ID,
		"shipment_id", b.ShipmentID,
		"blocker_type", b.BlockerType,
		"severity", b.Severity,
	)
	return &b, nil
}

// ClearBlocker resolves an open blocker. Idempotent: clearing an already
// cleared blocker reports false.
func (r *repo) ClearBlocker(ctx context.Context, id uuid.UUID) (bool, error) {
	q := `
		UPDATE blockers
		SET status = $2, cleared_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3`

	applied, err := repository.ExecMaybe(ctx, r.db, q, id, BlockerCleared, BlockerOpen)
	if err != nil {
		return false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if applied {
		r.logger.Info("blocker cleared", "id", id)
	}
	return applied, nil
}

func (r *repo) ListOpenBlockers(ctx context.Context, shipmentID uuid.UUID) ([]Blocker, error) {
	status := BlockerOpen
	q, args := query.
		NewBuilder(blockerProjection, query.SortField{Field: "CreatedAt"}).
		WhereEquals("ShipmentID", shipmentID).
		WhereEquals("Status", &status).
		Build()

	results, err := repository.QueryMany(ctx, r.db, q, args, scanBlocker)
	if err != nil {
		return nil, fmt.Errorf("query open blockers: %w", err)
	}
	return results, nil
}

func (r *repo) CreateInsight(ctx context.Context, cmd CreateInsightCommand) (*Insight, error) {
	q := `
		INSERT INTO insights(id, shipment_id, insight_type, severity, boost, summary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, shipment_id, insight_type, severity, boost, summary, created_at`

	args := []any{uuid.New(), cmd.ShipmentID, cmd.InsightType, cmd.Severity, cmd.Boost, cmd.Summary}

	i, err := repository.QueryOne(ctx, r.db, q, args, scanInsight)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("insight recorded",
		"id", i.ID,
		"shipment_id", i.ShipmentID,
		"insight_type", i.InsightType,
		"severity", i.Severity,
	)
	return &i, nil
}

func (r *repo) ListInsights(ctx context.Context, shipmentID uuid.UUID) ([]Insight, error) {
	q, args := query.
		NewBuilder(insightProjection, defaultSort).
		WhereEquals("ShipmentID", shipmentID).
		Build()

	results, err := repository.QueryMany(ctx, r.db, q, args, scanInsight)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	return results, nil
}

func (r *repo) findOpenBlocker(ctx context.Context, shipmentID uuid.UUID, blockerType string) (*Blocker, error) {
	status := BlockerOpen
	q, args := query.
		NewBuilder(blockerProjection).
		WhereEquals("ShipmentID", shipmentID).
		WhereEquals("BlockerType", &blockerType).
		WhereEquals("Status", &status).
		BuildSingleOrNull()

	b, err := repository.QueryOne(ctx, r.db, q, args, scanBlocker)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &b, nil
}
