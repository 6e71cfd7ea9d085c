package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
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

// New creates a task repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "tasks"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Task], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "Title")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	results, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTask)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	result := pagination.NewPageResult(results, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Task, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTask)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

// Upsert creates the shipment's task or refreshes its priority. The
// (shipment_id, task_type) pair is unique; a completed task is left alone
// so rescoring never reopens finished work.
func (r *repo) Upsert(ctx context.Context, cmd UpsertCommand) (*Task, error) {
	factors, err := json.Marshal(cmd.Factors)
	if err != nil {
		return nil, fmt.Errorf("encode task factors: %w", err)
	}

	q := `
		INSERT INTO follow_up_tasks(id, shipment_id, task_type, title, priority_score, priority_label, factors)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (shipment_id, task_type) DO UPDATE
		SET title = EXCLUDED.title,
			priority_score = EXCLUDED.priority_score,
			priority_label = EXCLUDED.priority_label,
			factors = EXCLUDED.factors,
			updated_at = NOW()
		WHERE follow_up_tasks.status = 'open'
		RETURNING id, shipment_id, task_type, title, priority_score, priority_label, factors, status, completed_at, created_at, updated_at`

	args := []any{
		uuid.New(),
		cmd.ShipmentID,
		cmd.TaskType,
		cmd.Title,
		cmd.PriorityScore,
		cmd.PriorityLabel,
		factors,
	}

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTask)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.findByKey(ctx, cmd.ShipmentID, cmd.TaskType)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &t, nil
}

// Complete closes an open task. Idempotent: completing an already completed
// task reports false.
func (r *repo) Complete(ctx context.Context, id uuid.UUID) (bool, error) {
	q := `
		UPDATE follow_up_tasks
		SET status = $2, completed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3`

	applied, err := repository.ExecMaybe(ctx, r.db, q, id, StatusCompleted, StatusOpen)
	if err != nil {
		return false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if applied {
		r.logger.Info("task completed", "id", id)
	}
	return applied, nil
}

// ListRanked returns the open tasks ordered by priority, highest first.
func (r *repo) ListRanked(ctx context.Context, limit int) ([]Task, error) {
	status := StatusOpen
	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("Status", &status)

	q, args := qb.Build()
	q = fmt.Sprintf("%s LIMIT %d", q, limit)

	results, err := repository.QueryMany(ctx, r.db, q, args, scanTask)
	if err != nil {
		return nil, fmt.Errorf("query ranked tasks: %w", err)
	}
	return results, nil
}

func (r *repo) findByKey(ctx context.Context, shipmentID uuid.UUID, taskType string) (*Task, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("ShipmentID", shipmentID).
		WhereEquals("TaskType", &taskType).
		BuildSingleOrNull()

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTask)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}
