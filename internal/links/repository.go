package links

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

// New creates a link repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "links"),
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
) (*pagination.PageResult[Link], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count links: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	results, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanLink)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}

	result := pagination.NewPageResult(results, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Link, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("DocumentID", documentID).
		BuildSingleOrNull()

	l, err := repository.QueryOne(ctx, r.db, q, args, scanLink)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &l, nil
}

// Attach upserts the document's link row. An active match is never
// overwritten, so re-running resolution over already-linked documents is a
// no-op; placeholder and revoked rows are claimed by the new match. The
// first return reports whether this call established the link.
func (r *repo) Attach(ctx context.Context, cmd AttachCommand) (bool, *Link, error) {
	q := `
		INSERT INTO document_shipment_links(id, document_id, shipment_id, method, confidence)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (document_id) DO UPDATE
		SET shipment_id = EXCLUDED.shipment_id,
			method = EXCLUDED.method,
			confidence = EXCLUDED.confidence,
			revoked_at = NULL,
			updated_at = NOW()
		WHERE document_shipment_links.shipment_id IS NULL
		   OR document_shipment_links.revoked_at IS NOT NULL
		RETURNING ` + returningColumns

	args := []any{uuid.New(), cmd.DocumentID, cmd.ShipmentID, cmd.Method, cmd.Confidence}

	l, err := repository.QueryOne(ctx, r.db, q, args, scanLink)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existing, findErr := r.FindByDocument(ctx, cmd.DocumentID)
			return false, existing, findErr
		}
		return false, nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document linked",
		"document_id", cmd.DocumentID,
		"shipment_id", cmd.ShipmentID,
		"method", cmd.Method,
		"confidence", cmd.Confidence,
	)
	return true, &l, nil
}

// RecordMiss leaves a placeholder row for a document that resolved to
// nothing, making unresolved mail visible to reporting. A miss never counts
// against repair_attempts: the document stays in the unlinked scan and is
// retried every run, since the shipment it names may simply not exist yet.
// Only Revoke ages a document toward the repair cap.
func (r *repo) RecordMiss(ctx context.Context, documentID uuid.UUID) error {
	q := `
		INSERT INTO document_shipment_links(id, document_id)
		VALUES ($1, $2)
		ON CONFLICT (document_id) DO NOTHING`

	if _, err := repository.ExecMaybe(ctx, r.db, q, uuid.New(), documentID); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

// Revoke withdraws a document's active link and counts the repair attempt.
// The document becomes unlinked again and eligible for re-resolution.
func (r *repo) Revoke(ctx context.Context, documentID uuid.UUID) (bool, error) {
	q := `
		UPDATE document_shipment_links
		SET revoked_at = NOW(),
			repair_attempts = repair_attempts + 1,
			updated_at = NOW()
		WHERE document_id = $1 AND shipment_id IS NOT NULL AND revoked_at IS NULL`

	applied, err := repository.ExecMaybe(ctx, r.db, q, documentID)
	if err != nil {
		return false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if applied {
		r.logger.Info("link revoked", "document_id", documentID)
	}
	return applied, nil
}

// ListByShipment returns the active links for a shipment, oldest first.
func (r *repo) ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]Link, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "CreatedAt"}).
		WhereEquals("ShipmentID", shipmentID).
		WhereNull("RevokedAt", true).
		Build()

	results, err := repository.QueryMany(ctx, r.db, q, args, scanLink)
	if err != nil {
		return nil, fmt.Errorf("query shipment links: %w", err)
	}
	return results, nil
}

// ScanActive walks the active links joined with their documents, ordered by
// link id for keyset resumption. Batch workflow and scoring passes consume
// this to group evidence by shipment without a second query per document.
func (r *repo) ScanActive(ctx context.Context, after uuid.UUID, limit int) ([]ActiveLink, error) {
	qb := query.NewBuilder(activeProjection)
	qb.WhereNull("ShipmentID", false)
	qb.WhereNull("RevokedAt", true)
	q, args := qb.BuildKeyset("ID", after, limit)

	results, err := repository.QueryMany(ctx, r.db, q, args, scanActiveLink)
	if err != nil {
		return nil, fmt.Errorf("scan active links: %w", err)
	}
	return results, nil
}

const returningColumns = `id, document_id, shipment_id, method, confidence, repair_attempts, revoked_at, created_at, updated_at`
