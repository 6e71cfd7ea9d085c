package documents

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/pagination"
	"github.com/mrsingh86/freightdesk/pkg/query"
	"github.com/mrsingh86/freightdesk/pkg/repository"
	"github.com/mrsingh86/freightdesk/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
	ownDomains []string
}

// New creates a document repository implementing the System interface.
// ownDomains are the forwarder's mail domains used for direction derivation.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	ownDomains []string,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
		ownDomains: ownDomains,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "SenderDomain")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

// Intake archives the attachment and records the classified document. The
// (message_id, filename) pair is unique, so re-delivering the same message is
// idempotent: the existing record is returned and the duplicate blob removed.
func (r *repo) Intake(ctx context.Context, cmd IntakeCommand) (*Document, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrInvalidFile
	}

	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	d, err := r.insert(ctx, id, key, nil, cmd)
	if err != nil {
		r.compensateBlob(ctx, key)
		return nil, err
	}

	if d == nil {
		r.compensateBlob(ctx, key)
		return r.findByMessage(ctx, cmd.MessageID, cmd.Filename)
	}

	r.logger.Info("document ingested",
		"id", d.ID,
		"document_type", d.DocumentType,
		"direction", d.Direction,
		"thread_id", d.ThreadID,
	)
	return d, nil
}

// Supersede ingests a replacement document and marks the original superseded
// in the same transaction. The original's links are untouched; the resolver
// picks the replacement up as a fresh unlinked document.
func (r *repo) Supersede(ctx context.Context, id uuid.UUID, cmd IntakeCommand) (*Document, error) {
	original, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if original.Status == StatusSuperseded {
		return nil, ErrSuperseded
	}

	if len(cmd.Data) == 0 {
		return nil, ErrInvalidFile
	}

	newID := uuid.New()
	key := buildStorageKey(newID, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Document, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET status = $2, updated_at = NOW() WHERE id = $1 AND status <> $2",
			id, StatusSuperseded,
		); err != nil {
			return nil, err
		}
		return r.insertTx(ctx, tx, newID, key, &id, cmd)
	})

	if err != nil {
		r.compensateBlob(ctx, key)
		return nil, repository.MapError(err, ErrSuperseded, ErrDuplicate)
	}

	r.logger.Info("document superseded", "original", id, "replacement", d.ID)
	return d, nil
}

// ListByShipment returns the non-revoked documents linked to a shipment,
// newest first. This is the evidence set the workflow machine consumes.
func (r *repo) ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]Document, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM %s
		JOIN public.document_shipment_links l ON d.id = l.document_id
		WHERE l.shipment_id = $1 AND l.revoked_at IS NULL
		ORDER BY d.received_at DESC`,
		projection.Columns(), projection.From(),
	)

	docs, err := repository.QueryMany(ctx, r.db, q, []any{shipmentID}, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query shipment documents: %w", err)
	}
	return docs, nil
}

func (r *repo) CountDrafts(ctx context.Context, shipmentID uuid.UUID) (int, error) {
	q := `
		SELECT COUNT(*)
		FROM documents d
		JOIN document_shipment_links l ON d.id = l.document_id
		WHERE l.shipment_id = $1 AND l.revoked_at IS NULL AND d.status = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, q, shipmentID, StatusDraft).Scan(&count); err != nil {
		return 0, fmt.Errorf("count draft documents: %w", err)
	}
	return count, nil
}

// ScanUnlinked returns documents with no active shipment link, ordered by id
// for keyset resumption. Documents whose link row has exhausted its repair
// attempts are excluded; attempts accrue only through revocations, so a
// document that merely keeps missing is rescanned every run.
func (r *repo) ScanUnlinked(ctx context.Context, after uuid.UUID, limit, maxRepairAttempts int) ([]Document, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM %s
		LEFT JOIN public.document_shipment_links l
			ON d.id = l.document_id AND l.revoked_at IS NULL
		WHERE d.id > $1
		  AND d.status <> $2
		  AND l.shipment_id IS NULL
		  AND COALESCE(l.repair_attempts, 0) < $3
		ORDER BY d.id ASC
		LIMIT $4`,
		projection.Columns(), projection.From(),
	)

	docs, err := repository.QueryMany(
		ctx, r.db, q,
		[]any{after, StatusSuperseded, maxRepairAttempts, limit},
		scanDocument,
	)
	if err != nil {
		return nil, fmt.Errorf("scan unlinked documents: %w", err)
	}
	return docs, nil
}

func (r *repo) insert(ctx context.Context, id uuid.UUID, key string, supersedes *uuid.UUID, cmd IntakeCommand) (*Document, error) {
	return repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Document, error) {
		return r.insertTx(ctx, tx, id, key, supersedes, cmd)
	})
}

// insertTx writes the document row. Returns (nil, nil) when the uniqueness
// constraint on (message_id, filename) made the insert a no-op.
func (r *repo) insertTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, key string, supersedes *uuid.UUID, cmd IntakeCommand) (*Document, error) {
	identifiers, err := json.Marshal(cmd.Identifiers)
	if err != nil {
		return nil, fmt.Errorf("encode identifiers: %w", err)
	}

	status := cmd.Status
	if status == "" {
		status = StatusActive
	}

	q := `
		INSERT INTO documents(
			id, thread_id, message_id, filename, content_type, size_bytes, page_count,
			storage_key, document_type, direction, status, sender_domain, identifiers,
			supersedes_id, received_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (message_id, filename) DO NOTHING
		RETURNING ` + returningColumns

	args := []any{
		id,
		cmd.ThreadID,
		cmd.MessageID,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		cmd.DocumentType,
		DeriveDirection(cmd.SenderDomain, r.ownDomains),
		status,
		cmd.SenderDomain,
		identifiers,
		supersedes,
		cmd.ReceivedAt,
	}

	d, err := repository.QueryOne(ctx, tx, q, args, scanDocument)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) findByMessage(ctx context.Context, messageID, filename string) (*Document, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("MessageID", messageID).
		WhereEquals("Filename", filename).
		BuildSingleOrNull()

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) compensateBlob(ctx context.Context, key string) {
	if err := r.storage.Delete(ctx, key); err != nil {
		r.logger.Warn("compensating blob delete failed", "key", key, "error", err)
	}
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}

const returningColumns = `id, thread_id, message_id, filename, content_type, size_bytes, page_count,
			storage_key, document_type, direction, status, sender_domain, identifiers,
			supersedes_id, received_at, created_at, updated_at`
