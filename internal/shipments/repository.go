package shipments

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/internal/workflow"
	"github.com/mrsingh86/freightdesk/pkg/pagination"
	"github.com/mrsingh86/freightdesk/pkg/query"
	"github.com/mrsingh86/freightdesk/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a shipment repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "shipments"),
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
) (*pagination.PageResult[Shipment], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "BookingNumber", "MasterBillNumber", "HouseBillNumber", "CarrierDomain")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count shipments: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	results, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanShipment)
	if err != nil {
		return nil, fmt.Errorf("query shipments: %w", err)
	}

	result := pagination.NewPageResult(results, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Shipment, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanShipment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) FindByBookingNumber(ctx context.Context, bookingNumber string) (*Shipment, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("BookingNumber", bookingNumber).
		BuildSingleOrNull()

	s, err := repository.QueryOne(ctx, r.db, q, args, scanShipment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Shipment, error) {
	containers, err := json.Marshal(nonNil(cmd.ContainerNumbers))
	if err != nil {
		return nil, fmt.Errorf("encode container numbers: %w", err)
	}

	q := `
		INSERT INTO shipments(
			id, booking_number, bill_of_lading_number, master_bill_number, house_bill_number,
			container_numbers, carrier_domain, customer_tier, si_cutoff, vgm_cutoff, cargo_cutoff
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + returningColumns

	insertArgs := []any{
		uuid.New(),
		cmd.BookingNumber,
		cmd.BillOfLadingNumber,
		cmd.MasterBillNumber,
		cmd.HouseBillNumber,
		containers,
		cmd.CarrierDomain,
		cmd.CustomerTier,
		cmd.SICutoff,
		cmd.VGMCutoff,
		cmd.CargoCutoff,
	}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Shipment, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanShipment)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("shipment created", "id", s.ID, "booking_number", s.BookingNumber)
	return &s, nil
}

// Scan returns shipments with id strictly after the given key, ordered by id.
// Batch index builds walk the full table with this.
func (r *repo) Scan(ctx context.Context, after uuid.UUID, limit int) ([]Shipment, error) {
	q, args := query.NewBuilder(projection).BuildKeyset("ID", after, limit)

	results, err := repository.QueryMany(ctx, r.db, q, args, scanShipment)
	if err != nil {
		return nil, fmt.Errorf("scan shipments: %w", err)
	}
	return results, nil
}

// AdvanceState writes the workflow columns only while the persisted rank is
// still below the candidate. Zero rows affected means the shipment was
// already at or past this rank, which callers treat as a no-op.
func (r *repo) AdvanceState(ctx context.Context, id uuid.UUID, state, phase string, rank int) (bool, error) {
	q := `
		UPDATE shipments
		SET workflow_state = $2, workflow_phase = $3, workflow_rank = $4, updated_at = NOW()
		WHERE id = $1
		  AND workflow_state IS DISTINCT FROM $5
		  AND (workflow_rank IS NULL OR workflow_rank < $4)`

	applied, err := repository.ExecMaybe(ctx, r.db, q, id, state, phase, rank, string(workflow.StateCancelled))
	if err != nil {
		return false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return applied, nil
}

// MarkCancelled moves a shipment to the cancelled state from any rank.
// Idempotent: a shipment already cancelled is left untouched.
func (r *repo) MarkCancelled(ctx context.Context, id uuid.UUID, state, phase string, rank int) (bool, error) {
	q := `
		UPDATE shipments
		SET workflow_state = $2, workflow_phase = $3, workflow_rank = $4, updated_at = NOW()
		WHERE id = $1 AND workflow_state IS DISTINCT FROM $2`

	applied, err := repository.ExecMaybe(ctx, r.db, q, id, state, phase, rank)
	if err != nil {
		return false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return applied, nil
}

// Cancel is the operator-initiated cancellation. It applies the same write
// as a booking cancellation document would and returns the updated record.
func (r *repo) Cancel(ctx context.Context, id uuid.UUID) (*Shipment, error) {
	rank, _ := workflow.Rank(workflow.StateCancelled)
	phase, _ := workflow.PhaseOf(workflow.StateCancelled)

	applied, err := r.MarkCancelled(ctx, id, string(workflow.StateCancelled), string(phase), rank)
	if err != nil {
		return nil, err
	}

	if applied {
		r.logger.Info("shipment cancelled", "id", id)
	}

	return r.Find(ctx, id)
}

const returningColumns = `id, booking_number, bill_of_lading_number, master_bill_number, house_bill_number,
			container_numbers, carrier_domain, customer_tier, workflow_state, workflow_phase, workflow_rank,
			si_cutoff, vgm_cutoff, cargo_cutoff, created_at, updated_at`

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
