package shipments

import (
	"context"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/pagination"
)

// System defines the public contract for shipment domain operations.
// AdvanceState and MarkCancelled satisfy the workflow machine's state
// writer contract.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Shipment], error)

	Find(ctx context.Context, id uuid.UUID) (*Shipment, error)
	FindByBookingNumber(ctx context.Context, bookingNumber string) (*Shipment, error)
	Create(ctx context.Context, cmd CreateCommand) (*Shipment, error)
	Scan(ctx context.Context, after uuid.UUID, limit int) ([]Shipment, error)

	AdvanceState(ctx context.Context, id uuid.UUID, state, phase string, rank int) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID, state, phase string, rank int) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) (*Shipment, error)
}
