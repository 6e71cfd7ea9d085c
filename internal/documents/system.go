package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Intake(ctx context.Context, cmd IntakeCommand) (*Document, error)
	Supersede(ctx context.Context, id uuid.UUID, cmd IntakeCommand) (*Document, error)

	ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]Document, error)
	CountDrafts(ctx context.Context, shipmentID uuid.UUID) (int, error)
	ScanUnlinked(ctx context.Context, after uuid.UUID, limit, maxRepairAttempts int) ([]Document, error)
}
