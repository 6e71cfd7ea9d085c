package links

import (
	"context"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/pagination"
)

// AttachCommand binds a document to a shipment with the resolution method
// and confidence the cascade produced.
type AttachCommand struct {
	DocumentID uuid.UUID `json:"document_id"`
	ShipmentID uuid.UUID `json:"shipment_id"`
	Method     string    `json:"method"`
	Confidence int       `json:"confidence"`
}

// System defines the public contract for link domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Link], error)

	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Link, error)

	Attach(ctx context.Context, cmd AttachCommand) (bool, *Link, error)
	RecordMiss(ctx context.Context, documentID uuid.UUID) error
	Revoke(ctx context.Context, documentID uuid.UUID) (bool, error)

	ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]Link, error)
	ScanActive(ctx context.Context, after uuid.UUID, limit int) ([]ActiveLink, error)
}
