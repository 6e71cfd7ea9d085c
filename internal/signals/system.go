package signals

import (
	"context"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/pagination"
)

// System defines the public contract for signal domain operations.
type System interface {
	Handler() *Handler

	ListBlockers(
		ctx context.Context,
		page pagination.PageRequest,
		filters BlockerFilters,
	) (*pagination.PageResult[Blocker], error)

	CreateBlocker(ctx context.Context, cmd CreateBlockerCommand) (*Blocker, error)
	ClearBlocker(ctx context.Context, id uuid.UUID) (bool, error)
	ListOpenBlockers(ctx context.Context, shipmentID uuid.UUID) ([]Blocker, error)

	CreateInsight(ctx context.Context, cmd CreateInsightCommand) (*Insight, error)
	ListInsights(ctx context.Context, shipmentID uuid.UUID) ([]Insight, error)
}
