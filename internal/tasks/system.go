package tasks

import (
	"context"

	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/pagination"
)

// System defines the public contract for task domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Task], error)

	Find(ctx context.Context, id uuid.UUID) (*Task, error)
	Upsert(ctx context.Context, cmd UpsertCommand) (*Task, error)
	Complete(ctx context.Context, id uuid.UUID) (bool, error)
	ListRanked(ctx context.Context, limit int) ([]Task, error)
}
