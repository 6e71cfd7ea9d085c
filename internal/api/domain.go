package api

import (
	"github.com/mrsingh86/freightdesk/internal/documents"
	"github.com/mrsingh86/freightdesk/internal/links"
	"github.com/mrsingh86/freightdesk/internal/shipments"
	"github.com/mrsingh86/freightdesk/internal/signals"
	"github.com/mrsingh86/freightdesk/internal/tasks"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Shipments shipments.System
	Documents documents.System
	Links     links.System
	Signals   signals.System
	Tasks     tasks.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	shipmentSys := shipments.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	documentSys := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		runtime.OwnDomains,
	)

	linkSys := links.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	signalSys := signals.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	taskSys := tasks.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Shipments: shipmentSys,
		Documents: documentSys,
		Links:     linkSys,
		Signals:   signalSys,
		Tasks:     taskSys,
	}
}
