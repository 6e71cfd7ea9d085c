package api

import (
	"github.com/mrsingh86/freightdesk/internal/config"
	"github.com/mrsingh86/freightdesk/internal/infrastructure"
	"github.com/mrsingh86/freightdesk/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	OwnDomains []string
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		OwnDomains: cfg.Batch.OwnDomains,
	}
}
