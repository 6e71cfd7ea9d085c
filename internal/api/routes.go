package api

import (
	"net/http"

	"github.com/mrsingh86/freightdesk/internal/config"
	"github.com/mrsingh86/freightdesk/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Shipments.Handler().Routes(),
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Links.Handler().Routes(),
		domain.Signals.Handler().Routes(),
		domain.Tasks.Handler().Routes(),
		newScoreHandler(runtime.Logger).routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
	)
}
