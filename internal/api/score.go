package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mrsingh86/freightdesk/internal/priority"
	"github.com/mrsingh86/freightdesk/pkg/handlers"
	"github.com/mrsingh86/freightdesk/pkg/routes"
)

var errInvalidScoreRequest = errors.New("invalid score request")

// scoreHandler exposes the priority scorer directly so operators can preview
// how a set of inputs would rank without waiting for a batch run.
type scoreHandler struct {
	logger *slog.Logger
}

func newScoreHandler(logger *slog.Logger) *scoreHandler {
	return &scoreHandler{
		logger: logger.With("handler", "score"),
	}
}

func (h *scoreHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/score",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.preview},
		},
	}
}

func (h *scoreHandler) preview(w http.ResponseWriter, r *http.Request) {
	var in priority.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidScoreRequest)
		return
	}

	if in.Now.IsZero() {
		in.Now = time.Now().UTC()
	}

	handlers.RespondJSON(w, http.StatusOK, priority.Score(in))
}
