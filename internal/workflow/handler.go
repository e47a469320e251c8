package workflow

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/tenderops/tender-management/internal/transport"
	"github.com/tenderops/tender-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
}

func NewHandler() *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper())}
}

func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string][]string{"workflows": Names()})
}

func (h *Handler) GetWorkflowSteps(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	steps, err := StepsFor(name)
	if err != nil {
		h.WriteError(w, http.StatusNotFound, "unknown workflow")
		return
	}
	h.WriteJSON(w, http.StatusOK, steps)
}

// GetWorkflowTimers computes the SLA windows of a workflow anchored at the
// given start date (?start=YYYY-MM-DD, default today).
func (h *Handler) GetWorkflowTimers(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	start := time.Now()
	if startStr := r.URL.Query().Get("start"); startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
			return
		}
		start = parsed
	}

	timers, err := Schedule(name, start)
	if err != nil {
		h.WriteError(w, http.StatusNotFound, "unknown workflow")
		return
	}
	h.WriteJSON(w, http.StatusOK, timers)
}
