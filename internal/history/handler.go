package history

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/tenderops/tender-management/internal/transport"
	"github.com/tenderops/tender-management/pkg/logger"
)

type ServiceAPI interface {
	GetHistory(instrumentID int64) ([]*Entry, error)
	GetLineageHistory(instrumentID int64) ([]*Entry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// GetHistory serves the audit trail of one instrument. With ?lineage=true
// the response includes every rejected predecessor's entries as well.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	instrumentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetHistory: invalid instrument ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid instrument ID")
		return
	}

	var entries []*Entry
	if r.URL.Query().Get("lineage") == "true" {
		entries, err = h.Service.GetLineageHistory(instrumentID)
	} else {
		entries, err = h.Service.GetHistory(instrumentID)
	}
	if err != nil {
		h.Logger.Error("GetHistory: service error", "error", err, "instrument_id", instrumentID)
		h.HandleServiceError(w, err)
		return
	}

	if entries == nil {
		entries = []*Entry{}
	}
	h.WriteJSON(w, http.StatusOK, entries)
}
