package instrument

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/tenderops/tender-management/internal/auth"
	"github.com/tenderops/tender-management/internal/transport"
	"github.com/tenderops/tender-management/pkg/logger"
)

type ServiceAPI interface {
	CreateInstrument(dto CreateInstrumentDTO) (*Instrument, error)
	GetInstrument(instrumentID int64) (*Instrument, error)
	GetInstrumentsForRequest(requestID int64, activeOnly bool) ([]*Instrument, error)
	TransitionStatus(instrumentID int64, dto TransitionStatusDTO, changeCtx map[string]any) (*Instrument, error)
	RejectInstrument(instrumentID int64, dto RejectInstrumentDTO, changeCtx map[string]any) (*Instrument, error)
	ResubmitInstrument(rejectedInstrumentID int64, dto ResubmitInstrumentDTO, changeCtx map[string]any) (*Instrument, error)
	GetAvailableActions(instrumentID int64) *AvailableActions
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

func (h *Handler) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateInstrument: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateInstrumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateInstrument: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inst, err := h.Service.CreateInstrument(dto)
	if err != nil {
		h.Logger.Error("CreateInstrument: service error", "error", err, "request_id", dto.RequestID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateInstrument: instrument created",
		"instrument_id", inst.ID,
		"request_id", inst.RequestID,
		"instrument_type", inst.InstrumentType)

	h.WriteJSON(w, http.StatusCreated, inst)
}

func (h *Handler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	instrumentID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	inst, err := h.Service.GetInstrument(instrumentID)
	if err != nil {
		h.Logger.Error("GetInstrument: service error", "error", err, "instrument_id", instrumentID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inst)
}

func (h *Handler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("TransitionStatus: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	instrumentID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var dto TransitionStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("TransitionStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inst, err := h.Service.TransitionStatus(instrumentID, dto, changeContext(user))
	if err != nil {
		h.Logger.Error("TransitionStatus: service error", "error", err, "instrument_id", instrumentID, "new_status", dto.NewStatus)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inst)
}

func (h *Handler) RejectInstrument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("RejectInstrument: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	instrumentID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var dto RejectInstrumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RejectInstrument: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inst, err := h.Service.RejectInstrument(instrumentID, dto, changeContext(user))
	if err != nil {
		h.Logger.Error("RejectInstrument: service error", "error", err, "instrument_id", instrumentID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inst)
}

func (h *Handler) ResubmitInstrument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ResubmitInstrument: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	instrumentID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var dto ResubmitInstrumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ResubmitInstrument: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	successor, err := h.Service.ResubmitInstrument(instrumentID, dto, changeContext(user))
	if err != nil {
		h.Logger.Error("ResubmitInstrument: service error", "error", err, "instrument_id", instrumentID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("ResubmitInstrument: new lineage created",
		"new_instrument_id", successor.ID,
		"resubmitted_from_id", instrumentID)

	h.WriteJSON(w, http.StatusCreated, successor)
}

func (h *Handler) GetAvailableActions(w http.ResponseWriter, r *http.Request) {
	instrumentID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	h.WriteJSON(w, http.StatusOK, h.Service.GetAvailableActions(instrumentID))
}

func (h *Handler) GetInstrumentsForRequest(w http.ResponseWriter, r *http.Request) {
	requestIDStr := chi.URLParam(r, "requestID")
	requestID, err := strconv.ParseInt(requestIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetInstrumentsForRequest: invalid request ID", "id", requestIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"

	instruments, err := h.Service.GetInstrumentsForRequest(requestID, activeOnly)
	if err != nil {
		h.Logger.Error("GetInstrumentsForRequest: service error", "error", err, "request_id", requestID)
		h.HandleServiceError(w, err)
		return
	}

	if instruments == nil {
		instruments = []*Instrument{}
	}
	h.WriteJSON(w, http.StatusOK, instruments)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid instrument ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid instrument ID")
		return 0, false
	}
	return id, true
}

func changeContext(user *auth.User) map[string]any {
	return map[string]any{
		"actor":   user.Email,
		"user_id": user.ID,
	}
}
