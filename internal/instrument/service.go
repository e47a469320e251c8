package instrument

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tenderops/tender-management/internal"
	"github.com/tenderops/tender-management/internal/catalog"
	"github.com/tenderops/tender-management/internal/core/events"
	"github.com/tenderops/tender-management/internal/history"
)

// Repository defines the data access methods for instruments. WithTx
// yields a transaction-scoped repository and history recorder so one
// engine operation commits or rolls back as a unit.
type Repository interface {
	GetByID(id int64) (*Instrument, error)
	GetByRequestID(requestID int64) ([]*Instrument, error)
	GetActiveByRequestID(requestID int64) ([]*Instrument, error)
	Create(inst *Instrument) error
	UpdateStatus(id int64, status string, action int, version int64) error
	Deactivate(id int64, version int64) error
	CreateDetail(t catalog.InstrumentType, instrumentID int64, fields map[string]any) error
	UpdateDetail(t catalog.InstrumentType, instrumentID int64, fields map[string]any) error
	WithTx(fn func(tx Repository, recorder history.RecorderAPI) error) error
}

// Service is the sole authority for mutating an instrument's status. It
// validates every transition against the status catalog, keeps status and
// action in sync, and records one history entry per mutating call.
//
// Same-stage transitions with identical data are accepted deliberately:
// every call is audit-logged whether or not anything changed.
type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// CreateInstrument raises a fresh instrument against a payment request at
// the type's initial status, with its detail row.
func (s *Service) CreateInstrument(dto CreateInstrumentDTO) (*Instrument, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("instrument validation failed", "error", err, "request_id", dto.RequestID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	instrumentType := catalog.InstrumentType(dto.InstrumentType)
	initialStatus, err := catalog.InitialStatus(instrumentType)
	if err != nil {
		return nil, internal.NewInvalidInputError(fmt.Sprintf("unknown instrument type: %s", dto.InstrumentType))
	}

	inst := &Instrument{
		RequestID:       dto.RequestID,
		InstrumentType:  dto.InstrumentType,
		Status:          initialStatus,
		Action:          0,
		Amount:          dto.Amount,
		Favouring:       dto.Favouring,
		PayableAt:       dto.PayableAt,
		CourierAddress:  dto.CourierAddress,
		CourierDeadline: dto.CourierDeadline,
		IsActive:        true,
	}

	err = s.repo.WithTx(func(tx Repository, _ history.RecorderAPI) error {
		if err := tx.Create(inst); err != nil {
			return err
		}
		return tx.CreateDetail(instrumentType, inst.ID, dto.FormData)
	})
	if err != nil {
		s.logger.Error("failed to create instrument", "error", err, "request_id", dto.RequestID)
		return nil, err
	}

	s.logger.Info("instrument created",
		"instrument_id", inst.ID,
		"request_id", dto.RequestID,
		"instrument_type", dto.InstrumentType,
		"amount", dto.Amount)

	return inst, nil
}

// TransitionStatus moves an instrument to newStatus. The target stage must
// equal the current stage or be directly reachable from it; rejected and
// terminal instruments cannot transition at all.
func (s *Service) TransitionStatus(instrumentID int64, dto TransitionStatusDTO, changeCtx map[string]any) (*Instrument, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	var updated *Instrument
	var previousStatus string

	err := s.repo.WithTx(func(tx Repository, recorder history.RecorderAPI) error {
		inst, err := tx.GetByID(instrumentID)
		if err != nil {
			return err
		}

		instrumentType := catalog.InstrumentType(inst.InstrumentType)

		if catalog.IsRejectedStatus(instrumentType, inst.Status) {
			return internal.NewInvalidStateError("cannot transition from rejected status, please resubmit")
		}
		if catalog.IsTerminalStatus(instrumentType, inst.Status) {
			return internal.NewInvalidStateError(fmt.Sprintf("instrument is in terminal status %s", inst.Status))
		}

		targetStage, ok := catalog.StageFromStatus(instrumentType, dto.NewStatus)
		if !ok {
			return internal.NewInvalidInputError(fmt.Sprintf("status %s is not valid for instrument type %s", dto.NewStatus, inst.InstrumentType))
		}

		currentStage, _ := catalog.StageFromStatus(instrumentType, inst.Status)
		if targetStage != currentStage && !containsStage(catalog.NextAvailableStages(instrumentType, inst.Status), targetStage) {
			return internal.NewInvalidTransitionError(fmt.Sprintf("cannot transition from stage %d to stage %d", currentStage, targetStage))
		}

		if err := tx.UpdateStatus(inst.ID, dto.NewStatus, targetStage, inst.Version); err != nil {
			return err
		}
		if err := tx.UpdateDetail(instrumentType, inst.ID, dto.FormData); err != nil {
			return err
		}

		if err := recorder.RecordStatusChange(history.Change{
			InstrumentID:   inst.ID,
			InstrumentType: inst.InstrumentType,
			PreviousStatus: inst.Status,
			NewStatus:      dto.NewStatus,
			ChangedBy:      changedBy(changeCtx),
			Context:        changeCtx,
			FormData:       dto.FormData,
		}); err != nil {
			return err
		}

		previousStatus = inst.Status
		inst.Status = dto.NewStatus
		inst.Action = targetStage
		inst.Version++
		inst.UpdatedAt = time.Now()
		updated = inst
		return nil
	})
	if err != nil {
		s.logger.Error("status transition failed", "error", err, "instrument_id", instrumentID, "new_status", dto.NewStatus)
		return nil, err
	}

	s.logger.Info("instrument status transitioned",
		"instrument_id", updated.ID,
		"instrument_type", updated.InstrumentType,
		"previous_status", previousStatus,
		"new_status", updated.Status,
		"stage", updated.Action)

	s.publish(events.NewInstrumentStatusChangedEvent(updated.ID, updated.InstrumentType, previousStatus, updated.Status, updated.Action))

	return updated, nil
}

// RejectInstrument moves an instrument into the rejection status defined
// for its current (type, stage). Stages without a rejection rule, rejected
// instruments and terminal instruments cannot be rejected.
func (s *Service) RejectInstrument(instrumentID int64, dto RejectInstrumentDTO, changeCtx map[string]any) (*Instrument, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	var updated *Instrument

	err := s.repo.WithTx(func(tx Repository, recorder history.RecorderAPI) error {
		inst, err := tx.GetByID(instrumentID)
		if err != nil {
			return err
		}

		instrumentType := catalog.InstrumentType(inst.InstrumentType)

		if catalog.IsRejectedStatus(instrumentType, inst.Status) {
			return internal.NewInvalidStateError("instrument is already in a rejected status")
		}
		if catalog.IsTerminalStatus(instrumentType, inst.Status) {
			return internal.NewInvalidStateError(fmt.Sprintf("instrument is in terminal status %s", inst.Status))
		}

		currentStage, ok := catalog.StageFromStatus(instrumentType, inst.Status)
		if !ok {
			return internal.NewInvalidInputError(fmt.Sprintf("status %s is not valid for instrument type %s", inst.Status, inst.InstrumentType))
		}

		rejectedStatus, ok := catalog.RejectedStatusFor(instrumentType, currentStage)
		if !ok {
			return internal.NewInvalidStateError(fmt.Sprintf("rejection is not permitted at stage %d for instrument type %s", currentStage, inst.InstrumentType))
		}

		// Action stays at the stage the rejection happened in; the detail
		// row is untouched on rejection.
		if err := tx.UpdateStatus(inst.ID, rejectedStatus, inst.Action, inst.Version); err != nil {
			return err
		}

		reason := dto.Reason
		if err := recorder.RecordStatusChange(history.Change{
			InstrumentID:    inst.ID,
			InstrumentType:  inst.InstrumentType,
			PreviousStatus:  inst.Status,
			NewStatus:       rejectedStatus,
			ChangedBy:       changedBy(changeCtx),
			Context:         changeCtx,
			RejectionReason: &reason,
		}); err != nil {
			return err
		}

		inst.Status = rejectedStatus
		inst.Version++
		inst.UpdatedAt = time.Now()
		updated = inst
		return nil
	})
	if err != nil {
		s.logger.Error("instrument rejection failed", "error", err, "instrument_id", instrumentID)
		return nil, err
	}

	s.logger.Info("instrument rejected",
		"instrument_id", updated.ID,
		"instrument_type", updated.InstrumentType,
		"rejected_status", updated.Status,
		"reason", dto.Reason)

	s.publish(events.NewInstrumentRejectedEvent(updated.ID, updated.InstrumentType, updated.Status, dto.Reason))

	return updated, nil
}

// ResubmitInstrument forks a new lineage from a rejected instrument: the
// source is deactivated with its status untouched and a successor is
// created at the type's initial status. The rejected record stays
// queryable for audit.
func (s *Service) ResubmitInstrument(rejectedInstrumentID int64, dto ResubmitInstrumentDTO, changeCtx map[string]any) (*Instrument, error) {
	var successor *Instrument

	err := s.repo.WithTx(func(tx Repository, recorder history.RecorderAPI) error {
		source, err := tx.GetByID(rejectedInstrumentID)
		if err != nil {
			return err
		}

		instrumentType := catalog.InstrumentType(source.InstrumentType)

		if !catalog.IsRejectedStatus(instrumentType, source.Status) {
			return internal.NewInvalidStateError("instrument is not in a rejected status")
		}

		initialStatus, err := catalog.InitialStatus(instrumentType)
		if err != nil {
			return internal.NewInvalidInputError(fmt.Sprintf("unknown instrument type: %s", source.InstrumentType))
		}

		if err := tx.Deactivate(source.ID, source.Version); err != nil {
			return err
		}

		successor = &Instrument{
			RequestID:       source.RequestID,
			InstrumentType:  source.InstrumentType,
			Status:          initialStatus,
			Action:          0,
			Amount:          source.Amount,
			Favouring:       source.Favouring,
			PayableAt:       source.PayableAt,
			CourierAddress:  source.CourierAddress,
			CourierDeadline: source.CourierDeadline,
			IsActive:        true,
		}
		if err := tx.Create(successor); err != nil {
			return err
		}
		if err := tx.CreateDetail(instrumentType, successor.ID, dto.FormData); err != nil {
			return err
		}

		resubmittedFrom := source.ID
		return recorder.RecordResubmission(history.Change{
			InstrumentID:      successor.ID,
			InstrumentType:    successor.InstrumentType,
			NewStatus:         initialStatus,
			ChangedBy:         changedBy(changeCtx),
			Context:           changeCtx,
			FormData:          dto.FormData,
			ResubmittedFromID: &resubmittedFrom,
		})
	})
	if err != nil {
		s.logger.Error("instrument resubmission failed", "error", err, "instrument_id", rejectedInstrumentID)
		return nil, err
	}

	s.logger.Info("instrument resubmitted",
		"new_instrument_id", successor.ID,
		"resubmitted_from_id", rejectedInstrumentID,
		"instrument_type", successor.InstrumentType)

	s.publish(events.NewInstrumentResubmittedEvent(successor.ID, rejectedInstrumentID, successor.InstrumentType))

	return successor, nil
}

// GetAvailableActions is the read-only helper for the frontend action
// menu. It never fails: a missing instrument degrades to a neutral result.
func (s *Service) GetAvailableActions(instrumentID int64) *AvailableActions {
	actions := &AvailableActions{NextStages: []catalog.Stage{}}

	inst, err := s.repo.GetByID(instrumentID)
	if err != nil {
		return actions
	}

	actions.InstrumentID = inst.ID
	actions.InstrumentType = inst.InstrumentType
	actions.CurrentStatus = inst.Status

	instrumentType := catalog.InstrumentType(inst.InstrumentType)

	if catalog.IsRejectedStatus(instrumentType, inst.Status) {
		actions.CanResubmit = true
		return actions
	}
	if catalog.IsTerminalStatus(instrumentType, inst.Status) {
		actions.IsTerminal = true
		return actions
	}

	for _, stageNumber := range catalog.NextAvailableStages(instrumentType, inst.Status) {
		if meta, ok := catalog.StageMeta(instrumentType, stageNumber); ok {
			actions.NextStages = append(actions.NextStages, meta)
		}
	}
	return actions
}

// GetInstrument retrieves one instrument by id.
func (s *Service) GetInstrument(instrumentID int64) (*Instrument, error) {
	return s.repo.GetByID(instrumentID)
}

// GetInstrumentsForRequest lists all instruments raised against a payment
// request, superseded lineages included. activeOnly narrows to current
// chain heads.
func (s *Service) GetInstrumentsForRequest(requestID int64, activeOnly bool) ([]*Instrument, error) {
	if activeOnly {
		return s.repo.GetActiveByRequestID(requestID)
	}
	return s.repo.GetByRequestID(requestID)
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish event", "error", err, "event_type", event.EventType())
	}
}

func changedBy(changeCtx map[string]any) string {
	if changeCtx == nil {
		return ""
	}
	if actor, ok := changeCtx["actor"].(string); ok {
		return actor
	}
	return ""
}

func containsStage(stages []int, target int) bool {
	for _, stage := range stages {
		if stage == target {
			return true
		}
	}
	return false
}
