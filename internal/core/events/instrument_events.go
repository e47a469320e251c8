package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeInstrumentStatusChanged = "instrument.status_changed"
	EventTypeInstrumentRejected      = "instrument.rejected"
	EventTypeInstrumentResubmitted   = "instrument.resubmitted"
)

type InstrumentStatusChangedEvent struct {
	BaseEvent
	InstrumentID   int64  `json:"instrument_id"`
	InstrumentType string `json:"instrument_type"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Stage          int    `json:"stage"`
}

func NewInstrumentStatusChangedEvent(instrumentID int64, instrumentType, previousStatus, newStatus string, stage int) *InstrumentStatusChangedEvent {
	return &InstrumentStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeInstrumentStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"instrument_id":   instrumentID,
				"instrument_type": instrumentType,
				"previous_status": previousStatus,
				"new_status":      newStatus,
				"stage":           stage,
			},
		},
		InstrumentID:   instrumentID,
		InstrumentType: instrumentType,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		Stage:          stage,
	}
}

type InstrumentRejectedEvent struct {
	BaseEvent
	InstrumentID   int64  `json:"instrument_id"`
	InstrumentType string `json:"instrument_type"`
	RejectedStatus string `json:"rejected_status"`
	Reason         string `json:"reason"`
}

func NewInstrumentRejectedEvent(instrumentID int64, instrumentType, rejectedStatus, reason string) *InstrumentRejectedEvent {
	return &InstrumentRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeInstrumentRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"instrument_id":   instrumentID,
				"instrument_type": instrumentType,
				"rejected_status": rejectedStatus,
				"reason":          reason,
			},
		},
		InstrumentID:   instrumentID,
		InstrumentType: instrumentType,
		RejectedStatus: rejectedStatus,
		Reason:         reason,
	}
}

type InstrumentResubmittedEvent struct {
	BaseEvent
	NewInstrumentID   int64  `json:"new_instrument_id"`
	ResubmittedFromID int64  `json:"resubmitted_from_id"`
	InstrumentType    string `json:"instrument_type"`
}

func NewInstrumentResubmittedEvent(newInstrumentID, resubmittedFromID int64, instrumentType string) *InstrumentResubmittedEvent {
	return &InstrumentResubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeInstrumentResubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"new_instrument_id":   newInstrumentID,
				"resubmitted_from_id": resubmittedFromID,
				"instrument_type":     instrumentType,
			},
		},
		NewInstrumentID:   newInstrumentID,
		ResubmittedFromID: resubmittedFromID,
		InstrumentType:    instrumentType,
	}
}
