package instrument

import (
	"errors"
	"time"

	"github.com/tenderops/tender-management/internal/catalog"
)

// CreateInstrumentDTO is the request payload for raising a new instrument
// against a payment request.
type CreateInstrumentDTO struct {
	RequestID       int64          `json:"request_id"`
	InstrumentType  string         `json:"instrument_type"`
	Amount          int64          `json:"amount"`
	Favouring       string         `json:"favouring"`
	PayableAt       string         `json:"payable_at"`
	CourierAddress  string         `json:"courier_address"`
	CourierDeadline *time.Time     `json:"courier_deadline,omitempty"`
	FormData        map[string]any `json:"form_data,omitempty"`
}

func (dto CreateInstrumentDTO) Validate() error {
	if dto.RequestID <= 0 {
		return errors.New("request_id is required")
	}
	if dto.InstrumentType == "" {
		return errors.New("instrument_type is required")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	return nil
}

// TransitionStatusDTO is the request payload for a status transition.
// FormData is opaque to the engine; the repository keeps only the keys
// that are columns of the type's detail table.
type TransitionStatusDTO struct {
	NewStatus string         `json:"new_status"`
	FormData  map[string]any `json:"form_data,omitempty"`
}

func (dto TransitionStatusDTO) Validate() error {
	if dto.NewStatus == "" {
		return errors.New("new_status is required")
	}
	return nil
}

// RejectInstrumentDTO is the request payload for rejecting an instrument.
type RejectInstrumentDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectInstrumentDTO) Validate() error {
	if dto.Reason == "" {
		return errors.New("reason is required when rejecting an instrument")
	}
	return nil
}

// ResubmitInstrumentDTO is the request payload for resubmitting a rejected
// instrument; FormData seeds the successor's detail row.
type ResubmitInstrumentDTO struct {
	FormData map[string]any `json:"form_data,omitempty"`
}

// AvailableActions describes what a caller may do with an instrument in
// its current state, shaped for the frontend action menu.
type AvailableActions struct {
	InstrumentID   int64           `json:"instrument_id,omitempty"`
	InstrumentType string          `json:"instrument_type,omitempty"`
	CurrentStatus  string          `json:"current_status,omitempty"`
	NextStages     []catalog.Stage `json:"next_stages"`
	CanResubmit    bool            `json:"can_resubmit"`
	IsTerminal     bool            `json:"is_terminal,omitempty"`
}
