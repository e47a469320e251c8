package instrument

import (
	"time"

	instrumentDatamodel "github.com/tenderops/tender-management/internal/core/datamodel/instrument"
)

// Instrument is one payment instrument securing a tender requirement.
// Status and Action move together: Action mirrors the stage number of
// Status for range queries and is maintained only by the Service.
type Instrument struct {
	ID              int64      `json:"id"`
	RequestID       int64      `json:"request_id"`
	InstrumentType  string     `json:"instrument_type"`
	Status          string     `json:"status"`
	Action          int        `json:"action"`
	Amount          int64      `json:"amount"`
	Favouring       string     `json:"favouring,omitempty"`
	PayableAt       string     `json:"payable_at,omitempty"`
	CourierAddress  string     `json:"courier_address,omitempty"`
	CourierDeadline *time.Time `json:"courier_deadline,omitempty"`
	IsActive        bool       `json:"is_active"`
	Version         int64      `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ToDataModel(i *Instrument) *instrumentDatamodel.PaymentInstrument {
	return &instrumentDatamodel.PaymentInstrument{
		ID:              i.ID,
		RequestID:       i.RequestID,
		InstrumentType:  i.InstrumentType,
		Status:          i.Status,
		Action:          i.Action,
		Amount:          i.Amount,
		Favouring:       i.Favouring,
		PayableAt:       i.PayableAt,
		CourierAddress:  i.CourierAddress,
		CourierDeadline: i.CourierDeadline,
		IsActive:        i.IsActive,
		Version:         i.Version,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func FromDataModel(m *instrumentDatamodel.PaymentInstrument) *Instrument {
	return &Instrument{
		ID:              m.ID,
		RequestID:       m.RequestID,
		InstrumentType:  m.InstrumentType,
		Status:          m.Status,
		Action:          m.Action,
		Amount:          m.Amount,
		Favouring:       m.Favouring,
		PayableAt:       m.PayableAt,
		CourierAddress:  m.CourierAddress,
		CourierDeadline: m.CourierDeadline,
		IsActive:        m.IsActive,
		Version:         m.Version,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*instrumentDatamodel.PaymentInstrument) []*Instrument {
	result := make([]*Instrument, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
