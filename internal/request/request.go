package request

import (
	"time"

	requestDatamodel "github.com/tenderops/tender-management/internal/core/datamodel/request"
)

// Request is the business payment requirement of one tender, the anchor
// every payment instrument is raised against.
type Request struct {
	ID              int64      `json:"id"`
	ReferenceNumber string     `json:"reference_number"`
	TenderReference string     `json:"tender_reference"`
	Purpose         string     `json:"purpose"`
	Amount          int64      `json:"amount"`
	RequestedBy     string     `json:"requested_by,omitempty"`
	NeededBy        *time.Time `json:"needed_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ToDataModel(r *Request) *requestDatamodel.PaymentRequest {
	return &requestDatamodel.PaymentRequest{
		ID:              r.ID,
		ReferenceNumber: r.ReferenceNumber,
		TenderReference: r.TenderReference,
		Purpose:         r.Purpose,
		Amount:          r.Amount,
		RequestedBy:     r.RequestedBy,
		NeededBy:        r.NeededBy,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromDataModel(m *requestDatamodel.PaymentRequest) *Request {
	return &Request{
		ID:              m.ID,
		ReferenceNumber: m.ReferenceNumber,
		TenderReference: m.TenderReference,
		Purpose:         m.Purpose,
		Amount:          m.Amount,
		RequestedBy:     m.RequestedBy,
		NeededBy:        m.NeededBy,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*requestDatamodel.PaymentRequest) []*Request {
	result := make([]*Request, 0, len(models))
	for _, m := range models {
		result = append(result, FromDataModel(m))
	}
	return result
}
