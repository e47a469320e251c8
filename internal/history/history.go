package history

import (
	"encoding/json"
	"time"

	instrumentDatamodel "github.com/tenderops/tender-management/internal/core/datamodel/instrument"
)

// Entry is one immutable status-change record in an instrument's audit
// trail. Entries are only ever inserted; nothing in the system updates or
// deletes one.
type Entry struct {
	ID                int64          `json:"id"`
	InstrumentID      int64          `json:"instrument_id"`
	InstrumentType    string         `json:"instrument_type"`
	PreviousStatus    string         `json:"previous_status,omitempty"`
	NewStatus         string         `json:"new_status"`
	ChangedBy         string         `json:"changed_by,omitempty"`
	Context           map[string]any `json:"context,omitempty"`
	RejectionReason   *string        `json:"rejection_reason,omitempty"`
	FormData          map[string]any `json:"form_data,omitempty"`
	ResubmittedFromID *int64         `json:"resubmitted_from_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// Change carries everything the recorder needs to append one entry.
// Context is an opaque caller map (actor id, request metadata) recorded
// verbatim; the recorder does not interpret it beyond lifting ChangedBy.
type Change struct {
	InstrumentID      int64
	InstrumentType    string
	PreviousStatus    string
	NewStatus         string
	ChangedBy         string
	Context           map[string]any
	RejectionReason   *string
	FormData          map[string]any
	ResubmittedFromID *int64
}

func ToDataModel(c Change) *instrumentDatamodel.StatusHistory {
	return &instrumentDatamodel.StatusHistory{
		InstrumentID:      c.InstrumentID,
		InstrumentType:    c.InstrumentType,
		PreviousStatus:    c.PreviousStatus,
		NewStatus:         c.NewStatus,
		ChangedBy:         c.ChangedBy,
		Context:           marshalMap(c.Context),
		RejectionReason:   c.RejectionReason,
		FormData:          marshalMap(c.FormData),
		ResubmittedFromID: c.ResubmittedFromID,
	}
}

func FromDataModel(h *instrumentDatamodel.StatusHistory) *Entry {
	return &Entry{
		ID:                h.ID,
		InstrumentID:      h.InstrumentID,
		InstrumentType:    h.InstrumentType,
		PreviousStatus:    h.PreviousStatus,
		NewStatus:         h.NewStatus,
		ChangedBy:         h.ChangedBy,
		Context:           unmarshalMap(h.Context),
		RejectionReason:   h.RejectionReason,
		FormData:          unmarshalMap(h.FormData),
		ResubmittedFromID: h.ResubmittedFromID,
		CreatedAt:         h.CreatedAt,
	}
}

func FromDataModelSlice(rows []*instrumentDatamodel.StatusHistory) []*Entry {
	entries := make([]*Entry, len(rows))
	for i, row := range rows {
		entries[i] = FromDataModel(row)
	}
	return entries
}

func marshalMap(m map[string]any) json.RawMessage {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return raw
}

func unmarshalMap(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
