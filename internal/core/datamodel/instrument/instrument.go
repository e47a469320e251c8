package instrument

import (
	"encoding/json"
	"time"
)

// PaymentInstrument is one money instrument (DD, FDR, BG, cheque, bank
// transfer or portal payment) backing a payment request. Status and action
// are mutated only through the instrument status engine; version guards
// against racing transitions.
type PaymentInstrument struct {
	ID              int64      `gorm:"primaryKey"`
	RequestID       int64      `gorm:"column:request_id;not null"`
	InstrumentType  string     `gorm:"column:instrument_type;not null"`
	Status          string     `gorm:"column:status;not null"`
	Action          int        `gorm:"column:action;default:0"`
	Amount          int64      `gorm:"column:amount;not null"`
	Favouring       string     `gorm:"column:favouring"`
	PayableAt       string     `gorm:"column:payable_at"`
	CourierAddress  string     `gorm:"column:courier_address"`
	CourierDeadline *time.Time `gorm:"column:courier_deadline"`
	IsActive        bool       `gorm:"column:is_active;default:true"`
	Version         int64      `gorm:"column:version;default:0"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (PaymentInstrument) TableName() string {
	return "payment_instruments"
}

// StatusHistory is the append-only audit record of one status change.
// Rows are inserted by the history recorder and never updated or deleted.
type StatusHistory struct {
	ID                int64           `gorm:"primaryKey"`
	InstrumentID      int64           `gorm:"column:instrument_id;not null;index"`
	InstrumentType    string          `gorm:"column:instrument_type;not null"`
	PreviousStatus    string          `gorm:"column:previous_status"`
	NewStatus         string          `gorm:"column:new_status;not null"`
	ChangedBy         string          `gorm:"column:changed_by"`
	Context           json.RawMessage `gorm:"column:context;type:jsonb"`
	RejectionReason   *string         `gorm:"column:rejection_reason"`
	FormData          json.RawMessage `gorm:"column:form_data;type:jsonb"`
	ResubmittedFromID *int64          `gorm:"column:resubmitted_from_id"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (StatusHistory) TableName() string {
	return "instrument_status_history"
}

// Detail rows hold the stage-specific form fields of one instrument, one
// row per instrument id, overwritten in place as the instrument advances.
// History of earlier stages lives in StatusHistory form snapshots. Dates
// arrive as form text and are stored as submitted.

type DDDetail struct {
	ID           int64     `gorm:"primaryKey"`
	InstrumentID int64     `gorm:"column:instrument_id;not null;uniqueIndex"`
	DDNumber     *string   `gorm:"column:dd_number"`
	BankName     *string   `gorm:"column:bank_name"`
	BranchName   *string   `gorm:"column:branch_name"`
	IssueDate    *string   `gorm:"column:issue_date"`
	DocketNumber *string   `gorm:"column:docket_number"`
	CourierName  *string   `gorm:"column:courier_name"`
	Remarks      *string   `gorm:"column:remarks"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DDDetail) TableName() string {
	return "dd_details"
}

type FDRDetail struct {
	ID           int64     `gorm:"primaryKey"`
	InstrumentID int64     `gorm:"column:instrument_id;not null;uniqueIndex"`
	FDRNumber    *string   `gorm:"column:fdr_number"`
	BankName     *string   `gorm:"column:bank_name"`
	BranchName   *string   `gorm:"column:branch_name"`
	IssueDate    *string   `gorm:"column:issue_date"`
	MaturityDate *string   `gorm:"column:maturity_date"`
	DocketNumber *string   `gorm:"column:docket_number"`
	CourierName  *string   `gorm:"column:courier_name"`
	Remarks      *string   `gorm:"column:remarks"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (FDRDetail) TableName() string {
	return "fdr_details"
}

type BGDetail struct {
	ID              int64     `gorm:"primaryKey"`
	InstrumentID    int64     `gorm:"column:instrument_id;not null;uniqueIndex"`
	BGNumber        *string   `gorm:"column:bg_number"`
	BankName        *string   `gorm:"column:bank_name"`
	BranchName      *string   `gorm:"column:branch_name"`
	IssueDate       *string   `gorm:"column:issue_date"`
	ExpiryDate      *string   `gorm:"column:expiry_date"`
	ClaimExpiryDate *string   `gorm:"column:claim_expiry_date"`
	ExtensionDate   *string   `gorm:"column:extension_date"`
	DocketNumber    *string   `gorm:"column:docket_number"`
	CourierName     *string   `gorm:"column:courier_name"`
	Remarks         *string   `gorm:"column:remarks"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (BGDetail) TableName() string {
	return "bg_details"
}

type ChequeDetail struct {
	ID           int64     `gorm:"primaryKey"`
	InstrumentID int64     `gorm:"column:instrument_id;not null;uniqueIndex"`
	ChequeNumber *string   `gorm:"column:cheque_number"`
	BankName     *string   `gorm:"column:bank_name"`
	BranchName   *string   `gorm:"column:branch_name"`
	IssueDate    *string   `gorm:"column:issue_date"`
	HandoverTo   *string   `gorm:"column:handover_to"`
	ClearedOn    *string   `gorm:"column:cleared_on"`
	Remarks      *string   `gorm:"column:remarks"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ChequeDetail) TableName() string {
	return "cheque_details"
}

type TransferDetail struct {
	ID           int64     `gorm:"primaryKey"`
	InstrumentID int64     `gorm:"column:instrument_id;not null;uniqueIndex"`
	UTRNumber    *string   `gorm:"column:utr_number"`
	BankName     *string   `gorm:"column:bank_name"`
	TransferDate *string   `gorm:"column:transfer_date"`
	Remarks      *string   `gorm:"column:remarks"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (TransferDetail) TableName() string {
	return "transfer_details"
}

type PortalDetail struct {
	ID               int64     `gorm:"primaryKey"`
	InstrumentID     int64     `gorm:"column:instrument_id;not null;uniqueIndex"`
	PortalName       *string   `gorm:"column:portal_name"`
	PaymentReference *string   `gorm:"column:payment_reference"`
	PaymentDate      *string   `gorm:"column:payment_date"`
	Remarks          *string   `gorm:"column:remarks"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PortalDetail) TableName() string {
	return "portal_details"
}
