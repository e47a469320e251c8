package catalog

import "errors"

// InstrumentType identifies one payment-instrument pipeline.
type InstrumentType string

const (
	TypeDD           InstrumentType = "DD"
	TypeFDR          InstrumentType = "FDR"
	TypeBG           InstrumentType = "BG"
	TypeCheque       InstrumentType = "CHEQUE"
	TypeBankTransfer InstrumentType = "BANK_TRANSFER"
	TypePortal       InstrumentType = "PORTAL"
)

// Statuses shared across instrument types. Every pipeline starts at
// StatusPending; the three rejection markers are the only statuses an
// instrument can hold while awaiting resubmission.
const (
	StatusPending               = "PENDING"
	StatusAccountsFormSubmitted = "ACCOUNTS_FORM_SUBMITTED"
	StatusAccountsFormRejected  = "ACCOUNTS_FORM_REJECTED"
	StatusExtensionRequested    = "EXTENSION_REQUESTED"
	StatusCancellationRequested = "CANCELLATION_REQUESTED"
)

// Demand Draft statuses.
const (
	StatusDDCreated                = "DD_CREATED"
	StatusDDDispatched             = "DD_DISPATCHED"
	StatusDDDelivered              = "DD_DELIVERED"
	StatusDDRealised               = "DD_REALISED"
	StatusDDCancellationInitiated  = "DD_CANCELLATION_INITIATED"
	StatusDDCancelled              = "DD_CANCELLED"
)

// Fixed Deposit Receipt statuses.
const (
	StatusFDRCreated    = "FDR_CREATED"
	StatusFDRDispatched = "FDR_DISPATCHED"
	StatusFDRDelivered  = "FDR_DELIVERED"
	StatusFDRMatured    = "FDR_MATURED"
)

// Bank Guarantee statuses.
const (
	StatusBGDraftShared           = "BG_DRAFT_SHARED"
	StatusBGDraftApproved         = "BG_DRAFT_APPROVED"
	StatusBGIssued                = "BG_ISSUED"
	StatusBGDispatched            = "BG_DISPATCHED"
	StatusBGDelivered             = "BG_DELIVERED"
	StatusBGExtensionInitiated    = "BG_EXTENSION_INITIATED"
	StatusBGExtended              = "BG_EXTENDED"
	StatusBGReleaseRequested      = "BG_RELEASE_REQUESTED"
	StatusBGReleased              = "BG_RELEASED"
	StatusBGCancellationInitiated = "BG_CANCELLATION_INITIATED"
	StatusBGCancelled             = "BG_CANCELLED"
)

// Cheque statuses.
const (
	StatusChequeIssued     = "CHEQUE_ISSUED"
	StatusChequeHandedOver = "CHEQUE_HANDED_OVER"
	StatusChequeCleared    = "CHEQUE_CLEARED"
	StatusChequeBounced    = "CHEQUE_BOUNCED"
)

// Bank transfer statuses.
const (
	StatusTransferInitiated = "TRANSFER_INITIATED"
	StatusTransferConfirmed = "TRANSFER_CONFIRMED"
)

// Portal payment statuses.
const (
	StatusPortalPaymentCompleted = "PORTAL_PAYMENT_COMPLETED"
)

var ErrUnknownInstrumentType = errors.New("unknown instrument type")

// Stage groups the status values belonging to one step of a pipeline.
type Stage struct {
	Number   int      `json:"stage"`
	Name     string   `json:"name"`
	Statuses []string `json:"statuses"`
}

// typeSpec is the full static definition of one instrument type's pipeline.
// Specs are registered once in buildRegistry and never mutated afterwards.
type typeSpec struct {
	initialStatus string
	stages        []Stage
	stageOf       map[string]int
	terminal      map[string]bool
	rejected      map[string]bool
	next          map[int][]int
	rejectionRule map[int]string
	detailTable   string
	detailColumns map[string]bool
}

var registry = buildRegistry()

func buildRegistry() map[InstrumentType]*typeSpec {
	specs := map[InstrumentType]*typeSpec{
		TypeDD: newTypeSpec(
			[]Stage{
				{1, "Accounts Form", []string{StatusPending, StatusAccountsFormSubmitted}},
				{2, "DD Preparation", []string{StatusDDCreated}},
				{3, "Dispatch", []string{StatusDDDispatched}},
				{4, "Delivery", []string{StatusDDDelivered}},
				{5, "Realisation", []string{StatusDDRealised}},
				{6, "Cancellation", []string{StatusDDCancellationInitiated, StatusDDCancelled}},
			},
			[]string{StatusDDRealised, StatusDDCancelled},
			map[int][]int{1: {2}, 2: {3}, 3: {4}, 4: {5, 6}, 5: {}, 6: {}},
			map[int]string{1: StatusAccountsFormRejected, 6: StatusCancellationRequested},
			"dd_details",
			[]string{"dd_number", "bank_name", "branch_name", "issue_date", "docket_number", "courier_name", "remarks"},
		),
		TypeFDR: newTypeSpec(
			[]Stage{
				{1, "Accounts Form", []string{StatusPending, StatusAccountsFormSubmitted}},
				{2, "FDR Creation", []string{StatusFDRCreated}},
				{3, "Dispatch", []string{StatusFDRDispatched}},
				{4, "Delivery", []string{StatusFDRDelivered}},
				{5, "Maturity", []string{StatusFDRMatured}},
			},
			[]string{StatusFDRMatured},
			map[int][]int{1: {2}, 2: {3}, 3: {4}, 4: {5}, 5: {}},
			map[int]string{1: StatusAccountsFormRejected},
			"fdr_details",
			[]string{"fdr_number", "bank_name", "branch_name", "issue_date", "maturity_date", "docket_number", "courier_name", "remarks"},
		),
		TypeBG: newTypeSpec(
			[]Stage{
				{1, "Accounts Form", []string{StatusPending, StatusAccountsFormSubmitted}},
				{2, "BG Drafting", []string{StatusBGDraftShared, StatusBGDraftApproved}},
				{3, "BG Issuance", []string{StatusBGIssued}},
				{4, "Delivery", []string{StatusBGDispatched, StatusBGDelivered}},
				{5, "Extension", []string{StatusBGExtensionInitiated, StatusBGExtended}},
				{6, "Release", []string{StatusBGReleaseRequested, StatusBGReleased}},
				{7, "Cancellation", []string{StatusBGCancellationInitiated, StatusBGCancelled}},
			},
			[]string{StatusBGReleased, StatusBGCancelled},
			map[int][]int{1: {2}, 2: {3}, 3: {4}, 4: {5, 6, 7}, 5: {6, 7}, 6: {}, 7: {}},
			map[int]string{1: StatusAccountsFormRejected, 5: StatusExtensionRequested, 7: StatusCancellationRequested},
			"bg_details",
			[]string{"bg_number", "bank_name", "branch_name", "issue_date", "expiry_date", "claim_expiry_date", "extension_date", "docket_number", "courier_name", "remarks"},
		),
		TypeCheque: newTypeSpec(
			[]Stage{
				{1, "Accounts Form", []string{StatusPending, StatusAccountsFormSubmitted}},
				{2, "Cheque Issuance", []string{StatusChequeIssued}},
				{3, "Handover", []string{StatusChequeHandedOver}},
				{4, "Clearance", []string{StatusChequeCleared, StatusChequeBounced}},
			},
			[]string{StatusChequeCleared, StatusChequeBounced},
			map[int][]int{1: {2}, 2: {3}, 3: {4}, 4: {}},
			map[int]string{1: StatusAccountsFormRejected},
			"cheque_details",
			[]string{"cheque_number", "bank_name", "branch_name", "issue_date", "handover_to", "cleared_on", "remarks"},
		),
		TypeBankTransfer: newTypeSpec(
			[]Stage{
				{1, "Accounts Form", []string{StatusPending, StatusAccountsFormSubmitted}},
				{2, "Transfer Initiation", []string{StatusTransferInitiated}},
				{3, "Confirmation", []string{StatusTransferConfirmed}},
			},
			[]string{StatusTransferConfirmed},
			map[int][]int{1: {2}, 2: {3}, 3: {}},
			map[int]string{1: StatusAccountsFormRejected},
			"transfer_details",
			[]string{"utr_number", "bank_name", "transfer_date", "remarks"},
		),
		TypePortal: newTypeSpec(
			[]Stage{
				{1, "Accounts Form", []string{StatusPending, StatusAccountsFormSubmitted}},
				{2, "Portal Payment", []string{StatusPortalPaymentCompleted}},
			},
			[]string{StatusPortalPaymentCompleted},
			map[int][]int{1: {2}, 2: {}},
			map[int]string{1: StatusAccountsFormRejected},
			"portal_details",
			[]string{"portal_name", "payment_reference", "payment_date", "remarks"},
		),
	}
	return specs
}

func newTypeSpec(stages []Stage, terminal []string, next map[int][]int, rejectionRule map[int]string, detailTable string, detailColumns []string) *typeSpec {
	spec := &typeSpec{
		initialStatus: StatusPending,
		stages:        stages,
		stageOf:       make(map[string]int),
		terminal:      make(map[string]bool),
		rejected:      make(map[string]bool),
		next:          next,
		rejectionRule: rejectionRule,
		detailTable:   detailTable,
		detailColumns: make(map[string]bool),
	}
	for _, st := range stages {
		for _, status := range st.Statuses {
			spec.stageOf[status] = st.Number
		}
	}
	for _, status := range terminal {
		spec.terminal[status] = true
	}
	// Rejected statuses are exactly the targets of this type's rejection
	// rules; they belong to no stage and block every transition.
	for _, status := range rejectionRule {
		spec.rejected[status] = true
	}
	for _, col := range detailColumns {
		spec.detailColumns[col] = true
	}
	return spec
}

func specFor(t InstrumentType) (*typeSpec, bool) {
	spec, ok := registry[t]
	return spec, ok
}

// Types returns every registered instrument type.
func Types() []InstrumentType {
	return []InstrumentType{TypeDD, TypeFDR, TypeBG, TypeCheque, TypeBankTransfer, TypePortal}
}

// IsKnownType reports whether t has a registered pipeline.
func IsKnownType(t InstrumentType) bool {
	_, ok := registry[t]
	return ok
}

// InitialStatus returns the status a fresh or resubmitted instrument of
// type t starts in. Unknown types fail closed.
func InitialStatus(t InstrumentType) (string, error) {
	spec, ok := specFor(t)
	if !ok {
		return "", ErrUnknownInstrumentType
	}
	return spec.initialStatus, nil
}

// StagesFor returns the ordered stage definitions for t.
func StagesFor(t InstrumentType) ([]Stage, error) {
	spec, ok := specFor(t)
	if !ok {
		return nil, ErrUnknownInstrumentType
	}
	return spec.stages, nil
}

// StageFromStatus resolves the stage number a status belongs to.
// Rejected statuses belong to no stage.
func StageFromStatus(t InstrumentType, status string) (int, bool) {
	spec, ok := specFor(t)
	if !ok {
		return 0, false
	}
	stage, ok := spec.stageOf[status]
	return stage, ok
}

// StageMeta returns the stage definition for a stage number.
func StageMeta(t InstrumentType, number int) (Stage, bool) {
	spec, ok := specFor(t)
	if !ok {
		return Stage{}, false
	}
	for _, st := range spec.stages {
		if st.Number == number {
			return st, true
		}
	}
	return Stage{}, false
}

// IsTerminalStatus reports whether status is an end state for t.
func IsTerminalStatus(t InstrumentType, status string) bool {
	spec, ok := specFor(t)
	if !ok {
		return false
	}
	return spec.terminal[status]
}

// IsRejectedStatus reports whether status marks an instrument of type t as
// awaiting resubmission. Classification is per (type, status), driven by
// the type's rejection rules.
func IsRejectedStatus(t InstrumentType, status string) bool {
	spec, ok := specFor(t)
	if !ok {
		return false
	}
	return spec.rejected[status]
}

// NextAvailableStages returns the stage numbers directly reachable from
// the stage containing currentStatus. Unknown statuses yield no stages.
func NextAvailableStages(t InstrumentType, currentStatus string) []int {
	spec, ok := specFor(t)
	if !ok {
		return nil
	}
	stage, ok := spec.stageOf[currentStatus]
	if !ok {
		return nil
	}
	return append([]int(nil), spec.next[stage]...)
}

// RejectedStatusFor resolves the rejection status an instrument of type t
// enters when rejected at the given stage. Stages without a rule cannot be
// rejected.
func RejectedStatusFor(t InstrumentType, stage int) (string, bool) {
	spec, ok := specFor(t)
	if !ok {
		return "", false
	}
	status, ok := spec.rejectionRule[stage]
	return status, ok
}

// DetailTable returns the per-type detail table name.
func DetailTable(t InstrumentType) (string, bool) {
	spec, ok := specFor(t)
	if !ok {
		return "", false
	}
	return spec.detailTable, true
}

// FilterDetailFields drops form-data keys that are not columns of the
// type's detail table, so opaque caller maps can be applied as updates.
func FilterDetailFields(t InstrumentType, formData map[string]any) map[string]any {
	spec, ok := specFor(t)
	if !ok {
		return nil
	}
	filtered := make(map[string]any, len(formData))
	for key, value := range formData {
		if spec.detailColumns[key] {
			filtered[key] = value
		}
	}
	return filtered
}
