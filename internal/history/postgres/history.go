package postgres

import (
	"gorm.io/gorm"

	instrumentDatamodel "github.com/tenderops/tender-management/internal/core/datamodel/instrument"
	"github.com/tenderops/tender-management/internal/history"
)

// HistoryRepository implements both sides of the audit trail over GORM.
// No update or delete method exists on this type by design.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// NewRecorder returns the repository as the write-side interface, bound to
// the given handle. Pass a transaction handle to make the append part of
// an enclosing unit of work.
func NewRecorder(db *gorm.DB) history.RecorderAPI {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) RecordStatusChange(change history.Change) error {
	return r.db.Create(history.ToDataModel(change)).Error
}

func (r *HistoryRepository) RecordResubmission(change history.Change) error {
	return r.db.Create(history.ToDataModel(change)).Error
}

func (r *HistoryRepository) ListByInstrument(instrumentID int64) ([]*history.Entry, error) {
	var rows []*instrumentDatamodel.StatusHistory
	err := r.db.Where("instrument_id = ?", instrumentID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return history.FromDataModelSlice(rows), nil
}

// FindResubmissionOrigin returns the entry that created instrumentID via
// resubmission, or nil when the instrument started a fresh lineage.
func (r *HistoryRepository) FindResubmissionOrigin(instrumentID int64) (*history.Entry, error) {
	var row instrumentDatamodel.StatusHistory
	err := r.db.Where("instrument_id = ? AND resubmitted_from_id IS NOT NULL", instrumentID).
		Order("id ASC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return history.FromDataModel(&row), nil
}
