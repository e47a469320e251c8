package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/tenderops/tender-management/internal"
	"github.com/tenderops/tender-management/internal/catalog"
	instrumentDatamodel "github.com/tenderops/tender-management/internal/core/datamodel/instrument"
	"github.com/tenderops/tender-management/internal/history"
	historyPostgres "github.com/tenderops/tender-management/internal/history/postgres"
	"github.com/tenderops/tender-management/internal/instrument"
)

// InstrumentRepository implements the instrument.Repository interface using
// GORM. Status updates are guarded by the version column: an update whose
// version no longer matches touches zero rows and reports a conflict.
type InstrumentRepository struct {
	db *gorm.DB
}

func NewInstrumentRepository(db *gorm.DB) instrument.Repository {
	return &InstrumentRepository{db: db}
}

func (r *InstrumentRepository) GetByID(id int64) (*instrument.Instrument, error) {
	var model instrumentDatamodel.PaymentInstrument
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrInstrumentNotFound
		}
		return nil, err
	}
	return instrument.FromDataModel(&model), nil
}

func (r *InstrumentRepository) GetByRequestID(requestID int64) ([]*instrument.Instrument, error) {
	return r.listByRequestID(r.db.Where("request_id = ?", requestID))
}

func (r *InstrumentRepository) GetActiveByRequestID(requestID int64) ([]*instrument.Instrument, error) {
	return r.listByRequestID(r.db.Where("request_id = ? AND is_active = ?", requestID, true))
}

func (r *InstrumentRepository) listByRequestID(query *gorm.DB) ([]*instrument.Instrument, error) {
	var models []*instrumentDatamodel.PaymentInstrument
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return instrument.FromDataModelSlice(models), nil
}

func (r *InstrumentRepository) Create(inst *instrument.Instrument) error {
	model := instrument.ToDataModel(inst)
	if err := r.db.Create(model).Error; err != nil {
		return err
	}
	inst.ID = model.ID
	inst.CreatedAt = model.CreatedAt
	inst.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *InstrumentRepository) UpdateStatus(id int64, status string, action int, version int64) error {
	result := r.db.Model(&instrumentDatamodel.PaymentInstrument{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":     status,
			"action":     action,
			"version":    version + 1,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.versionConflictOrMissing(id)
	}
	return nil
}

func (r *InstrumentRepository) Deactivate(id int64, version int64) error {
	result := r.db.Model(&instrumentDatamodel.PaymentInstrument{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"is_active":  false,
			"version":    version + 1,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.versionConflictOrMissing(id)
	}
	return nil
}

// versionConflictOrMissing disambiguates a zero-row update: the row either
// disappeared or was modified under us.
func (r *InstrumentRepository) versionConflictOrMissing(id int64) error {
	var count int64
	if err := r.db.Model(&instrumentDatamodel.PaymentInstrument{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return internal.ErrInstrumentNotFound
	}
	return internal.ErrConcurrentUpdate
}

// CreateDetail inserts the per-type detail row for a fresh instrument.
// Unknown form keys are dropped; a nil or empty form still creates the row
// so later stage updates have something to write into.
func (r *InstrumentRepository) CreateDetail(t catalog.InstrumentType, instrumentID int64, fields map[string]any) error {
	table, ok := catalog.DetailTable(t)
	if !ok {
		return catalog.ErrUnknownInstrumentType
	}
	row := catalog.FilterDetailFields(t, fields)
	if row == nil {
		row = map[string]any{}
	}
	now := time.Now()
	row["instrument_id"] = instrumentID
	row["created_at"] = now
	row["updated_at"] = now
	return r.db.Table(table).Create(row).Error
}

// UpdateDetail overwrites detail columns present in fields. A form with no
// recognised columns is a no-op.
func (r *InstrumentRepository) UpdateDetail(t catalog.InstrumentType, instrumentID int64, fields map[string]any) error {
	table, ok := catalog.DetailTable(t)
	if !ok {
		return catalog.ErrUnknownInstrumentType
	}
	updates := catalog.FilterDetailFields(t, fields)
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	return r.db.Table(table).Where("instrument_id = ?", instrumentID).Updates(updates).Error
}

// WithTx runs fn against transaction-scoped repositories so instrument,
// detail and history writes commit or roll back together.
func (r *InstrumentRepository) WithTx(fn func(tx instrument.Repository, recorder history.RecorderAPI) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&InstrumentRepository{db: tx}, historyPostgres.NewRecorder(tx))
	})
}
