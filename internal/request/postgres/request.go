package postgres

import (
	"gorm.io/gorm"

	"github.com/tenderops/tender-management/internal"
	requestDatamodel "github.com/tenderops/tender-management/internal/core/datamodel/request"
	"github.com/tenderops/tender-management/internal/request"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.RepositoryAPI {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(req *request.Request) error {
	model := request.ToDataModel(req)
	if err := r.db.Create(model).Error; err != nil {
		return err
	}
	req.ID = model.ID
	req.CreatedAt = model.CreatedAt
	req.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *RequestRepository) GetByID(id int64) (*request.Request, error) {
	var model requestDatamodel.PaymentRequest
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return request.FromDataModel(&model), nil
}

func (r *RequestRepository) GetByReferenceNumber(ref string) (*request.Request, error) {
	var model requestDatamodel.PaymentRequest
	err := r.db.Where("reference_number = ?", ref).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return request.FromDataModel(&model), nil
}

func (r *RequestRepository) List(limit, offset int) ([]*request.Request, error) {
	var models []*requestDatamodel.PaymentRequest
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return request.FromDataModelSlice(models), nil
}
