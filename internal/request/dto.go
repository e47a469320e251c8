package request

import (
	"errors"
	"time"
)

type CreateRequestDTO struct {
	TenderReference string     `json:"tender_reference"`
	Purpose         string     `json:"purpose"`
	Amount          int64      `json:"amount"`
	NeededBy        *time.Time `json:"needed_by,omitempty"`
}

func (dto CreateRequestDTO) Validate() error {
	if dto.TenderReference == "" {
		return errors.New("tender_reference is required")
	}
	if dto.Purpose == "" {
		return errors.New("purpose is required")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	return nil
}
