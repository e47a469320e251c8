package request

import "time"

// PaymentRequest is the business request an instrument is raised against:
// the EMD or tender-fee requirement of one tender.
type PaymentRequest struct {
	ID              int64      `gorm:"primaryKey"`
	ReferenceNumber string     `gorm:"column:reference_number;not null;uniqueIndex"`
	TenderReference string     `gorm:"column:tender_reference;not null"`
	Purpose         string     `gorm:"column:purpose;not null"`
	Amount          int64      `gorm:"column:amount;not null"`
	RequestedBy     string     `gorm:"column:requested_by"`
	NeededBy        *time.Time `gorm:"column:needed_by"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (PaymentRequest) TableName() string {
	return "payment_requests"
}
