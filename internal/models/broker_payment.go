package models

import (
	"time"
)

// BrokerPayment is a commission disbursement made to a broker.
type BrokerPayment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	VoucherNumber string    `gorm:"uniqueIndex;not null" json:"voucher_number"`
	BrokerID      uint      `gorm:"not null;index" json:"broker_id"`
	Amount        float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate   time.Time `gorm:"type:date;not null;index" json:"payment_date"`
	PaymentMode   string    `gorm:"not null" json:"payment_mode"`
	Reference     *string   `json:"reference"`
	Remarks       *string   `gorm:"type:text" json:"remarks"`
	IsDeleted     bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedByID   *uint     `gorm:"index" json:"created_by_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Broker    Broker `gorm:"foreignKey:BrokerID" json:"broker,omitempty"`
	CreatedBy *User  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName specifies the table name for BrokerPayment
func (BrokerPayment) TableName() string {
	return "broker_payments"
}

// BrokerPaymentResponse is the JSON response format for broker payouts
type BrokerPaymentResponse struct {
	ID            uint      `json:"id"`
	VoucherNumber string    `json:"voucher_number"`
	BrokerID      uint      `json:"broker_id"`
	BrokerName    string    `json:"broker_name,omitempty"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMode   string    `json:"payment_mode"`
	Reference     *string   `json:"reference,omitempty"`
	Remarks       *string   `json:"remarks,omitempty"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse converts BrokerPayment to BrokerPaymentResponse
func (p *BrokerPayment) ToResponse() BrokerPaymentResponse {
	resp := BrokerPaymentResponse{
		ID:            p.ID,
		VoucherNumber: p.VoucherNumber,
		BrokerID:      p.BrokerID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		PaymentMode:   p.PaymentMode,
		Reference:     p.Reference,
		Remarks:       p.Remarks,
		IsDeleted:     p.IsDeleted,
		CreatedAt:     p.CreatedAt,
	}
	if p.Broker.ID != 0 {
		resp.BrokerName = p.Broker.FullName
	}
	if p.CreatedBy != nil {
		resp.CreatedBy = p.CreatedBy.FullName
	}
	return resp
}
