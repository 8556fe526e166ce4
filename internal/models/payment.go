package models

import (
	"time"
)

// Payment is one ledger entry against a booking. Entries are append-mostly:
// edits keep the same receipt number and deletes are soft, so the receipt
// trail stays auditable.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReceiptNumber string    `gorm:"uniqueIndex;not null" json:"receipt_number"`
	BookingID     uint      `gorm:"not null;index" json:"booking_id"`
	Amount        float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate   time.Time `gorm:"type:date;not null;index" json:"payment_date"`
	PaymentMode   string    `gorm:"not null" json:"payment_mode"`
	PaymentType   string    `gorm:"default:installment" json:"payment_type"`
	InstallmentNo *int      `gorm:"column:installment_no" json:"installment_no"`
	Reference     *string   `json:"reference"`
	Remarks       *string   `gorm:"type:text" json:"remarks"`
	IsDeleted     bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedByID   *uint     `gorm:"index" json:"created_by_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Booking   Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	CreatedBy *User   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment mode constants
const (
	PaymentModeCash           = "cash"
	PaymentModeCheque         = "cheque"
	PaymentModeOnlineTransfer = "online_transfer"
	PaymentModeUPI            = "upi"
	PaymentModeCard           = "card"
	PaymentModeEMI            = "emi"
)

// Payment type constants
const (
	PaymentTypeBooking     = "booking"
	PaymentTypeInstallment = "installment"
	PaymentTypeFinal       = "final"
	PaymentTypeOther       = "other"
)

// ValidPaymentMode reports whether mode is one of the accepted payment modes.
func ValidPaymentMode(mode string) bool {
	switch mode {
	case PaymentModeCash, PaymentModeCheque, PaymentModeOnlineTransfer,
		PaymentModeUPI, PaymentModeCard, PaymentModeEMI:
		return true
	}
	return false
}

// ValidPaymentType reports whether t is one of the accepted payment types.
func ValidPaymentType(t string) bool {
	switch t {
	case PaymentTypeBooking, PaymentTypeInstallment, PaymentTypeFinal, PaymentTypeOther:
		return true
	}
	return false
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID            uint      `json:"id"`
	ReceiptNumber string    `json:"receipt_number"`
	BookingID     uint      `json:"booking_id"`
	BookingNumber string    `json:"booking_number,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty"`
	ProjectName   string    `json:"project_name,omitempty"`
	Amount        float64   `json:"amount"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMode   string    `json:"payment_mode"`
	PaymentType   string    `json:"payment_type"`
	InstallmentNo *int      `json:"installment_no,omitempty"`
	Reference     *string   `json:"reference,omitempty"`
	Remarks       *string   `json:"remarks,omitempty"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		ReceiptNumber: p.ReceiptNumber,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		PaymentMode:   p.PaymentMode,
		PaymentType:   p.PaymentType,
		InstallmentNo: p.InstallmentNo,
		Reference:     p.Reference,
		Remarks:       p.Remarks,
		IsDeleted:     p.IsDeleted,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if p.Booking.ID != 0 {
		resp.BookingNumber = p.Booking.BookingNumber
		if p.Booking.Customer.ID != 0 {
			resp.CustomerName = p.Booking.Customer.FullName
		}
		if p.Booking.Project.ID != 0 {
			resp.ProjectName = p.Booking.Project.Name
		}
	}
	if p.CreatedBy != nil {
		resp.CreatedBy = p.CreatedBy.FullName
	}

	return resp
}
