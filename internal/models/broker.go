package models

import (
	"time"
)

// Broker represents a channel partner who refers bookings. Commission accrues
// per booking at (rate - associate rate) * area and is settled through
// BrokerPayment disbursements.
type Broker struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BrokerNumber string    `gorm:"uniqueIndex;not null" json:"broker_number"`
	FullName     string    `gorm:"not null" json:"full_name"`
	FirmName     string    `json:"firm_name"`
	Phone        string    `gorm:"not null;index" json:"phone"`
	Email        *string   `gorm:"index" json:"email"`
	Address      string    `gorm:"type:text" json:"address"`
	PANNumber    *string   `gorm:"column:pan_number" json:"pan_number"`
	IsDeleted    bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Bookings []Booking       `gorm:"foreignKey:BrokerID" json:"bookings,omitempty"`
	Payouts  []BrokerPayment `gorm:"foreignKey:BrokerID" json:"payouts,omitempty"`
}

// TableName specifies the table name for Broker
func (Broker) TableName() string {
	return "brokers"
}

// AccruedCommission sums the commission of the active, non-deleted bookings
// loaded on the broker.
func (b *Broker) AccruedCommission() float64 {
	var total float64
	for i := range b.Bookings {
		if b.Bookings[i].IsActive() {
			total += b.Bookings[i].BrokerCommission()
		}
	}
	return total
}

// DisbursedAmount sums the non-deleted payouts loaded on the broker.
func (b *Broker) DisbursedAmount() float64 {
	var total float64
	for _, p := range b.Payouts {
		if !p.IsDeleted {
			total += p.Amount
		}
	}
	return total
}

// BrokerResponse is the JSON response format for brokers
type BrokerResponse struct {
	ID                uint      `json:"id"`
	BrokerNumber      string    `json:"broker_number"`
	FullName          string    `json:"full_name"`
	FirmName          string    `json:"firm_name,omitempty"`
	Phone             string    `json:"phone"`
	Email             *string   `json:"email,omitempty"`
	Address           string    `json:"address,omitempty"`
	PANNumber         *string   `json:"pan_number,omitempty"`
	BookingCount      int       `json:"booking_count"`
	AccruedCommission float64   `json:"accrued_commission"`
	DisbursedAmount   float64   `json:"disbursed_amount"`
	PendingCommission float64   `json:"pending_commission"`
	IsDeleted         bool      `json:"is_deleted"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToResponse converts Broker to BrokerResponse
func (b *Broker) ToResponse() BrokerResponse {
	accrued := b.AccruedCommission()
	disbursed := b.DisbursedAmount()
	return BrokerResponse{
		ID:                b.ID,
		BrokerNumber:      b.BrokerNumber,
		FullName:          b.FullName,
		FirmName:          b.FirmName,
		Phone:             b.Phone,
		Email:             b.Email,
		Address:           b.Address,
		PANNumber:         b.PANNumber,
		BookingCount:      len(b.Bookings),
		AccruedCommission: accrued,
		DisbursedAmount:   disbursed,
		PendingCommission: accrued - disbursed,
		IsDeleted:         b.IsDeleted,
		CreatedAt:         b.CreatedAt,
	}
}
