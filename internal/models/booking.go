package models

import (
	"time"
)

// Booking represents one plot sale within a project. Monetary terms
// (effective rate, total amount, broker commission) are derived from the raw
// inputs at read time and are never persisted as authoritative columns.
type Booking struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	BookingNumber string     `gorm:"uniqueIndex;not null" json:"booking_number"`
	BookingDate   time.Time  `gorm:"type:date;not null" json:"booking_date"`
	CustomerID    uint       `gorm:"not null;index" json:"customer_id"`
	ProjectID     uint       `gorm:"not null;index" json:"project_id"`
	BrokerID      *uint      `gorm:"index" json:"broker_id"`
	PlotNumber    string     `gorm:"not null" json:"plot_number"`
	Area          float64    `gorm:"type:decimal(12,2);not null" json:"area"`
	Rate          float64    `gorm:"type:decimal(12,2);not null" json:"rate"`
	Discount      float64    `gorm:"type:decimal(12,2);default:0" json:"discount"`
	PLC           float64    `gorm:"column:plc;type:decimal(15,2);default:0" json:"plc"`
	AssociateRate *float64   `gorm:"type:decimal(12,2)" json:"associate_rate"`
	Status        string     `gorm:"default:active;index" json:"status"`
	RegistryDone  bool       `gorm:"default:false" json:"registry_done"`
	RegistryDate  *time.Time `gorm:"type:date" json:"registry_date"`
	Remarks       *string    `gorm:"type:text" json:"remarks"`
	IsDeleted     bool       `gorm:"default:false;index" json:"is_deleted"`
	CreatedByID   *uint      `gorm:"index" json:"created_by_id"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Customer  Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Project   Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Broker    *Broker   `gorm:"foreignKey:BrokerID" json:"broker,omitempty"`
	CreatedBy *User     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Payments  []Payment `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
}

// TableName specifies the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// Booking status constants
const (
	BookingStatusActive    = "active"
	BookingStatusCancelled = "cancelled"
)

// EffectiveRate is the per-unit-area rate after discount.
func (b *Booking) EffectiveRate() float64 {
	return b.Rate - b.Discount
}

// TotalAmount is the full price of the plot: area * effective rate + PLC.
func (b *Booking) TotalAmount() float64 {
	return b.Area*b.EffectiveRate() + b.PLC
}

// BrokerCommission is the markup owed to the referring broker:
// (rate - associate rate) * area, floored at zero. A booking without a broker
// or without a positive associate rate earns no commission.
func (b *Booking) BrokerCommission() float64 {
	if b.BrokerID == nil || b.AssociateRate == nil || *b.AssociateRate <= 0 {
		return 0
	}
	commission := (b.Rate - *b.AssociateRate) * b.Area
	if commission < 0 {
		return 0
	}
	return commission
}

// TotalPaid sums the non-deleted payments loaded on the booking.
// The authoritative figure comes from the repository aggregate; this is for
// responses built from a preloaded booking.
func (b *Booking) TotalPaid() float64 {
	var total float64
	for _, p := range b.Payments {
		if !p.IsDeleted {
			total += p.Amount
		}
	}
	return total
}

// RemainingAmount is the balance still owed on the booking.
func (b *Booking) RemainingAmount() float64 {
	return b.TotalAmount() - b.TotalPaid()
}

// IsActive returns true if the booking is active and not soft-deleted
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusActive && !b.IsDeleted
}

// MayCancel returns true if the booking can transition to cancelled
func (b *Booking) MayCancel() bool {
	return b.Status == BookingStatusActive
}

// MayReinstate returns true if a cancelled booking can be reactivated
func (b *Booking) MayReinstate() bool {
	return b.Status == BookingStatusCancelled
}

// BookingResponse is the JSON response format for bookings
type BookingResponse struct {
	ID               uint       `json:"id"`
	BookingNumber    string     `json:"booking_number"`
	BookingDate      time.Time  `json:"booking_date"`
	CustomerID       uint       `json:"customer_id"`
	CustomerNumber   string     `json:"customer_number,omitempty"`
	CustomerName     string     `json:"customer_name,omitempty"`
	CustomerPhone    string     `json:"customer_phone,omitempty"`
	ProjectID        uint       `json:"project_id"`
	ProjectName      string     `json:"project_name,omitempty"`
	BrokerID         *uint      `json:"broker_id,omitempty"`
	BrokerName       string     `json:"broker_name,omitempty"`
	PlotNumber       string     `json:"plot_number"`
	Area             float64    `json:"area"`
	Rate             float64    `json:"rate"`
	Discount         float64    `json:"discount"`
	PLC              float64    `json:"plc"`
	AssociateRate    *float64   `json:"associate_rate,omitempty"`
	EffectiveRate    float64    `json:"effective_rate"`
	TotalAmount      float64    `json:"total_amount"`
	BrokerCommission float64    `json:"broker_commission"`
	TotalPaid        float64    `json:"total_paid"`
	RemainingAmount  float64    `json:"remaining_amount"`
	Status           string     `json:"status"`
	RegistryDone     bool       `json:"registry_done"`
	RegistryDate     *time.Time `json:"registry_date,omitempty"`
	Remarks          *string    `json:"remarks,omitempty"`
	IsDeleted        bool       `json:"is_deleted"`
	CreatedBy        string     `json:"created_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Payments []PaymentResponse `json:"payments,omitempty"`
}

// ToResponse converts Booking to BookingResponse
func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:               b.ID,
		BookingNumber:    b.BookingNumber,
		BookingDate:      b.BookingDate,
		CustomerID:       b.CustomerID,
		ProjectID:        b.ProjectID,
		BrokerID:         b.BrokerID,
		PlotNumber:       b.PlotNumber,
		Area:             b.Area,
		Rate:             b.Rate,
		Discount:         b.Discount,
		PLC:              b.PLC,
		AssociateRate:    b.AssociateRate,
		EffectiveRate:    b.EffectiveRate(),
		TotalAmount:      b.TotalAmount(),
		BrokerCommission: b.BrokerCommission(),
		TotalPaid:        b.TotalPaid(),
		RemainingAmount:  b.RemainingAmount(),
		Status:           b.Status,
		RegistryDone:     b.RegistryDone,
		RegistryDate:     b.RegistryDate,
		Remarks:          b.Remarks,
		IsDeleted:        b.IsDeleted,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	if b.Customer.ID != 0 {
		resp.CustomerNumber = b.Customer.CustomerNumber
		resp.CustomerName = b.Customer.FullName
		resp.CustomerPhone = b.Customer.Phone
	}
	if b.Project.ID != 0 {
		resp.ProjectName = b.Project.Name
	}
	if b.Broker != nil && b.Broker.ID != 0 {
		resp.BrokerName = b.Broker.FullName
	}
	if b.CreatedBy != nil {
		resp.CreatedBy = b.CreatedBy.FullName
	}

	for _, p := range b.Payments {
		resp.Payments = append(resp.Payments, p.ToResponse())
	}

	return resp
}

// BookingBalance is the on-demand balance summary for a booking
type BookingBalance struct {
	BookingID       uint    `json:"booking_id"`
	BookingNumber   string  `json:"booking_number"`
	TotalAmount     float64 `json:"total_amount"`
	TotalPaid       float64 `json:"total_paid"`
	RemainingAmount float64 `json:"remaining_amount"`
}
