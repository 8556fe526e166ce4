package models

import (
	"time"
)

// Customer represents a plot buyer
type Customer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CustomerNumber string    `gorm:"uniqueIndex;not null" json:"customer_number"`
	FullName       string    `gorm:"not null" json:"full_name"`
	GuardianName   string    `json:"guardian_name"`
	Phone          string    `gorm:"not null;index" json:"phone"`
	Email          *string   `gorm:"index" json:"email"`
	Address        string    `gorm:"type:text" json:"address"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	PANNumber      *string   `gorm:"column:pan_number" json:"pan_number"`
	AadhaarNumber  *string   `gorm:"column:aadhaar_number" json:"aadhaar_number"`
	IsDeleted      bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Bookings []Booking `gorm:"foreignKey:CustomerID" json:"bookings,omitempty"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// CustomerResponse is the JSON response format for customers
type CustomerResponse struct {
	ID             uint      `json:"id"`
	CustomerNumber string    `json:"customer_number"`
	FullName       string    `json:"full_name"`
	GuardianName   string    `json:"guardian_name,omitempty"`
	Phone          string    `json:"phone"`
	Email          *string   `json:"email,omitempty"`
	Address        string    `json:"address,omitempty"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	PANNumber      *string   `json:"pan_number,omitempty"`
	AadhaarNumber  *string   `json:"aadhaar_number,omitempty"`
	BookingCount   int       `json:"booking_count"`
	IsDeleted      bool      `json:"is_deleted"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse converts Customer to CustomerResponse
func (c *Customer) ToResponse() CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		CustomerNumber: c.CustomerNumber,
		FullName:       c.FullName,
		GuardianName:   c.GuardianName,
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		City:           c.City,
		State:          c.State,
		PANNumber:      c.PANNumber,
		AadhaarNumber:  c.AadhaarNumber,
		BookingCount:   len(c.Bookings),
		IsDeleted:      c.IsDeleted,
		CreatedAt:      c.CreatedAt,
	}
}
