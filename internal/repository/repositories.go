package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User          UserRepository
	Project       ProjectRepository
	Customer      CustomerRepository
	Broker        BrokerRepository
	Booking       BookingRepository
	Payment       PaymentRepository
	BrokerPayment BrokerPaymentRepository
	Sequence      SequenceRepository
	Notification  NotificationRepository
	RefreshToken  RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Project:       NewProjectRepository(db),
		Customer:      NewCustomerRepository(db),
		Broker:        NewBrokerRepository(db),
		Booking:       NewBookingRepository(db),
		Payment:       NewPaymentRepository(db),
		BrokerPayment: NewBrokerPaymentRepository(db),
		Sequence:      NewSequenceRepository(db),
		Notification:  NewNotificationRepository(db),
		RefreshToken:  NewRefreshTokenRepository(db),
	}
}
