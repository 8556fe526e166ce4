package handlers

import (
	"github.com/dsrealty/estate-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Project      *ProjectHandler
	Customer     *CustomerHandler
	Broker       *BrokerHandler
	Booking      *BookingHandler
	Payment      *PaymentHandler
	Notification *NotificationHandler
	Report       *ReportHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Project:      NewProjectHandler(svcs.Project),
		Customer:     NewCustomerHandler(svcs.Customer),
		Broker:       NewBrokerHandler(svcs.Broker),
		Booking:      NewBookingHandler(svcs.Booking, svcs.Payment),
		Payment:      NewPaymentHandler(svcs.Payment),
		Notification: NewNotificationHandler(svcs.Notification),
		Report:       NewReportHandler(svcs.Report),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}
