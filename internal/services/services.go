package services

import (
	"github.com/dsrealty/estate-api/internal/config"
	"github.com/dsrealty/estate-api/internal/jobs"
	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/dsrealty/estate-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Project      *ProjectService
	Customer     *CustomerService
	Broker       *BrokerService
	Booking      *BookingService
	Payment      *PaymentService
	Notification *NotificationService
	Report       *ReportService
	Audit        *AuditService
	Email        *EmailService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, storage *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)
	jobSvc := NewJobService(worker)

	return &Services{
		Auth:     NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:     NewUserService(repos.User, worker, emailSvc, auditSvc),
		Project:  NewProjectService(db, repos.Project, auditSvc),
		Customer: NewCustomerService(db, repos.Customer, repos.Sequence, auditSvc),
		Broker:   NewBrokerService(db, repos.Broker, repos.Booking, repos.BrokerPayment, repos.Sequence, auditSvc),
		Booking: NewBookingService(db, repos.Booking, repos.Project, repos.Customer, repos.Broker,
			repos.Payment, repos.Sequence, notificationSvc, emailSvc, auditSvc, worker),
		Payment: NewPaymentService(db, repos.Payment, repos.Booking, repos.Sequence,
			notificationSvc, emailSvc, auditSvc, worker),
		Notification: notificationSvc,
		Report:       NewReportService(repos.Booking, repos.Payment, repos.Customer, repos.Project, repos.Broker, storage),
		Audit:        auditSvc,
		Email:        emailSvc,
		Job:          jobSvc,
	}
}
