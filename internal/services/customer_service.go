package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/repository"
	"gorm.io/gorm"
)

type CustomerService struct {
	db           *gorm.DB
	repo         repository.CustomerRepository
	sequenceRepo repository.SequenceRepository
	auditSvc     *AuditService
}

func NewCustomerService(db *gorm.DB, repo repository.CustomerRepository, sequenceRepo repository.SequenceRepository, auditSvc *AuditService) *CustomerService {
	return &CustomerService{db: db, repo: repo, sequenceRepo: sequenceRepo, auditSvc: auditSvc}
}

func (s *CustomerService) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CustomerService) FindByIDWithBookings(ctx context.Context, id uint) (*models.Customer, error) {
	return s.repo.FindByIDWithBookings(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
	return s.repo.List(ctx, query)
}

// Create assigns the customer number from the sequence inside the insert
// transaction.
func (s *CustomerService) Create(ctx context.Context, customer *models.Customer, actorID uint) error {
	if customer.FullName == "" {
		return fmt.Errorf("full name is required")
	}
	if customer.Phone == "" {
		return fmt.Errorf("phone is required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.sequenceRepo.NextValue(tx, models.SequenceCustomer)
		if err != nil {
			return fmt.Errorf("failed to obtain customer number: %w", err)
		}
		customer.CustomerNumber = models.FormatCustomerNumber(n, time.Now().Year())
		return tx.Create(customer).Error
	})
	if err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Customer", customer.ID,
		fmt.Sprintf("Customer %s (%s) created", customer.FullName, customer.CustomerNumber), "", "")
	return nil
}

func (s *CustomerService) Update(ctx context.Context, customer *models.Customer, actorID uint) error {
	if err := s.repo.Update(ctx, customer); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Customer", customer.ID,
		fmt.Sprintf("Customer %s updated", customer.CustomerNumber), "", "")
	return nil
}

// SoftDelete flags the customer only; their bookings stay on the ledger.
func (s *CustomerService) SoftDelete(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "DELETE", "Customer", id, "Customer soft-deleted", "", "")
	return nil
}

func (s *CustomerService) Restore(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "RESTORE", "Customer", id, "Customer restored", "", "")
	return nil
}
