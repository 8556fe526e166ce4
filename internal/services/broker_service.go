package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BrokerService manages brokers and their commission ledger. Accrued
// commission comes from active bookings, disbursed from broker payments; both
// are computed on demand, never stored.
type BrokerService struct {
	db           *gorm.DB
	repo         repository.BrokerRepository
	bookingRepo  repository.BookingRepository
	payoutRepo   repository.BrokerPaymentRepository
	sequenceRepo repository.SequenceRepository
	auditSvc     *AuditService
}

func NewBrokerService(
	db *gorm.DB,
	repo repository.BrokerRepository,
	bookingRepo repository.BookingRepository,
	payoutRepo repository.BrokerPaymentRepository,
	sequenceRepo repository.SequenceRepository,
	auditSvc *AuditService,
) *BrokerService {
	return &BrokerService{
		db:           db,
		repo:         repo,
		bookingRepo:  bookingRepo,
		payoutRepo:   payoutRepo,
		sequenceRepo: sequenceRepo,
		auditSvc:     auditSvc,
	}
}

func (s *BrokerService) FindByID(ctx context.Context, id uint) (*models.Broker, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BrokerService) FindByIDWithLedger(ctx context.Context, id uint) (*models.Broker, error) {
	return s.repo.FindByIDWithLedger(ctx, id)
}

func (s *BrokerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Broker, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *BrokerService) Create(ctx context.Context, broker *models.Broker, actorID uint) error {
	if broker.FullName == "" {
		return fmt.Errorf("full name is required")
	}
	if broker.Phone == "" {
		return fmt.Errorf("phone is required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.sequenceRepo.NextValue(tx, models.SequenceBroker)
		if err != nil {
			return fmt.Errorf("failed to obtain broker number: %w", err)
		}
		broker.BrokerNumber = models.FormatBrokerNumber(n, time.Now().Year())
		return tx.Create(broker).Error
	})
	if err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "Broker", broker.ID,
		fmt.Sprintf("Broker %s (%s) created", broker.FullName, broker.BrokerNumber), "", "")
	return nil
}

func (s *BrokerService) Update(ctx context.Context, broker *models.Broker, actorID uint) error {
	if err := s.repo.Update(ctx, broker); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Broker", broker.ID,
		fmt.Sprintf("Broker %s updated", broker.BrokerNumber), "", "")
	return nil
}

// SoftDelete flags the broker only. Bookings referencing the broker and past
// disbursements stay untouched.
func (s *BrokerService) SoftDelete(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "DELETE", "Broker", id, "Broker soft-deleted", "", "")
	return nil
}

func (s *BrokerService) Restore(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "RESTORE", "Broker", id, "Broker restored", "", "")
	return nil
}

// BrokerBalance is the on-demand commission summary for a broker.
type BrokerBalance struct {
	BrokerID          uint    `json:"broker_id"`
	BrokerNumber      string  `json:"broker_number"`
	AccruedCommission float64 `json:"accrued_commission"`
	DisbursedAmount   float64 `json:"disbursed_amount"`
	PendingCommission float64 `json:"pending_commission"`
}

// Balance computes accrued minus disbursed commission.
func (s *BrokerService) Balance(ctx context.Context, id uint) (*BrokerBalance, error) {
	broker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	bookings, err := s.bookingRepo.FindByBroker(ctx, id)
	if err != nil {
		return nil, err
	}
	var accrued float64
	for i := range bookings {
		if bookings[i].IsActive() {
			accrued += bookings[i].BrokerCommission()
		}
	}

	disbursed, err := s.payoutRepo.SumForBroker(ctx, id)
	if err != nil {
		return nil, err
	}

	return &BrokerBalance{
		BrokerID:          broker.ID,
		BrokerNumber:      broker.BrokerNumber,
		AccruedCommission: accrued,
		DisbursedAmount:   disbursed,
		PendingCommission: accrued - disbursed,
	}, nil
}

// RecordPayoutInput is the write model for a commission disbursement.
type RecordPayoutInput struct {
	Amount      float64
	PaymentDate time.Time
	PaymentMode string
	Reference   *string
	Remarks     *string
}

// RecordPayout disburses commission to a broker. The broker row is locked
// while the accrued and disbursed sums are compared, mirroring the booking
// ledger validation.
func (s *BrokerService) RecordPayout(ctx context.Context, brokerID uint, input *RecordPayoutInput, actorID uint) (*models.BrokerPayment, error) {
	if !models.ValidPaymentMode(input.PaymentMode) {
		return nil, fmt.Errorf("invalid payment mode: %s", input.PaymentMode)
	}

	var payout *models.BrokerPayment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var broker models.Broker
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&broker, brokerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if broker.IsDeleted {
			return ErrNotFound
		}

		var bookings []models.Booking
		if err := tx.
			Where("broker_id = ? AND status = ? AND is_deleted = false", brokerID, models.BookingStatusActive).
			Find(&bookings).Error; err != nil {
			return err
		}
		var accrued float64
		for i := range bookings {
			accrued += bookings[i].BrokerCommission()
		}

		var disbursed struct{ Total float64 }
		if err := tx.Model(&models.BrokerPayment{}).
			Select("COALESCE(SUM(amount), 0) as total").
			Where("broker_id = ? AND is_deleted = false", brokerID).
			Scan(&disbursed).Error; err != nil {
			return err
		}

		if err := ValidateLedgerAmount(input.Amount, disbursed.Total, accrued); err != nil {
			return err
		}

		n, err := s.sequenceRepo.NextValue(tx, models.SequenceBrokerPayment)
		if err != nil {
			return fmt.Errorf("failed to obtain voucher number: %w", err)
		}

		paymentDate := input.PaymentDate
		if paymentDate.IsZero() {
			paymentDate = time.Now()
		}
		payout = &models.BrokerPayment{
			VoucherNumber: models.FormatBrokerPaymentNumber(n, time.Now().Year()),
			BrokerID:      brokerID,
			Amount:        input.Amount,
			PaymentDate:   paymentDate,
			PaymentMode:   input.PaymentMode,
			Reference:     input.Reference,
			Remarks:       input.Remarks,
			CreatedByID:   &actorID,
		}
		return tx.Create(payout).Error
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "BrokerPayment", payout.ID,
		fmt.Sprintf("Payout %s of %.2f disbursed to broker #%d", payout.VoucherNumber, payout.Amount, brokerID), "", "")

	return payout, nil
}

// DeletePayout soft-deletes a disbursement; the broker's pending commission
// grows back on the next read.
func (s *BrokerService) DeletePayout(ctx context.Context, id uint, actorID uint) error {
	res := s.db.WithContext(ctx).Model(&models.BrokerPayment{}).
		Where("id = ? AND is_deleted = false", id).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "BrokerPayment", id, "Broker payout soft-deleted", "", "")
	return nil
}

// ListPayouts lists disbursements.
func (s *BrokerService) ListPayouts(ctx context.Context, query *repository.ListQuery) ([]models.BrokerPayment, int64, error) {
	return s.payoutRepo.List(ctx, query)
}
