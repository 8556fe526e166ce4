package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dsrealty/estate-api/internal/jobs"
	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/dsrealty/estate-api/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentService guards the booking ledger. Every write path locks the
// booking row FOR UPDATE, re-sums the non-deleted payments and validates the
// amount inside that transaction, so concurrent writers serialize on the
// booking and the sum can never drift past the total amount.
type PaymentService struct {
	db              *gorm.DB
	repo            repository.PaymentRepository
	bookingRepo     repository.BookingRepository
	sequenceRepo    repository.SequenceRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewPaymentService(
	db *gorm.DB,
	repo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	sequenceRepo repository.SequenceRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *PaymentService {
	return &PaymentService{
		db:              db,
		repo:            repo,
		bookingRepo:     bookingRepo,
		sequenceRepo:    sequenceRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

// RecordPaymentInput is the write model for a new ledger entry.
type RecordPaymentInput struct {
	Amount        float64
	PaymentDate   time.Time
	PaymentMode   string
	PaymentType   string
	InstallmentNo *int
	Reference     *string
	Remarks       *string
}

func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PaymentService) FindByIDWithDetails(ctx context.Context, id uint) (*models.Payment, error) {
	return s.repo.FindByIDWithDetails(ctx, id)
}

func (s *PaymentService) FindByBooking(ctx context.Context, bookingID uint) ([]models.Payment, error) {
	return s.repo.FindByBooking(ctx, bookingID, false)
}

func (s *PaymentService) List(ctx context.Context, query *repository.PaymentQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, query)
}

// Record inserts a payment against a booking. The booking row is locked for
// the duration of the validation and insert.
func (s *PaymentService) Record(ctx context.Context, bookingID uint, input *RecordPaymentInput, actorID uint) (*models.Payment, error) {
	if !models.ValidPaymentMode(input.PaymentMode) {
		return nil, fmt.Errorf("invalid payment mode: %s", input.PaymentMode)
	}
	if input.PaymentType == "" {
		input.PaymentType = models.PaymentTypeInstallment
	}
	if !models.ValidPaymentType(input.PaymentType) {
		return nil, fmt.Errorf("invalid payment type: %s", input.PaymentType)
	}

	var payment *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if booking.IsDeleted {
			return ErrBookingDeleted
		}
		if booking.Status == models.BookingStatusCancelled {
			return ErrBookingCancelled
		}

		var paid struct{ Total float64 }
		if err := tx.Model(&models.Payment{}).
			Select("COALESCE(SUM(amount), 0) as total").
			Where("booking_id = ? AND is_deleted = false", booking.ID).
			Scan(&paid).Error; err != nil {
			return err
		}

		if err := ValidateLedgerAmount(input.Amount, paid.Total, booking.TotalAmount()); err != nil {
			return err
		}

		n, err := s.sequenceRepo.NextValue(tx, models.SequenceReceipt)
		if err != nil {
			return fmt.Errorf("failed to obtain receipt number: %w", err)
		}

		paymentDate := input.PaymentDate
		if paymentDate.IsZero() {
			paymentDate = time.Now()
		}
		payment = &models.Payment{
			ReceiptNumber: models.FormatReceiptNumber(n),
			BookingID:     booking.ID,
			Amount:        input.Amount,
			PaymentDate:   paymentDate,
			PaymentMode:   input.PaymentMode,
			PaymentType:   input.PaymentType,
			InstallmentNo: input.InstallmentNo,
			Reference:     input.Reference,
			Remarks:       input.Remarks,
			CreatedByID:   &actorID,
		}
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, err
	}

	// Receipt confirmation email, best effort
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		detailed, err := s.repo.FindByIDWithDetails(ctx, payment.ID)
		if err != nil {
			return err
		}
		if err := s.emailSvc.SendReceiptConfirmation(ctx, detailed); err != nil {
			logger.Warn("receipt email failed", "receipt", payment.ReceiptNumber, "error", err)
		}
		return nil
	})

	s.auditSvc.Log(ctx, actorID, "CREATE", "Payment", payment.ID,
		fmt.Sprintf("Payment %s of %.2f recorded against booking #%d", payment.ReceiptNumber, payment.Amount, bookingID), "", "")

	return payment, nil
}

// EditPaymentInput is the write model for a payment edit. The receipt number
// never changes.
type EditPaymentInput struct {
	Amount        *float64
	PaymentDate   *time.Time
	PaymentMode   *string
	PaymentType   *string
	InstallmentNo *int
	Reference     *string
	Remarks       *string
}

// Edit updates a payment, re-validating the amount against the other
// non-deleted payments of the same booking under the booking row lock.
func (s *PaymentService) Edit(ctx context.Context, id uint, input *EditPaymentInput, actorID uint) (*models.Payment, error) {
	var payment *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Payment
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if p.IsDeleted {
			return ErrNotFound
		}

		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, p.BookingID).Error; err != nil {
			return err
		}
		if booking.IsDeleted {
			return ErrBookingDeleted
		}

		// Reload the payment now that the booking is locked. A delete that
		// committed between the first read and the lock must surface here
		// instead of being overwritten by the save below.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, p.ID).Error; err != nil {
			return err
		}
		if p.IsDeleted {
			return ErrNotFound
		}

		if input.Amount != nil {
			var paidOthers struct{ Total float64 }
			if err := tx.Model(&models.Payment{}).
				Select("COALESCE(SUM(amount), 0) as total").
				Where("booking_id = ? AND is_deleted = false AND id <> ?", booking.ID, p.ID).
				Scan(&paidOthers).Error; err != nil {
				return err
			}
			if err := ValidateLedgerAmount(*input.Amount, paidOthers.Total, booking.TotalAmount()); err != nil {
				return err
			}
			p.Amount = *input.Amount
		}
		if input.PaymentDate != nil {
			p.PaymentDate = *input.PaymentDate
		}
		if input.PaymentMode != nil {
			if !models.ValidPaymentMode(*input.PaymentMode) {
				return fmt.Errorf("invalid payment mode: %s", *input.PaymentMode)
			}
			p.PaymentMode = *input.PaymentMode
		}
		if input.PaymentType != nil {
			if !models.ValidPaymentType(*input.PaymentType) {
				return fmt.Errorf("invalid payment type: %s", *input.PaymentType)
			}
			p.PaymentType = *input.PaymentType
		}
		if input.InstallmentNo != nil {
			p.InstallmentNo = input.InstallmentNo
		}
		if input.Reference != nil {
			p.Reference = input.Reference
		}
		if input.Remarks != nil {
			p.Remarks = input.Remarks
		}

		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		payment = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Payment", payment.ID,
		fmt.Sprintf("Payment %s edited", payment.ReceiptNumber), "", "")

	return payment, nil
}

// SoftDelete flags a payment as deleted. The booking's remaining balance
// reflects it on the next read; nothing else is adjusted.
func (s *PaymentService) SoftDelete(ctx context.Context, id uint, actorID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND is_deleted = false", id).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Payment", id, "Payment soft-deleted", "", "")
	return nil
}

// Restore flips the deleted flag back, re-validating that the resurrected
// amount still fits under the booking total.
func (s *PaymentService) Restore(ctx context.Context, id uint, actorID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Payment
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !p.IsDeleted {
			return ErrNotFound
		}

		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, p.BookingID).Error; err != nil {
			return err
		}
		if booking.IsDeleted {
			return ErrBookingDeleted
		}

		var paid struct{ Total float64 }
		if err := tx.Model(&models.Payment{}).
			Select("COALESCE(SUM(amount), 0) as total").
			Where("booking_id = ? AND is_deleted = false", booking.ID).
			Scan(&paid).Error; err != nil {
			return err
		}
		if err := ValidateLedgerAmount(p.Amount, paid.Total, booking.TotalAmount()); err != nil {
			return err
		}

		return tx.Model(&models.Payment{}).
			Where("id = ?", p.ID).
			Update("is_deleted", false).Error
	})
	if err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "RESTORE", "Payment", id, "Payment restored", "", "")
	return nil
}
