package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dsrealty/estate-api/internal/jobs"
	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/dsrealty/estate-api/internal/statemachine"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns the booking lifecycle and the ledger invariants around
// it. Multi-row flows (create with initial payment, cascades) run inside a
// single transaction on db; reads go through the repositories.
type BookingService struct {
	db              *gorm.DB
	repo            repository.BookingRepository
	projectRepo     repository.ProjectRepository
	customerRepo    repository.CustomerRepository
	brokerRepo      repository.BrokerRepository
	paymentRepo     repository.PaymentRepository
	sequenceRepo    repository.SequenceRepository
	notificationSvc *NotificationService
	emailSvc        *EmailService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewBookingService(
	db *gorm.DB,
	repo repository.BookingRepository,
	projectRepo repository.ProjectRepository,
	customerRepo repository.CustomerRepository,
	brokerRepo repository.BrokerRepository,
	paymentRepo repository.PaymentRepository,
	sequenceRepo repository.SequenceRepository,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *BookingService {
	return &BookingService{
		db:              db,
		repo:            repo,
		projectRepo:     projectRepo,
		customerRepo:    customerRepo,
		brokerRepo:      brokerRepo,
		paymentRepo:     paymentRepo,
		sequenceRepo:    sequenceRepo,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

// CreateBookingInput is the write model for a new booking. Either CustomerID
// references an existing customer or NewCustomer describes one to create in
// the same transaction.
type CreateBookingInput struct {
	ProjectID     uint
	CustomerID    uint
	NewCustomer   *models.Customer
	BrokerID      *uint
	BookingDate   time.Time
	PlotNumber    string
	Area          float64
	Rate          float64
	Discount      float64
	PLC           float64
	AssociateRate *float64
	Remarks       *string

	// Optional initial payment recorded atomically with the booking.
	InitialPayment *InitialPaymentInput
}

// InitialPaymentInput describes the booking-time payment.
type InitialPaymentInput struct {
	Amount      float64
	PaymentDate time.Time
	PaymentMode string
	Reference   *string
	Remarks     *string
}

// ensurePlotFree locks the project row and returns ErrPlotUnavailable if the
// plot already has an active booking. Every write that can put an active
// booking on a plot runs this inside its transaction, so concurrent writers
// for the same project serialize on the project lock and cannot both pass.
func ensurePlotFree(tx *gorm.DB, projectID uint, plotNumber string) error {
	var project models.Project
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var count int64
	if err := tx.Model(&models.Booking{}).
		Where("project_id = ? AND plot_number = ? AND status = ? AND is_deleted = false",
			projectID, plotNumber, models.BookingStatusActive).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrPlotUnavailable
	}
	return nil
}

// FindByID gets a booking by ID
func (s *BookingService) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByIDWithDetails gets a booking by ID with all nested associations preloaded
func (s *BookingService) FindByIDWithDetails(ctx context.Context, id uint) (*models.Booking, error) {
	return s.repo.FindByIDWithDetails(ctx, id)
}

func (s *BookingService) List(ctx context.Context, query *repository.BookingQuery) ([]models.Booking, int64, error) {
	return s.repo.List(ctx, query)
}

// Create books a plot. The sequence increment, the booking insert, the
// optional customer insert and the optional initial payment all commit or roll
// back together.
func (s *BookingService) Create(ctx context.Context, input *CreateBookingInput, actorID uint) (*models.Booking, error) {
	project, err := s.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	valuation, err := ComputeValuation(ValuationInput{
		Area:          input.Area,
		Rate:          input.Rate,
		Discount:      input.Discount,
		PLC:           input.PLC,
		AssociateRate: input.AssociateRate,
		HasBroker:     input.BrokerID != nil,
	})
	if err != nil {
		return nil, err
	}

	// Validate the initial payment against the fresh valuation before any write.
	if ip := input.InitialPayment; ip != nil {
		if err := ValidateLedgerAmount(ip.Amount, 0, valuation.TotalAmount); err != nil {
			return nil, err
		}
		if !models.ValidPaymentMode(ip.PaymentMode) {
			return nil, fmt.Errorf("invalid payment mode: %s", ip.PaymentMode)
		}
	}

	if input.BrokerID != nil {
		if _, err := s.brokerRepo.FindByID(ctx, *input.BrokerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	// Plot availability fast path. The authoritative check runs again inside
	// the transaction under the project lock.
	if _, err := s.repo.FindActiveByProjectAndPlot(ctx, input.ProjectID, input.PlotNumber); err == nil {
		return nil, ErrPlotUnavailable
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	bookingDate := input.BookingDate
	if bookingDate.IsZero() {
		bookingDate = time.Now()
	}

	var booking *models.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePlotFree(tx, input.ProjectID, input.PlotNumber); err != nil {
			return err
		}

		customerID := input.CustomerID
		if input.NewCustomer != nil {
			n, err := s.sequenceRepo.NextValue(tx, models.SequenceCustomer)
			if err != nil {
				return fmt.Errorf("failed to obtain customer number: %w", err)
			}
			input.NewCustomer.CustomerNumber = models.FormatCustomerNumber(n, time.Now().Year())
			if err := tx.Create(input.NewCustomer).Error; err != nil {
				return fmt.Errorf("failed to create customer: %w", err)
			}
			customerID = input.NewCustomer.ID
		}

		n, err := s.sequenceRepo.NextValue(tx, models.SequenceBooking)
		if err != nil {
			return fmt.Errorf("failed to obtain booking number: %w", err)
		}

		booking = &models.Booking{
			BookingNumber: models.FormatBookingNumber(n, bookingDate),
			BookingDate:   bookingDate,
			CustomerID:    customerID,
			ProjectID:     input.ProjectID,
			BrokerID:      input.BrokerID,
			PlotNumber:    input.PlotNumber,
			Area:          input.Area,
			Rate:          input.Rate,
			Discount:      input.Discount,
			PLC:           input.PLC,
			AssociateRate: input.AssociateRate,
			Status:        models.BookingStatusActive,
			Remarks:       input.Remarks,
			CreatedByID:   &actorID,
		}
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if ip := input.InitialPayment; ip != nil {
			rn, err := s.sequenceRepo.NextValue(tx, models.SequenceReceipt)
			if err != nil {
				return fmt.Errorf("failed to obtain receipt number: %w", err)
			}
			paymentDate := ip.PaymentDate
			if paymentDate.IsZero() {
				paymentDate = bookingDate
			}
			payment := &models.Payment{
				ReceiptNumber: models.FormatReceiptNumber(rn),
				BookingID:     booking.ID,
				Amount:        ip.Amount,
				PaymentDate:   paymentDate,
				PaymentMode:   ip.PaymentMode,
				PaymentType:   models.PaymentTypeBooking,
				Reference:     ip.Reference,
				Remarks:       ip.Remarks,
				CreatedByID:   &actorID,
			}
			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("failed to record initial payment: %w", err)
			}
			booking.Payments = []models.Payment{*payment}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"New booking",
			fmt.Sprintf("Booking %s created for plot %s in %s", booking.BookingNumber, booking.PlotNumber, project.Name),
			models.NotificationTypeBookingCreated)
	})

	s.auditSvc.Log(ctx, actorID, "CREATE", "Booking", booking.ID,
		fmt.Sprintf("Booking %s created for plot %s in project %s, total %.2f",
			booking.BookingNumber, booking.PlotNumber, project.Name, valuation.TotalAmount), "", "")

	return booking, nil
}

// UpdateBookingInput is the write model for a booking revaluation. Nil fields
// keep their current value.
type UpdateBookingInput struct {
	PlotNumber    *string
	Area          *float64
	Rate          *float64
	Discount      *float64
	PLC           *float64
	AssociateRate *float64
	BrokerID      *uint
	ClearBroker   bool
	Remarks       *string
}

// Update revalues a booking. The new terms must pass valuation and the sum of
// non-deleted payments must still fit under the new total amount.
func (s *BookingService) Update(ctx context.Context, id uint, input *UpdateBookingInput, actorID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if b.IsDeleted {
			return ErrBookingDeleted
		}
		if b.Status == models.BookingStatusCancelled {
			return ErrBookingCancelled
		}

		if input.PlotNumber != nil {
			b.PlotNumber = *input.PlotNumber
		}
		if input.Area != nil {
			b.Area = *input.Area
		}
		if input.Rate != nil {
			b.Rate = *input.Rate
		}
		if input.Discount != nil {
			b.Discount = *input.Discount
		}
		if input.PLC != nil {
			b.PLC = *input.PLC
		}
		if input.AssociateRate != nil {
			b.AssociateRate = input.AssociateRate
		}
		if input.ClearBroker {
			b.BrokerID = nil
		} else if input.BrokerID != nil {
			b.BrokerID = input.BrokerID
		}
		if input.Remarks != nil {
			b.Remarks = input.Remarks
		}

		valuation, err := ComputeValuation(ValuationInput{
			Area:          b.Area,
			Rate:          b.Rate,
			Discount:      b.Discount,
			PLC:           b.PLC,
			AssociateRate: b.AssociateRate,
			HasBroker:     b.BrokerID != nil,
		})
		if err != nil {
			return err
		}

		// The existing ledger must still fit under the new total.
		var paid struct{ Total float64 }
		if err := tx.Model(&models.Payment{}).
			Select("COALESCE(SUM(amount), 0) as total").
			Where("booking_id = ? AND is_deleted = false", b.ID).
			Scan(&paid).Error; err != nil {
			return err
		}
		if paid.Total > valuation.TotalAmount {
			return &ExceedsBalanceError{MaxAllowed: valuation.TotalAmount}
		}

		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		booking = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Booking", booking.ID,
		fmt.Sprintf("Booking %s revalued", booking.BookingNumber), "", "")

	return booking, nil
}

// Cancel transitions an active booking to cancelled. Payments stay on the
// ledger; the booking simply stops accepting new ones and frees its plot.
func (s *BookingService) Cancel(ctx context.Context, id uint, reason string, actorID uint) (*models.Booking, error) {
	booking, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.IsDeleted {
		return nil, ErrBookingDeleted
	}

	fsm := statemachine.NewBookingFSM(booking)
	if err := fsm.Cancel(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, err.Error())
	}

	if reason != "" {
		booking.Remarks = &reason
	}
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyAdmins(ctx,
			"Booking cancelled",
			fmt.Sprintf("Booking %s was cancelled", booking.BookingNumber),
			models.NotificationTypeBookingCancelled)
	})

	s.auditSvc.Log(ctx, actorID, "CANCEL", "Booking", booking.ID,
		fmt.Sprintf("Booking %s cancelled. Reason: %s", booking.BookingNumber, reason), "", "")

	return booking, nil
}

// Reinstate reactivates a cancelled booking if its plot is still free.
func (s *BookingService) Reinstate(ctx context.Context, id uint, actorID uint) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.IsDeleted {
		return nil, ErrBookingDeleted
	}

	// Fast path; the transaction below re-checks under the project lock.
	if _, err := s.repo.FindActiveByProjectAndPlot(ctx, booking.ProjectID, booking.PlotNumber); err == nil {
		return nil, ErrPlotUnavailable
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fsm := statemachine.NewBookingFSM(booking)
	if err := fsm.Reinstate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, err.Error())
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePlotFree(tx, booking.ProjectID, booking.PlotNumber); err != nil {
			return err
		}
		return tx.Save(booking).Error
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "REINSTATE", "Booking", booking.ID,
		fmt.Sprintf("Booking %s reinstated", booking.BookingNumber), "", "")

	return booking, nil
}

// CompleteRegistry marks the plot registry as done.
func (s *BookingService) CompleteRegistry(ctx context.Context, id uint, registryDate time.Time, actorID uint) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !booking.IsActive() {
		return nil, ErrInvalidState
	}

	if registryDate.IsZero() {
		registryDate = time.Now()
	}
	booking.RegistryDone = true
	booking.RegistryDate = &registryDate

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Booking", booking.ID,
		fmt.Sprintf("Registry completed for booking %s", booking.BookingNumber), "", "")

	return booking, nil
}

// SoftDelete flags the booking and every one of its payments as deleted in a
// single transaction.
func (s *BookingService) SoftDelete(ctx context.Context, id uint, actorID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND is_deleted = false", id).
			Update("is_deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Payment{}).
			Where("booking_id = ?", id).
			Update("is_deleted", true).Error
	})
	if err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "DELETE", "Booking", id,
		"Booking and its payments soft-deleted", "", "")
	return nil
}

// Restore clears the booking's deleted flag. Payments stay as they are; a
// payment deleted before the booking was must be restored on its own. An
// active booking only comes back if its plot was not re-sold in the meantime.
func (s *BookingService) Restore(ctx context.Context, id uint, actorID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("is_deleted = true").
			First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Cancelled bookings do not occupy their plot, so only an active
		// restore needs the availability check.
		if booking.Status == models.BookingStatusActive {
			if err := ensurePlotFree(tx, booking.ProjectID, booking.PlotNumber); err != nil {
				return err
			}
		}

		return tx.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Update("is_deleted", false).Error
	})
	if err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "RESTORE", "Booking", id, "Booking restored", "", "")
	return nil
}

// Balance computes the booking's ledger figures on demand.
func (s *BookingService) Balance(ctx context.Context, id uint) (*models.BookingBalance, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	paid, err := s.paymentRepo.SumForBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	total := booking.TotalAmount()
	return &models.BookingBalance{
		BookingID:       booking.ID,
		BookingNumber:   booking.BookingNumber,
		TotalAmount:     total,
		TotalPaid:       paid,
		RemainingAmount: total - paid,
	}, nil
}

// AuditLedgers re-checks the ledger invariant across all non-deleted
// bookings and notifies admins of any booking whose payments exceed its total.
func (s *BookingService) AuditLedgers(ctx context.Context) error {
	var rows []struct {
		ID            uint
		BookingNumber string
		Area          float64
		Rate          float64
		Discount      float64
		PLC           float64
		Paid          float64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("bookings.id, bookings.booking_number, bookings.area, bookings.rate, bookings.discount, bookings.plc, COALESCE(SUM(payments.amount), 0) as paid").
		Joins("LEFT JOIN payments ON payments.booking_id = bookings.id AND payments.is_deleted = false").
		Where("bookings.is_deleted = false").
		Group("bookings.id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		total := row.Area*(row.Rate-row.Discount) + row.PLC
		if row.Paid > total {
			s.notificationSvc.NotifyAdmins(ctx,
				"Ledger discrepancy",
				fmt.Sprintf("Booking %s has payments %.2f exceeding total %.2f", row.BookingNumber, row.Paid, total),
				models.NotificationTypeLedgerDiscrepancy)
		}
	}
	return nil
}

// NotifyPendingRegistries reminds admins of fully paid bookings awaiting
// registry completion.
func (s *BookingService) NotifyPendingRegistries(ctx context.Context) error {
	bookings, err := s.repo.FindPendingRegistry(ctx)
	if err != nil {
		return err
	}
	for i := range bookings {
		b := &bookings[i]
		s.notificationSvc.NotifyAdmins(ctx,
			"Registry pending",
			fmt.Sprintf("Booking %s (%s, %s) is fully paid, registry pending",
				b.BookingNumber, b.Customer.FullName, b.Project.Name),
			models.NotificationTypeRegistryReminder)
	}
	return nil
}
