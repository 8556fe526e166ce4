package repository

import (
	"context"

	"github.com/dsrealty/estate-api/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment ledger data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Payment, error)
	FindByReceiptNumber(ctx context.Context, receiptNumber string) (*models.Payment, error)
	FindByBooking(ctx context.Context, bookingID uint, includeDeleted bool) ([]models.Payment, error)
	SumForBooking(ctx context.Context, bookingID uint) (float64, error)
	List(ctx context.Context, query *PaymentQuery) ([]models.Payment, int64, error)
	CollectedBetween(ctx context.Context, startDate, endDate string) (float64, error)
}

// PaymentQuery extends ListQuery with payment-specific filters
type PaymentQuery struct {
	*ListQuery
	BookingID      uint
	ProjectID      uint
	PaymentMode    string
	IncludeDeleted bool
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Booking").
		Preload("Booking.Customer").
		Preload("Booking.Project").
		Preload("CreatedBy").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("receipt_number = ?", receiptNumber).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByBooking(ctx context.Context, bookingID uint, includeDeleted bool) ([]models.Payment, error) {
	var payments []models.Payment
	db := r.db.WithContext(ctx).Where("booking_id = ?", bookingID)
	if !includeDeleted {
		db = db.Where("is_deleted = false")
	}
	err := db.Order("payment_date ASC, id ASC").Find(&payments).Error
	return payments, err
}

// SumForBooking returns the total of non-deleted payments for a booking.
// The remaining balance is always derived from this aggregate, never from a
// stored column.
func (r *paymentRepository) SumForBooking(ctx context.Context, bookingID uint) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("booking_id = ? AND is_deleted = false", bookingID).
		Scan(&result).Error
	return result.Total, err
}

func (r *paymentRepository) List(ctx context.Context, query *PaymentQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if !query.IncludeDeleted {
		db = db.Where("payments.is_deleted = false")
	}
	if query.BookingID > 0 {
		db = db.Where("payments.booking_id = ?", query.BookingID)
	}
	if query.PaymentMode != "" {
		db = db.Where("payments.payment_mode = ?", query.PaymentMode)
	}
	if query.ProjectID > 0 {
		db = db.Joins("JOIN bookings ON bookings.id = payments.booking_id").
			Where("bookings.project_id = ?", query.ProjectID)
	}

	if query.Filters != nil {
		if val, ok := query.Filters["start_date"]; ok && val != "" {
			db = db.Where("payments.payment_date >= ?", val)
		}
		if val, ok := query.Filters["end_date"]; ok && val != "" {
			db = db.Where("payments.payment_date <= ?", val)
		}
		if val, ok := query.Filters["payment_type"]; ok && val != "" {
			db = db.Where("payments.payment_type = ?", val)
		}
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN bookings b ON b.id = payments.booking_id").
			Joins("LEFT JOIN customers ON customers.id = b.customer_id").
			Where("payments.receipt_number ILIKE ? OR b.booking_number ILIKE ? OR customers.full_name ILIKE ?",
				search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("payments.payment_date DESC, payments.id DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Booking").
		Preload("Booking.Customer").
		Preload("Booking.Project").
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// CollectedBetween sums non-deleted payments with a payment date inside the
// inclusive range. Dates are YYYY-MM-DD strings.
func (r *paymentRepository) CollectedBetween(ctx context.Context, startDate, endDate string) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("is_deleted = false AND payment_date >= ? AND payment_date <= ?", startDate, endDate).
		Scan(&result).Error
	return result.Total, err
}
