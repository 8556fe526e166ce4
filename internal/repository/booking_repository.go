package repository

import (
	"context"
	"strings"

	"github.com/dsrealty/estate-api/internal/models"
	"gorm.io/gorm"
)

// BookingRepository defines the interface for booking data access
type BookingRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Booking, error)
	FindByNumber(ctx context.Context, bookingNumber string) (*models.Booking, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error)
	FindByBroker(ctx context.Context, brokerID uint) ([]models.Booking, error)
	FindActiveByProjectAndPlot(ctx context.Context, projectID uint, plotNumber string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context, query *BookingQuery) ([]models.Booking, int64, error)
	CountActiveByProject(ctx context.Context, projectID uint) (int64, error)
	FindPendingRegistry(ctx context.Context) ([]models.Booking, error)
}

// BookingQuery extends ListQuery with booking-specific filters
type BookingQuery struct {
	*ListQuery
	ProjectID      uint
	CustomerID     uint
	BrokerID       uint
	Status         string
	IncludeDeleted bool
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	// Customer, Project, Broker and Creator come via Joins in one query.
	// Payments are one-to-many so they stay a Preload.
	err := r.db.WithContext(ctx).
		Joins("Customer").
		Joins("Project").
		Joins("Broker").
		Joins("CreatedBy").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC, id ASC")
		}).
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByNumber(ctx context.Context, bookingNumber string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("booking_number = ?", bookingNumber).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND is_deleted = false", customerID).
		Preload("Project").
		Preload("Payments", "is_deleted = false").
		Order("booking_date DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindByBroker(ctx context.Context, brokerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("broker_id = ? AND is_deleted = false", brokerID).
		Preload("Customer").
		Preload("Project").
		Order("booking_date DESC").
		Find(&bookings).Error
	return bookings, err
}

// FindActiveByProjectAndPlot checks plot availability: at most one active
// booking may exist per plot in a project.
func (r *bookingRepository) FindActiveByProjectAndPlot(ctx context.Context, projectID uint, plotNumber string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND plot_number = ? AND status = ? AND is_deleted = false",
			projectID, plotNumber, models.BookingStatusActive).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) List(ctx context.Context, query *BookingQuery) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Booking{})

	if !query.IncludeDeleted {
		db = db.Where("bookings.is_deleted = false")
	}
	if query.ProjectID > 0 {
		db = db.Where("bookings.project_id = ?", query.ProjectID)
	}
	if query.CustomerID > 0 {
		db = db.Where("bookings.customer_id = ?", query.CustomerID)
	}
	if query.BrokerID > 0 {
		db = db.Where("bookings.broker_id = ?", query.BrokerID)
	}

	// Apply status filter (single or multiple via status_in)
	if query.Filters != nil {
		if val, ok := query.Filters["status_in"]; ok && val != "" {
			statuses := strings.Split(val, ",")
			for i, s := range statuses {
				statuses[i] = strings.TrimSpace(s)
			}
			if len(statuses) > 0 {
				db = db.Where("bookings.status IN ?", statuses)
			}
		}
	}
	if query.Filters == nil || query.Filters["status_in"] == "" {
		if query.Status != "" {
			db = db.Where("bookings.status = ?", query.Status)
		}
	}

	// Apply booking_date range filters
	if query.Filters != nil {
		if val, ok := query.Filters["start_date"]; ok && val != "" {
			db = db.Where("bookings.booking_date >= ?", val)
		}
		if val, ok := query.Filters["end_date"]; ok && val != "" {
			db = db.Where("bookings.booking_date <= ?", val)
		}
		if val, ok := query.Filters["registry_done"]; ok && val != "" {
			db = db.Where("bookings.registry_done = ?", val == "true")
		}
	}

	// Apply search (JOINs only for filtering; associations loaded via Preload below)
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN customers ON customers.id = bookings.customer_id").
			Joins("LEFT JOIN projects ON projects.id = bookings.project_id").
			Where("bookings.booking_number ILIKE ? OR bookings.plot_number ILIKE ? OR customers.full_name ILIKE ? OR customers.phone ILIKE ? OR projects.name ILIKE ?",
				search, search, search, search, search)
	}

	// Count total using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting
	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("bookings.booking_date DESC, bookings.id DESC")
	}

	// Apply pagination
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Customer").
		Preload("Project").
		Preload("Broker").
		Preload("Payments", "is_deleted = false").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *bookingRepository) CountActiveByProject(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("project_id = ? AND status = ? AND is_deleted = false",
			projectID, models.BookingStatusActive).
		Count(&count).Error
	return count, err
}

// FindPendingRegistry returns active bookings that are fully paid but whose
// registry has not been completed yet.
func (r *bookingRepository) FindPendingRegistry(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_deleted = false AND registry_done = false",
			models.BookingStatusActive).
		Preload("Customer").
		Preload("Project").
		Preload("Payments", "is_deleted = false").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	var pending []models.Booking
	for i := range bookings {
		if bookings[i].RemainingAmount() <= 0 {
			pending = append(pending, bookings[i])
		}
	}
	return pending, nil
}
