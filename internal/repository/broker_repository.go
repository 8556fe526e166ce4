package repository

import (
	"context"

	"github.com/dsrealty/estate-api/internal/models"
	"gorm.io/gorm"
)

// BrokerRepository defines the interface for broker data access
type BrokerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Broker, error)
	FindByIDWithLedger(ctx context.Context, id uint) (*models.Broker, error)
	FindByNumber(ctx context.Context, brokerNumber string) (*models.Broker, error)
	Update(ctx context.Context, broker *models.Broker) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Broker, int64, error)
}

type brokerRepository struct {
	db *gorm.DB
}

// NewBrokerRepository creates a new broker repository
func NewBrokerRepository(db *gorm.DB) BrokerRepository {
	return &brokerRepository{db: db}
}

func (r *brokerRepository) FindByID(ctx context.Context, id uint) (*models.Broker, error) {
	var broker models.Broker
	err := r.db.WithContext(ctx).
		Where("is_deleted = false").
		First(&broker, id).Error
	if err != nil {
		return nil, err
	}
	return &broker, nil
}

// FindByIDWithLedger loads the broker together with the bookings and payouts
// that feed its commission figures.
func (r *brokerRepository) FindByIDWithLedger(ctx context.Context, id uint) (*models.Broker, error) {
	var broker models.Broker
	err := r.db.WithContext(ctx).
		Where("is_deleted = false").
		Preload("Bookings", "is_deleted = false").
		Preload("Bookings.Customer").
		Preload("Bookings.Project").
		Preload("Payouts", "is_deleted = false").
		First(&broker, id).Error
	if err != nil {
		return nil, err
	}
	return &broker, nil
}

func (r *brokerRepository) FindByNumber(ctx context.Context, brokerNumber string) (*models.Broker, error) {
	var broker models.Broker
	err := r.db.WithContext(ctx).
		Where("broker_number = ? AND is_deleted = false", brokerNumber).
		First(&broker).Error
	if err != nil {
		return nil, err
	}
	return &broker, nil
}

func (r *brokerRepository) Update(ctx context.Context, broker *models.Broker) error {
	return r.db.WithContext(ctx).Save(broker).Error
}

func (r *brokerRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Broker{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *brokerRepository) Restore(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Broker{}).
		Where("id = ?", id).
		Update("is_deleted", false).Error
}

func (r *brokerRepository) List(ctx context.Context, query *ListQuery) ([]models.Broker, int64, error) {
	var brokers []models.Broker
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Broker{})
	if query.Filters["include_deleted"] != "true" {
		db = db.Where("is_deleted = false")
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("full_name ILIKE ? OR firm_name ILIKE ? OR phone ILIKE ? OR broker_number ILIKE ?",
			search, search, search, search)
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
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Bookings", "is_deleted = false").
		Preload("Payouts", "is_deleted = false").
		Find(&brokers).Error
	return brokers, total, err
}
