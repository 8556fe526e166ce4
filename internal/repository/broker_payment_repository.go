package repository

import (
	"context"

	"github.com/dsrealty/estate-api/internal/models"
	"gorm.io/gorm"
)

// BrokerPaymentRepository defines the interface for broker payout data access
type BrokerPaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.BrokerPayment, error)
	FindByBroker(ctx context.Context, brokerID uint) ([]models.BrokerPayment, error)
	SumForBroker(ctx context.Context, brokerID uint) (float64, error)
	Update(ctx context.Context, payment *models.BrokerPayment) error
	List(ctx context.Context, query *ListQuery) ([]models.BrokerPayment, int64, error)
}

type brokerPaymentRepository struct {
	db *gorm.DB
}

// NewBrokerPaymentRepository creates a new broker payment repository
func NewBrokerPaymentRepository(db *gorm.DB) BrokerPaymentRepository {
	return &brokerPaymentRepository{db: db}
}

func (r *brokerPaymentRepository) FindByID(ctx context.Context, id uint) (*models.BrokerPayment, error) {
	var payment models.BrokerPayment
	err := r.db.WithContext(ctx).
		Preload("Broker").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *brokerPaymentRepository) FindByBroker(ctx context.Context, brokerID uint) ([]models.BrokerPayment, error) {
	var payments []models.BrokerPayment
	err := r.db.WithContext(ctx).
		Where("broker_id = ? AND is_deleted = false", brokerID).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

// SumForBroker returns the total of non-deleted disbursements for a broker.
func (r *brokerPaymentRepository) SumForBroker(ctx context.Context, brokerID uint) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.BrokerPayment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("broker_id = ? AND is_deleted = false", brokerID).
		Scan(&result).Error
	return result.Total, err
}

func (r *brokerPaymentRepository) Update(ctx context.Context, payment *models.BrokerPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *brokerPaymentRepository) List(ctx context.Context, query *ListQuery) ([]models.BrokerPayment, int64, error) {
	var payments []models.BrokerPayment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.BrokerPayment{}).Where("broker_payments.is_deleted = false")

	if query.Filters["broker_id"] != "" {
		db = db.Where("broker_payments.broker_id = ?", query.Filters["broker_id"])
	}
	if query.Filters["start_date"] != "" {
		db = db.Where("broker_payments.payment_date >= ?", query.Filters["start_date"])
	}
	if query.Filters["end_date"] != "" {
		db = db.Where("broker_payments.payment_date <= ?", query.Filters["end_date"])
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN brokers ON brokers.id = broker_payments.broker_id").
			Where("broker_payments.voucher_number ILIKE ? OR brokers.full_name ILIKE ?", search, search)
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
		db = db.Order("broker_payments.payment_date DESC, broker_payments.id DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Broker").Find(&payments).Error
	return payments, total, err
}
