package services

import (
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/dsrealty/estate-api/internal/models"
	"github.com/dsrealty/estate-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

// Mock PaymentRepository
type mockPaymentRepository struct {
	repository.PaymentRepository
	mockList                func(ctx context.Context, query *repository.PaymentQuery) ([]models.Payment, int64, error)
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.Payment, error)
	mockSumForBooking       func(ctx context.Context, bookingID uint) (float64, error)
}

func (m *mockPaymentRepository) List(ctx context.Context, query *repository.PaymentQuery) ([]models.Payment, int64, error) {
	if m.mockList != nil {
		return m.mockList(ctx, query)
	}
	return nil, 0, nil
}

func (m *mockPaymentRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Payment, error) {
	if m.mockFindByIDWithDetails != nil {
		return m.mockFindByIDWithDetails(ctx, id)
	}
	return nil, nil
}

func (m *mockPaymentRepository) SumForBooking(ctx context.Context, bookingID uint) (float64, error) {
	if m.mockSumForBooking != nil {
		return m.mockSumForBooking(ctx, bookingID)
	}
	return 0, nil
}

// Mock BookingRepository
type mockBookingRepository struct {
	repository.BookingRepository
	mockFindByBroker               func(ctx context.Context, brokerID uint) ([]models.Booking, error)
	mockFindActiveByProjectAndPlot func(ctx context.Context, projectID uint, plotNumber string) (*models.Booking, error)
}

func (m *mockBookingRepository) FindByBroker(ctx context.Context, brokerID uint) ([]models.Booking, error) {
	if m.mockFindByBroker != nil {
		return m.mockFindByBroker(ctx, brokerID)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindActiveByProjectAndPlot(ctx context.Context, projectID uint, plotNumber string) (*models.Booking, error) {
	if m.mockFindActiveByProjectAndPlot != nil {
		return m.mockFindActiveByProjectAndPlot(ctx, projectID, plotNumber)
	}
	return nil, nil
}

// Mock ProjectRepository
type mockProjectRepository struct {
	repository.ProjectRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Project, error)
}

func (m *mockProjectRepository) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

// Mock BrokerRepository
type mockBrokerRepository struct {
	repository.BrokerRepository
	mockList             func(ctx context.Context, query *repository.ListQuery) ([]models.Broker, int64, error)
	mockFindByIDWithLedg func(ctx context.Context, id uint) (*models.Broker, error)
}

func (m *mockBrokerRepository) List(ctx context.Context, query *repository.ListQuery) ([]models.Broker, int64, error) {
	if m.mockList != nil {
		return m.mockList(ctx, query)
	}
	return nil, 0, nil
}

func (m *mockBrokerRepository) FindByIDWithLedger(ctx context.Context, id uint) (*models.Broker, error) {
	if m.mockFindByIDWithLedg != nil {
		return m.mockFindByIDWithLedg(ctx, id)
	}
	return nil, nil
}

func TestGenerateCollectionsCSV(t *testing.T) {
	mockRepo := &mockPaymentRepository{}
	service := NewReportService(nil, mockRepo, nil, nil, nil, nil)

	paymentDate := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	mockRepo.mockList = func(ctx context.Context, query *repository.PaymentQuery) ([]models.Payment, int64, error) {
		assert.Equal(t, "2025-08-01", query.Filters["start_date"])
		assert.Equal(t, "2025-08-31", query.Filters["end_date"])

		payments := []models.Payment{
			{
				ID:            1,
				ReceiptNumber: "DSPAY/IN/1001",
				BookingID:     7,
				Amount:        500000,
				PaymentDate:   paymentDate,
				PaymentMode:   models.PaymentModeCheque,
				PaymentType:   models.PaymentTypeBooking,
				Booking: models.Booking{
					ID:            7,
					BookingNumber: "DS/25/08-1001",
					Customer:      models.Customer{ID: 3, FullName: "Ramesh Gupta"},
					Project:       models.Project{ID: 2, Name: "Green Valley Phase 2"},
				},
			},
		}
		return payments, int64(len(payments)), nil
	}

	buf, err := service.GenerateCollectionsCSV(context.Background(), "2025-08-01", "2025-08-31")
	assert.NoError(t, err)
	assert.NotNil(t, buf)

	reader := csv.NewReader(buf)
	records, err := reader.ReadAll()
	assert.NoError(t, err)

	expectedHeader := []string{"Receipt No", "Date", "Booking No", "Customer", "Project", "Type", "Mode", "Amount"}
	assert.Equal(t, expectedHeader, records[0])

	row := records[1]
	assert.Equal(t, "DSPAY/IN/1001", row[0])
	assert.Equal(t, "2025-08-15", row[1])
	assert.Equal(t, "DS/25/08-1001", row[2])
	assert.Equal(t, "Ramesh Gupta", row[3])
	assert.Equal(t, "Green Valley Phase 2", row[4])
	assert.Equal(t, "booking", row[5])
	assert.Equal(t, "cheque", row[6])
	assert.Equal(t, "500000.00", row[7])
}

func TestGenerateCommissionsCSV(t *testing.T) {
	brokerRepo := &mockBrokerRepository{}
	bookingRepo := &mockBookingRepository{}
	service := NewReportService(bookingRepo, nil, nil, nil, brokerRepo, nil)

	brokerID := uint(4)
	associateRate := 20000.0

	brokerRepo.mockList = func(ctx context.Context, query *repository.ListQuery) ([]models.Broker, int64, error) {
		return []models.Broker{
			{ID: brokerID, BrokerNumber: "BRK202500001", FullName: "Suresh Estates"},
		}, 1, nil
	}
	brokerRepo.mockFindByIDWithLedg = func(ctx context.Context, id uint) (*models.Broker, error) {
		return &models.Broker{
			ID:      brokerID,
			Payouts: []models.BrokerPayment{{Amount: 50000}},
		}, nil
	}
	bookingRepo.mockFindByBroker = func(ctx context.Context, id uint) ([]models.Booking, error) {
		return []models.Booking{
			{
				ID:            7,
				BookingNumber: "DS/25/08-1001",
				BrokerID:      &brokerID,
				PlotNumber:    "A-101",
				Area:          200,
				Rate:          21000,
				AssociateRate: &associateRate,
				Status:        models.BookingStatusActive,
				Project:       models.Project{ID: 2, Name: "Green Valley Phase 2"},
			},
		}, nil
	}

	buf, err := service.GenerateCommissionsCSV(context.Background())
	assert.NoError(t, err)

	reader := csv.NewReader(buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	assert.NoError(t, err)

	// Header, one booking row, one summary row.
	assert.Len(t, records, 3)

	row := records[1]
	assert.Equal(t, "BRK202500001", row[0])
	assert.Equal(t, "Suresh Estates", row[1])
	assert.Equal(t, "DS/25/08-1001", row[2])
	assert.Equal(t, "200000.00", row[8])

	summary := records[2]
	assert.Equal(t, "TOTAL", summary[2])
	assert.Equal(t, "disbursed 50000.00", summary[7])
	assert.Equal(t, "200000.00", summary[8])
}

func TestGenerateReceiptPDF(t *testing.T) {
	mockRepo := &mockPaymentRepository{}
	service := NewReportService(nil, mockRepo, nil, nil, nil, nil)

	mockRepo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Payment, error) {
		return &models.Payment{
			ID:            1,
			ReceiptNumber: "DSPAY/IN/1001",
			BookingID:     7,
			Amount:        500000,
			PaymentDate:   time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
			PaymentMode:   models.PaymentModeCheque,
			Booking: models.Booking{
				ID:            7,
				BookingNumber: "DS/25/08-1001",
				PlotNumber:    "A-101",
				Area:          1200,
				Rate:          3500,
				Discount:      100,
				PLC:           50000,
				Customer:      models.Customer{ID: 3, FullName: "Ramesh Gupta"},
				Project:       models.Project{ID: 2, Name: "Green Valley Phase 2"},
			},
		}, nil
	}
	mockRepo.mockSumForBooking = func(ctx context.Context, bookingID uint) (float64, error) {
		return 500000, nil
	}

	data, filename, err := service.GenerateReceiptPDF(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "receipt_DSPAY-IN-1001.pdf", filename)
	assert.Greater(t, len(data), 0, "PDF output should not be empty")
}

func TestGenerateReceiptPDFDeletedPayment(t *testing.T) {
	mockRepo := &mockPaymentRepository{}
	service := NewReportService(nil, mockRepo, nil, nil, nil, nil)

	mockRepo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Payment, error) {
		return &models.Payment{ID: 1, IsDeleted: true}, nil
	}

	_, _, err := service.GenerateReceiptPDF(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
