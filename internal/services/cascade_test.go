package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dsrealty/estate-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB opens a gorm connection backed by sqlmock so transaction shapes
// can be asserted without a live Postgres.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, sqlDB
}

func TestBookingSoftDeleteCascadesToPayments(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "payments"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	svc := NewBookingService(db, nil, nil, nil, nil, nil, nil, nil, nil, NewAuditService(db), nil)

	err := svc.SoftDelete(context.Background(), 7, 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingSoftDeleteAlreadyDeleted(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	svc := NewBookingService(db, nil, nil, nil, nil, nil, nil, nil, nil, NewAuditService(db), nil)

	err := svc.SoftDelete(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectSoftDeleteCascadesThroughBookings(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "projects"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "payments"`).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	svc := NewProjectService(db, nil, NewAuditService(db))

	err := svc.SoftDelete(context.Background(), 3, 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateRechecksPlotInsideTransaction(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	projectRepo := &mockProjectRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Project, error) {
			return &models.Project{ID: 3, Name: "Green Acres", TotalPlots: 50}, nil
		},
	}
	// The unlocked fast path sees the plot as free; the plot is taken by the
	// time the transaction runs.
	bookingRepo := &mockBookingRepository{
		mockFindActiveByProjectAndPlot: func(ctx context.Context, projectID uint, plotNumber string) (*models.Booking, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "Green Acres"))
	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	svc := NewBookingService(db, bookingRepo, projectRepo, nil, nil, nil, nil, nil, nil, NewAuditService(db), nil)

	_, err := svc.Create(context.Background(), &CreateBookingInput{
		ProjectID:  3,
		CustomerID: 1,
		PlotNumber: "A-101",
		Area:       100,
		Rate:       1500,
	}, 1)
	assert.ErrorIs(t, err, ErrPlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRestoreRejectsResoldPlot(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "plot_number", "status", "is_deleted"}).
			AddRow(7, 3, "A-101", "active", true))
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "Green Acres"))
	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	svc := NewBookingService(db, nil, nil, nil, nil, nil, nil, nil, nil, NewAuditService(db), nil)

	err := svc.Restore(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrPlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRestoreSucceedsWhenPlotFree(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "plot_number", "status", "is_deleted"}).
			AddRow(7, 3, "A-101", "active", true))
	mock.ExpectQuery(`SELECT (.+) FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "Green Acres"))
	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	svc := NewBookingService(db, nil, nil, nil, nil, nil, nil, nil, nil, NewAuditService(db), nil)

	err := svc.Restore(context.Background(), 7, 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRestoreSkipsPlotCheckForCancelled(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "plot_number", "status", "is_deleted"}).
			AddRow(7, 3, "A-101", "cancelled", true))
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	svc := NewBookingService(db, nil, nil, nil, nil, nil, nil, nil, nil, NewAuditService(db), nil)

	err := svc.Restore(context.Background(), 7, 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
