package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPaymentEditSurfacesConcurrentDelete(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "receipt_number", "amount", "is_deleted"}).
			AddRow(5, 2, "RCP/000005", 50000.0, false))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_deleted", "status"}).
			AddRow(2, false, "active"))
	// The reload under the booking lock sees the delete that committed after
	// the first read.
	mock.ExpectQuery(`SELECT (.+) FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "receipt_number", "amount", "is_deleted"}).
			AddRow(5, 2, "RCP/000005", 50000.0, true))
	mock.ExpectRollback()

	svc := NewPaymentService(db, nil, nil, nil, nil, nil, NewAuditService(db), nil)

	remarks := "corrected reference"
	_, err := svc.Edit(context.Background(), 5, &EditPaymentInput{Remarks: &remarks}, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
