package services

import (
	"bytes"
	"context"
	"testing"

	"autotrust/internal/catalog"
	"autotrust/internal/domain"
	"autotrust/internal/domain/models"
	"autotrust/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentUpdate_MemoryOnly(t *testing.T) {
	cache := repositories.NewMemoryStore()
	cache.Add(models.Booking{BookingID: "ATR-1", PaymentStatus: "pending"})
	svc := PaymentService{Cache: cache}

	require.NoError(t, svc.Update(context.Background(), "ATR-1", PaymentUpdate{Status: "completed", TransactionID: "txn_9"}))
	b, _ := cache.FindByReference("ATR-1")
	assert.Equal(t, "completed", b.PaymentStatus)
	assert.Equal(t, "txn_9", b.TransactionID)

	err := svc.Update(context.Background(), "ATR-2", PaymentUpdate{Status: "completed"})
	assert.True(t, domain.IsNotFound(err))

	err = svc.Update(context.Background(), "ATR-1", PaymentUpdate{Status: "refunded"})
	assert.True(t, domain.IsValidation(err))
}

func TestPaymentUpdate_StoresPaidInDatabase(t *testing.T) {
	db, mock := newMockDB(t)
	svc := PaymentService{Repo: &repositories.BookingRepository{DB: db}}

	mock.ExpectExec(`UPDATE bookings SET payment_date = \?, payment_status = \?, transaction_id = \? WHERE booking_reference = \?`).
		WithArgs(sqlmock.AnyArg(), "paid", "txn_1", "ATR-7").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Update(context.Background(), "ATR-7", PaymentUpdate{Status: "completed", TransactionID: "txn_1"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptGenerate_FromMemory(t *testing.T) {
	cache := repositories.NewMemoryStore()
	cache.Add(models.Booking{
		BookingID:   "ATR-20250120-ABCDEF12",
		Name:        "Jane Doe",
		Email:       "a@b.com",
		CarMake:     "Toyota",
		CarModel:    "Camry",
		CarYear:     "2019",
		PackageType: "premium",
		Date:        "2025-01-20",
	})
	svc := ReceiptService{Cache: cache, Catalog: catalog.Default()}

	pdf, name, err := svc.Generate(context.Background(), "ATR-20250120-ABCDEF12")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, "RECEIPT_ATR-20250120-ABCDEF12.pdf", name)
}

func TestReceiptGenerate_FallsBackToDatabase(t *testing.T) {
	db, mock := newMockDB(t)
	svc := ReceiptService{Cache: repositories.NewMemoryStore(), Repo: &repositories.BookingRepository{DB: db}}

	mock.ExpectQuery(`WHERE b.booking_reference = \?`).
		WithArgs("ATR-9").
		WillReturnRows(sqlmock.NewRows([]string{"booking_reference", "customer_name", "vehicle_info", "package_name", "total_amount"}).
			AddRow("ATR-9", "John Roe", "2020 Honda Civic", "Standard Inspection", "85.00"))
	mock.ExpectQuery(`WHERE b.booking_reference = \?`).
		WithArgs("ATR-404").
		WillReturnRows(sqlmock.NewRows([]string{"booking_reference"}))

	pdf, _, err := svc.Generate(context.Background(), "ATR-9")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	_, _, err = svc.Generate(context.Background(), "ATR-404")
	assert.True(t, domain.IsNotFound(err))
}
