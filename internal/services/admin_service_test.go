package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	intdb "autotrust/internal/db"
	"autotrust/internal/domain"
	"autotrust/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newAdmin(db *sql.DB) AdminService {
	return AdminService{
		Bookings:  repositories.BookingRepository{DB: db, Timeout: time.Second},
		Dashboard: repositories.DashboardRepository{DB: db, Timeout: time.Second},
	}
}

func TestAdminListBookings_Pagination(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdmin(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total FROM booking_summary`).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(45)))
	rows := sqlmock.NewRows([]string{"booking_reference"})
	for i := 0; i < 20; i++ {
		rows.AddRow("ATR-" + string(rune('A'+i)))
	}
	mock.ExpectQuery(`SELECT \* FROM booking_summary WHERE 1=1 ORDER BY created_at DESC LIMIT \? OFFSET \?`).
		WithArgs(20, 20).
		WillReturnRows(rows)

	page, err := svc.ListBookings(context.Background(), 2, 20, "", "")
	require.NoError(t, err)
	assert.Len(t, page.Bookings, 20)
	assert.Equal(t, domain.Pagination{Page: 2, Limit: 20, Total: 45}, page.Pagination)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdmin(db)

	err := svc.UpdateStatus(context.Background(), "ATR-1", "shipped")
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "Invalid status")

	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE booking_reference = \?`).
		WithArgs("in-progress", "ATR-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, svc.UpdateStatus(context.Background(), "ATR-1", "in-progress"))

	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \?`).
		WithArgs("pending", int64(404)).
		WillReturnError(errors.New("connection reset"))
	err = svc.UpdateStatus(context.Background(), "404", "pending")
	assert.True(t, domain.IsUpstream(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateStatus_SameStatusSucceeds(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdmin(db)

	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \?`).
		WithArgs("confirmed", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, svc.UpdateStatus(context.Background(), "7", "confirmed"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminGetBooking_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdmin(db)
	mock.ExpectQuery(`WHERE b.booking_reference = \?`).
		WithArgs("ATR-404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetBooking(context.Background(), "ATR-404")
	assert.True(t, domain.IsNotFound(err))
}

func TestAdminSchedule(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdmin(db)

	_, err := svc.Schedule(context.Background(), "20-01-2025")
	assert.True(t, domain.IsValidation(err))

	mock.ExpectQuery(`WHERE DATE\(inspection_date\) = \?`).
		WithArgs("2025-01-20").
		WillReturnRows(sqlmock.NewRows([]string{"booking_reference"}))
	rows, err := svc.Schedule(context.Background(), "2025-01-20")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestAdminRevenue_UnknownPeriodIsYearly(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdmin(db)
	mock.ExpectQuery(`YEAR\(created_at\) AS period`).
		WillReturnRows(sqlmock.NewRows([]string{"period", "revenue", "bookings"}).AddRow(int64(2025), "450.00", int64(3)))

	points, err := svc.Revenue(context.Background(), "decade")
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "2025", points[0].Period)

	mock.ExpectQuery(`DATE_FORMAT\(created_at, '%Y-%m'\)`).WillReturnError(errors.New("gone"))
	_, err = svc.Revenue(context.Background(), "")
	assert.True(t, domain.IsUpstream(err))
}

func TestBookingsCSV(t *testing.T) {
	res := intdb.Result{
		Success: true,
		Columns: []string{"booking_reference", "customer_name", "notes", "total_amount"},
		Data: []intdb.Row{
			{"booking_reference": "ATR-1", "customer_name": "Doe, Jane", "notes": `said "hi"`, "total_amount": "150.00"},
			{"booking_reference": "ATR-2", "customer_name": "John", "notes": nil, "total_amount": int64(85)},
		},
	}
	out, err := BookingsCSV(res)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "booking_reference,customer_name,notes,total_amount", lines[0])
	assert.Equal(t, `ATR-1,"Doe, Jane","said ""hi""",150.00`, lines[1])
	assert.Equal(t, "ATR-2,John,,85", lines[2])
}

func TestBookingsCSV_Empty(t *testing.T) {
	out, err := BookingsCSV(intdb.Result{Success: true})
	require.NoError(t, err)
	assert.Empty(t, out)
}
