package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"autotrust/internal/catalog"
	h "autotrust/internal/http/handlers"
	"autotrust/internal/notify"
	"autotrust/internal/repositories"
	"autotrust/internal/services"
	"autotrust/internal/sheets"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// sheetServer fakes the Sheets append endpoint and keeps the rows.
type sheetServer struct {
	mu     sync.Mutex
	rows   [][]any
	status int
}

func (s *sheetServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if s.status != 0 {
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"backend error"}}`))
		return
	}
	var body struct {
		Values [][]any `json:"values"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.rows = append(s.rows, body.Values...)
	_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))
}

type testServer struct {
	router *gin.Engine
	sheet  *sheetServer
	mailer *recordingMailer
	cache  *repositories.MemoryStore
}

func newTestServer(t *testing.T, db *sql.DB, auth services.AuthService) *testServer {
	t.Helper()
	sheet := &sheetServer{}
	srv := httptest.NewServer(sheet)
	t.Cleanup(srv.Close)

	appender, err := sheets.NewAppenderWithClient(context.Background(), srv.Client(), srv.URL+"/", "sheet-123", "Bookings")
	require.NoError(t, err)

	mailer := &recordingMailer{}
	cache := repositories.NewMemoryStore()
	cat := catalog.Default()
	hs := &h.Handlers{
		Intake: &services.IntakeService{
			Cache:          cache,
			Sheet:          appender,
			Mailer:         mailer,
			Catalog:        cat,
			Ledger:         services.NewLedger(time.Hour),
			AdminEmail:     "ops@autotrust.test",
			SpreadsheetURL: appender.URL(),
		},
		Catalog: cat,
		Cache:   cache,
		Auth:    auth,
		DB:      db,
	}
	if db != nil {
		hs.Bookings = &repositories.BookingRepository{DB: db, Timeout: time.Second}
		hs.Dashboard = repositories.DashboardRepository{DB: db, Timeout: time.Second}
	}
	r := NewRouter(hs, RouterOptions{AdminEnabled: db != nil})
	return &testServer{router: r, sheet: sheet, mailer: mailer, cache: cache}
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var rdr *strings.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	} else {
		rdr = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

const premiumPayload = `{
	"name": "Jane Doe", "email": "a@b.com", "phone": "555-0100",
	"carMake": "Toyota", "carModel": "Camry", "carYear": 2019, "carColor": "Blue",
	"mileage": "45000", "vin": "1HGCM82633A004352", "licensePlate": "ABC123",
	"date": "2025-01-20T10:00", "address": "1 Main St", "city": "Austin", "state": "TX", "zipCode": "78701",
	"packageType": "premium", "package": "premium", "formId": "FORM-1736931600000-42"
}`

func TestCreateBooking_EndToEnd(t *testing.T) {
	s := newTestServer(t, nil, services.AuthService{})

	w := s.do(http.MethodPost, "/api/bookings", premiumPayload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Booking saved and email sent.", body["message"])
	ref, _ := body["bookingId"].(string)
	assert.True(t, strings.HasPrefix(ref, "ATR-"), ref)

	require.Len(t, s.sheet.rows, 1)
	row := s.sheet.rows[0]
	assert.Len(t, row, sheets.RowWidth)
	assert.Equal(t, "premium", row[len(row)-1])
	assert.Equal(t, "2019", row[7])

	require.Len(t, s.mailer.sent, 2)
	for _, m := range s.mailer.sent {
		assert.Contains(t, m.Text, "Jane Doe")
		assert.Contains(t, m.Text, "2019 Toyota Camry")
	}

	w = s.do(http.MethodGet, "/api/bookings", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, ref, list[0]["bookingId"])
}

func TestCreateBooking_SheetFailureIs500(t *testing.T) {
	s := newTestServer(t, nil, services.AuthService{})
	s.sheet.status = http.StatusForbidden

	w := s.do(http.MethodPost, "/api/bookings", premiumPayload, "X-Request-ID", "req-42")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Error saving booking", body["message"])
	assert.Equal(t, "req-42", body["request_id"])
	assert.Empty(t, s.mailer.sent)
	assert.NotContains(t, w.Body.String(), "backend error")
}

func TestCreateBooking_EmailFailureIs500(t *testing.T) {
	s := newTestServer(t, nil, services.AuthService{})
	s.mailer.err = errors.New("535 authentication failed")

	w := s.do(http.MethodPost, "/api/bookings", premiumPayload)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, s.sheet.rows, 1)
}

func TestCreateBooking_RejectsNonObject(t *testing.T) {
	s := newTestServer(t, nil, services.AuthService{})
	for _, body := range []string{`[1,2]`, `null`, `not json`, `"x"`} {
		w := s.do(http.MethodPost, "/api/bookings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Empty(t, s.sheet.rows)
}

func TestPackageQuote(t *testing.T) {
	s := newTestServer(t, nil, services.AuthService{})
	cases := map[string]struct {
		price float64
		name  string
	}{
		"basic":    {100, "Basic"},
		"standard": {200, "Standard"},
		"premium":  {300, "Premium"},
	}
	for id, want := range cases {
		w := s.do(http.MethodGet, "/api/package/"+id, "")
		require.Equal(t, http.StatusOK, w.Code, id)
		body := decode(t, w)
		assert.Equal(t, want.price, body["price"])
		assert.Equal(t, want.name, body["name"])
	}
	for _, id := range []string{"Basic", "PREMIUM", "gold", "%20"} {
		w := s.do(http.MethodGet, "/api/package/"+id, "")
		require.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, "Invalid package type", decode(t, w)["message"])
	}
}

func TestPackageQuote_EmptyType(t *testing.T) {
	hs := &h.Handlers{Catalog: catalog.Default()}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "type", Value: ""}}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/package/", nil)
	hs.GetPackageQuote(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateBooking(t *testing.T) {
	s := newTestServer(t, nil, services.AuthService{})

	w := s.do(http.MethodPost, "/api/bookings/validate?step=1", `{"name":"","email":"bad"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["valid"])
	errs := body["errors"].(map[string]any)
	assert.Equal(t, "Full name is required", errs["name"])
	assert.Equal(t, "Invalid email format", errs["email"])

	w = s.do(http.MethodPost, "/api/bookings/validate", premiumPayload)
	assert.Equal(t, true, decode(t, w)["valid"])

	w = s.do(http.MethodPost, "/api/bookings/validate?step=7", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiptAndPayment(t *testing.T) {
	s := newTestServer(t, nil, services.AuthService{})
	w := s.do(http.MethodPost, "/api/bookings", premiumPayload)
	require.Equal(t, http.StatusCreated, w.Code)
	ref := decode(t, w)["bookingId"].(string)

	w = s.do(http.MethodGet, "/api/bookings/"+ref+"/receipt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = s.do(http.MethodGet, "/api/bookings/ATR-404/receipt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, "/api/bookings/"+ref+"/payment", `{"status":"completed","transactionId":"txn_1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	b, _ := s.cache.FindByReference(ref)
	assert.Equal(t, "completed", b.PaymentStatus)

	w = s.do(http.MethodPut, "/api/bookings/"+ref+"/payment", `{"status":"refunded"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, "/api/bookings/ATR-404/payment", `{"status":"completed"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesNeedDatabase(t *testing.T) {
	s := newTestServer(t, nil, services.AuthService{})
	w := s.do(http.MethodGet, "/admin/dashboard", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func newAdminServer(t *testing.T, auth services.AuthService) (*testServer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newTestServer(t, db, auth), mock
}

func TestAdminListBookings_Page2(t *testing.T) {
	s, mock := newAdminServer(t, services.AuthService{})

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total FROM booking_summary WHERE 1=1 AND status = \?`).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(41)))
	rows := sqlmock.NewRows([]string{"booking_reference", "status"})
	for i := 0; i < 20; i++ {
		rows.AddRow("ATR-X", "pending")
	}
	mock.ExpectQuery(`LIMIT \? OFFSET \?`).
		WithArgs("pending", 20, 20).
		WillReturnRows(rows)

	w := s.do(http.MethodGet, "/admin/bookings?page=2&limit=20&status=pending", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Len(t, data["bookings"], 20)
	pg := data["pagination"].(map[string]any)
	assert.Equal(t, float64(41), pg["total"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminGetBooking_NotFound(t *testing.T) {
	s, mock := newAdminServer(t, services.AuthService{})
	mock.ExpectQuery(`WHERE b.booking_reference = \?`).
		WithArgs("ATR-404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := s.do(http.MethodGet, "/api/admin/bookings/ATR-404", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Booking not found", body["error"])
}

func TestAdminUpdateStatus(t *testing.T) {
	s, mock := newAdminServer(t, services.AuthService{})

	w := s.do(http.MethodPut, "/admin/bookings/12/status", `{"status":"shipped"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", decode(t, w)["error"])

	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \?`).
		WithArgs("completed", int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	w = s.do(http.MethodPut, "/admin/bookings/12/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \?`).
		WithArgs("completed", int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	w = s.do(http.MethodPut, "/api/admin/bookings/12/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminExportCSV(t *testing.T) {
	s, mock := newAdminServer(t, services.AuthService{})
	mock.ExpectQuery(`SELECT \* FROM booking_summary ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"booking_reference", "customer_name", "total_amount"}).
			AddRow("ATR-1", "Doe, Jane", "150.00").
			AddRow("ATR-2", `John "JJ" Roe`, "85.00"))

	w := s.do(http.MethodGet, "/admin/export/bookings?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=bookings.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "booking_reference,customer_name,total_amount\n"+
		"ATR-1,\"Doe, Jane\",150.00\n"+
		"ATR-2,\"John \"\"JJ\"\" Roe\",85.00\n", w.Body.String())
}

func TestAdminExportCSV_Empty(t *testing.T) {
	s, mock := newAdminServer(t, services.AuthService{})
	mock.ExpectQuery(`FROM booking_summary`).
		WillReturnRows(sqlmock.NewRows([]string{"booking_reference"}))

	w := s.do(http.MethodGet, "/admin/export/bookings?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestAdminAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	auth := services.AuthService{Secret: []byte("k"), Email: "admin@autotrust.test", PasswordHash: string(hash), TTL: time.Hour}
	s, mock := newAdminServer(t, auth)

	w := s.do(http.MethodGet, "/admin/analytics/packages", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/admin/login", `{"email":"admin@autotrust.test","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/admin/login", `{"email":"admin@autotrust.test","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["data"].(map[string]any)["token"].(string)

	mock.ExpectQuery(`FROM bookings b\s+JOIN inspection_packages p`).
		WillReturnRows(sqlmock.NewRows([]string{"code", "name", "bookings", "revenue"}).
			AddRow("basic", "Basic Inspection", int64(1), "45.00"))
	w = s.do(http.MethodGet, "/admin/analytics/packages", "", "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, float64(100), data[0].(map[string]any)["percentage"])
}
