package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	intconfig "autotrust/internal/config"
	intdb "autotrust/internal/db"
	"autotrust/internal/domain"
	"autotrust/internal/domain/models"
	"autotrust/internal/utils"
)

// BookingRepository holds the named booking queries over the gateway.
type BookingRepository struct {
	DB      *sql.DB
	Timeout time.Duration
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r BookingRepository) gateway() intdb.Gateway {
	return intdb.New(r.db(), r.Timeout)
}

// ListFilter narrows the admin bookings list.
type ListFilter struct {
	Page   int
	Limit  int
	Status string
	Search string
}

const bookingDetailQuery = `
	SELECT b.*,
	       CONCAT(u.first_name, ' ', u.last_name) AS customer_name,
	       u.email AS customer_email,
	       u.phone AS customer_phone,
	       CONCAT(v.year, ' ', v.make, ' ', v.model) AS vehicle_info,
	       p.name AS package_name
	FROM bookings b
	JOIN customers c ON b.customer_id = c.id
	JOIN users u ON c.user_id = u.id
	JOIN vehicles v ON b.vehicle_id = v.id
	LEFT JOIN inspection_packages p ON b.package_id = p.id
	WHERE b.booking_reference = ?`

func (r BookingRepository) FindUserByEmail(ctx context.Context, email string) intdb.Result {
	return r.gateway().FindOne(ctx, `SELECT * FROM users WHERE email = ?`, email)
}

func (r BookingRepository) FindVehicleByVIN(ctx context.Context, vin string) intdb.Result {
	return r.gateway().FindOne(ctx, `SELECT * FROM vehicles WHERE vin = ?`, vin)
}

func (r BookingRepository) FindPackageByCode(ctx context.Context, code string) intdb.Result {
	return r.gateway().FindOne(ctx, `SELECT * FROM inspection_packages WHERE code = ? AND is_active = TRUE`, code)
}

// FindBookingByReference returns the booking joined with customer,
// vehicle and package display fields.
func (r BookingRepository) FindBookingByReference(ctx context.Context, reference string) intdb.Result {
	return r.gateway().FindOne(ctx, bookingDetailQuery, reference)
}

// ListBookings pages through booking_summary, newest first. The second
// result counts the whole filtered set.
func (r BookingRepository) ListBookings(ctx context.Context, f ListFilter) (intdb.Result, intdb.Result) {
	page := domain.NormalizePagination(f.Page, f.Limit)

	where := " WHERE 1=1"
	args := []any{}
	if status := strings.TrimSpace(f.Status); status != "" && status != "all" {
		where += " AND status = ?"
		args = append(args, status)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		where += " AND (customer_name LIKE ? OR customer_email LIKE ? OR booking_reference LIKE ?)"
		term := "%" + search + "%"
		args = append(args, term, term, term)
	}

	g := r.gateway()
	count := g.Execute(ctx, "SELECT COUNT(*) AS total FROM booking_summary"+where, args...)

	query := "SELECT * FROM booking_summary" + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows := g.Execute(ctx, query, append(args, page.Limit, page.Offset())...)
	return rows, count
}

// ListAllBookings feeds the export.
func (r BookingRepository) ListAllBookings(ctx context.Context) intdb.Result {
	return r.gateway().Execute(ctx, `SELECT * FROM booking_summary ORDER BY created_at DESC`)
}

// ListBookingsByDate is the inspector's schedule for one day.
func (r BookingRepository) ListBookingsByDate(ctx context.Context, date string) intdb.Result {
	return r.gateway().Execute(ctx, `
		SELECT * FROM booking_summary
		WHERE DATE(inspection_date) = ?
		ORDER BY inspection_date ASC`, date)
}

// UpdateBookingStatus accepts a numeric id or a booking reference.
func (r BookingRepository) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) intdb.Result {
	where, arg := bookingKey(id)
	return r.gateway().Update(ctx, "bookings", intdb.Fields{"status": string(status)}, where, arg)
}

// UpdatePaymentStatus records the payment outcome reported after checkout.
func (r BookingRepository) UpdatePaymentStatus(ctx context.Context, reference, status, transactionID string) intdb.Result {
	fields := intdb.Fields{"payment_status": status}
	if transactionID != "" {
		fields["transaction_id"] = transactionID
	}
	if status == "paid" {
		fields["payment_date"] = time.Now()
	}
	return r.gateway().Update(ctx, "bookings", fields, "booking_reference = ?", reference)
}

func bookingKey(id string) (string, any) {
	id = strings.TrimSpace(id)
	if n, err := strconv.ParseInt(id, 10, 64); err == nil && n > 0 {
		return "id = ?", n
	}
	return "booking_reference = ?", id
}

// Create stores one submission as user, customer, vehicle and booking rows
// in a single transaction, reusing users by email and vehicles by VIN.
func (r BookingRepository) Create(ctx context.Context, b models.Booking) (int64, error) {
	sqlDB := r.db()
	if sqlDB == nil {
		return 0, fmt.Errorf("database not configured")
	}
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	g := intdb.New(tx, r.Timeout)

	userID, err := findOrInsert(ctx, g,
		`SELECT id FROM users WHERE email = ?`, []any{b.Email},
		"users", userFields(b))
	if err != nil {
		return 0, fmt.Errorf("user: %w", err)
	}

	customer := customerFields(b)
	customer["user_id"] = userID
	customerID, err := findOrInsert(ctx, g,
		`SELECT id FROM customers WHERE user_id = ?`, []any{userID},
		"customers", customer)
	if err != nil {
		return 0, fmt.Errorf("customer: %w", err)
	}

	vehicle := vehicleFields(b)
	vehicle["customer_id"] = customerID
	var vehicleID int64
	if strings.TrimSpace(b.VIN) != "" {
		vehicleID, err = findOrInsert(ctx, g, `SELECT id FROM vehicles WHERE vin = ?`, []any{b.VIN}, "vehicles", vehicle)
	} else {
		vehicleID, err = insertID(ctx, g, "vehicles", vehicle)
	}
	if err != nil {
		return 0, fmt.Errorf("vehicle: %w", err)
	}

	booking := bookingFields(b)
	booking["customer_id"] = customerID
	booking["vehicle_id"] = vehicleID
	booking["package_id"] = nil
	booking["total_amount"] = 0.0
	// Unknown or missing packages are stored without one.
	if code := strings.TrimSpace(b.SelectedPackage()); code != "" {
		if pkg := g.FindOne(ctx, `SELECT id, price FROM inspection_packages WHERE code = ?`, code); pkg.Success {
			booking["package_id"] = pkg.First().Int64("id")
			booking["total_amount"] = pkg.First().Float64("price")
		}
	}

	bookingID, err := insertID(ctx, g, "bookings", booking)
	if err != nil {
		return 0, fmt.Errorf("booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit booking tx: %w", err)
	}
	utils.Event("", "repository", "create_booking").
		WithField("booking_reference", b.BookingID).
		Debugf("booking row %d stored", bookingID)
	return bookingID, nil
}

func findOrInsert(ctx context.Context, g intdb.Gateway, lookup string, args []any, table string, fields intdb.Fields) (int64, error) {
	if found := g.FindOne(ctx, lookup, args...); found.Success {
		return found.First().Int64("id"), nil
	}
	return insertID(ctx, g, table, fields)
}

func insertID(ctx context.Context, g intdb.Gateway, table string, fields intdb.Fields) (int64, error) {
	res := g.Insert(ctx, table, fields)
	if !res.Success {
		return 0, res.Err()
	}
	return res.InsertID, nil
}

func userFields(b models.Booking) intdb.Fields {
	first, last := b.SplitName()
	return intdb.Fields{
		"first_name": first,
		"last_name":  last,
		"email":      b.Email,
		"phone":      b.Phone,
		"role":       "customer",
	}
}

func customerFields(b models.Booking) intdb.Fields {
	return intdb.Fields{
		"address":         b.Address,
		"city":            b.City,
		"state":           b.State,
		"zip_code":        b.ZipCode,
		"alternate_phone": intdb.NullIfEmpty(b.AlternatePhone),
	}
}

func vehicleFields(b models.Booking) intdb.Fields {
	return intdb.Fields{
		"make":          b.CarMake,
		"model":         b.CarModel,
		"year":          b.CarYear,
		"color":         b.CarColor,
		"vin":           intdb.NullIfEmpty(b.VIN),
		"license_plate": b.LicensePlate,
		"mileage":       b.Mileage,
		"fuel_type":     b.FuelType,
		"transmission":  b.Transmission,
	}
}

func bookingFields(b models.Booking) intdb.Fields {
	payment, ok := models.StoredPaymentStatus(b.PaymentStatus)
	if !ok {
		payment = "pending"
	}
	var inspectionDate any
	if t, ok := utils.ParseInspectionDate(b.Date); ok {
		inspectionDate = t
	}
	return intdb.Fields{
		"booking_reference":   b.BookingID,
		"form_id":             intdb.NullIfEmpty(b.FormID),
		"inspection_date":     inspectionDate,
		"time_preference":     b.TimePreference,
		"inspection_purpose":  b.InspectionPurpose,
		"specific_concerns":   intdb.NullIfEmpty(b.SpecificConcerns),
		"previous_accidents":  b.PreviousAccidents,
		"maintenance_history": b.MaintenanceHistory,
		"special_requests":    intdb.NullIfEmpty(b.SpecialRequests),
		"preferred_inspector": intdb.NullIfEmpty(b.PreferredInspector),
		"emergency_contact":   intdb.NullIfEmpty(b.EmergencyContact),
		"emergency_phone":     intdb.NullIfEmpty(b.EmergencyPhone),
		"status":              string(models.StatusPending),
		"payment_status":      payment,
		"transaction_id":      intdb.NullIfEmpty(b.TransactionID),
	}
}
