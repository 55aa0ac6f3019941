package sheets

import "autotrust/internal/domain/models"

// Header names the columns in the order BookingRow emits them.
var Header = []string{
	"Name", "Email", "Phone", "Alternate Phone",
	"Car Make", "Car Model", "Car Color", "Car Year",
	"Address", "City", "State", "ZIP Code",
	"License Plate", "VIN", "Transmission", "Fuel Type", "Mileage",
	"Maintenance History", "Previous Accidents", "Inspection Purpose",
	"Preferred Inspector", "Time Preference", "Special Requests", "Specific Concerns",
	"Emergency Contact", "Package Type", "Date", "Payment Status", "Transaction ID",
	"Package",
}

// RowWidth is the fixed number of cells per appended row.
var RowWidth = len(Header)

// BookingRow flattens b into one spreadsheet row. Absent values are
// written as empty strings, never left out.
func BookingRow(b models.Booking) []any {
	cells := []string{
		b.Name,
		b.Email,
		b.Phone,
		b.AlternatePhone,
		b.CarMake,
		b.CarModel,
		b.CarColor,
		b.CarYear,
		b.Address,
		b.City,
		b.State,
		b.ZipCode,
		b.LicensePlate,
		b.VIN,
		b.Transmission,
		b.FuelType,
		b.Mileage,
		b.MaintenanceHistory,
		b.PreviousAccidents,
		b.InspectionPurpose,
		b.PreferredInspector,
		b.TimePreference,
		b.SpecialRequests,
		b.SpecificConcerns,
		b.EmergencyContact,
		b.SelectedPackage(),
		b.Date,
		b.PaymentStatus,
		b.TransactionID,
		b.PackageCopy(),
	}
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
