package models

import (
	"strings"
	"time"
)

// Booking is one inspection request as submitted by the booking form.
type Booking struct {
	BookingID string    `json:"bookingId,omitempty"`
	FormID    string    `json:"formId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	// personal
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	AlternatePhone string `json:"alternatePhone,omitempty"`

	// vehicle
	CarMake      string `json:"carMake"`
	CarModel     string `json:"carModel"`
	CarYear      string `json:"carYear"`
	CarColor     string `json:"carColor"`
	Mileage      string `json:"mileage"`
	VIN          string `json:"vin"`
	LicensePlate string `json:"licensePlate"`
	FuelType     string `json:"fuelType"`
	Transmission string `json:"transmission"`

	// inspection details
	Date           string `json:"date"`
	TimePreference string `json:"timePreference"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zipCode"`
	PackageType    string `json:"packageType"`
	Package        string `json:"package,omitempty"`

	// purpose
	InspectionPurpose  string `json:"inspectionPurpose"`
	SpecificConcerns   string `json:"specificConcerns,omitempty"`
	PreviousAccidents  string `json:"previousAccidents"`
	MaintenanceHistory string `json:"maintenanceHistory"`

	// special requirements
	SpecialRequests    string `json:"specialRequests,omitempty"`
	PreferredInspector string `json:"preferredInspector,omitempty"`
	EmergencyContact   string `json:"emergencyContact,omitempty"`
	EmergencyPhone     string `json:"emergencyPhone,omitempty"`

	PaymentStatus string `json:"paymentStatus"`
	TransactionID string `json:"transactionId,omitempty"`
}

// SelectedPackage is packageType, falling back to the wizard's package copy.
func (b Booking) SelectedPackage() string {
	if p := strings.TrimSpace(b.PackageType); p != "" {
		return p
	}
	return strings.TrimSpace(b.Package)
}

// PackageCopy is the package id recorded in the last spreadsheet column.
func (b Booking) PackageCopy() string {
	if p := strings.TrimSpace(b.Package); p != "" {
		return p
	}
	return strings.TrimSpace(b.PackageType)
}

// VehicleDescription renders "year make model", skipping blanks.
func (b Booking) VehicleDescription() string {
	return strings.Join(strings.Fields(strings.Join([]string{b.CarYear, b.CarMake, b.CarModel}, " ")), " ")
}

// SplitName splits the full name into first and last name for the users table.
func (b Booking) SplitName() (first, last string) {
	parts := strings.Fields(b.Name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
