package models

// BookingStatus is a flat enumeration; any status may follow any other.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusAssigned   BookingStatus = "assigned"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

var bookingStatuses = []BookingStatus{
	StatusPending, StatusConfirmed, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled,
}

func BookingStatuses() []BookingStatus {
	return append([]BookingStatus(nil), bookingStatuses...)
}

func ValidBookingStatus(s string) bool {
	for _, st := range bookingStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Payment states as reported by the booking page.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// StoredPaymentStatus maps a client payment state onto the bookings table
// vocabulary, where a settled payment is "paid".
func StoredPaymentStatus(s string) (string, bool) {
	switch s {
	case PaymentPending:
		return "pending", true
	case PaymentCompleted:
		return "paid", true
	case PaymentFailed:
		return "failed", true
	default:
		return "", false
	}
}
