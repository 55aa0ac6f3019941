package models

// DashboardStats is recomputed on every request from the bookings table.
type DashboardStats struct {
	TotalBookings     int64            `json:"totalBookings"`
	TotalRevenue      float64          `json:"totalRevenue"`
	CompletedBookings int64            `json:"completedBookings"`
	PendingBookings   int64            `json:"pendingBookings"`
	MonthlyRevenue    float64          `json:"monthlyRevenue"`
	RecentBookings    []map[string]any `json:"recentBookings"`
}

// RevenuePoint is one bucket of the revenue series. Period holds the
// date, YEARWEEK, YYYY-MM or year depending on the requested granularity.
type RevenuePoint struct {
	Period   string  `json:"period"`
	Revenue  float64 `json:"revenue"`
	Bookings int64   `json:"bookings"`
}

// PackagePerformance backs the business dashboard's package breakdown.
type PackagePerformance struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Bookings   int64   `json:"bookings"`
	Revenue    float64 `json:"revenue"`
	Percentage int     `json:"percentage"`
}

// RevenuePeriod selects the revenue grouping.
type RevenuePeriod string

const (
	PeriodDay   RevenuePeriod = "day"
	PeriodWeek  RevenuePeriod = "week"
	PeriodMonth RevenuePeriod = "month"
	PeriodYear  RevenuePeriod = "year"
)

// ParseRevenuePeriod defaults to month; anything unrecognized groups by year.
func ParseRevenuePeriod(s string) RevenuePeriod {
	switch RevenuePeriod(s) {
	case "":
		return PeriodMonth
	case PeriodDay, PeriodWeek, PeriodMonth:
		return RevenuePeriod(s)
	default:
		return PeriodYear
	}
}
