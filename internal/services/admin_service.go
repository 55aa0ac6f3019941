package services

import (
	"context"
	"strings"

	intdb "autotrust/internal/db"
	"autotrust/internal/domain"
	"autotrust/internal/domain/models"
	"autotrust/internal/repositories"
	"autotrust/internal/utils"
)

// AdminService backs the admin, business and schedule dashboards.
type AdminService struct {
	Bookings  repositories.BookingRepository
	Dashboard repositories.DashboardRepository
	RequestID string
}

// BookingPage is one page of the admin bookings list.
type BookingPage struct {
	Bookings   []intdb.Row       `json:"bookings"`
	Pagination domain.Pagination `json:"pagination"`
}

func (s AdminService) Stats(ctx context.Context) models.DashboardStats {
	return s.Dashboard.Stats(ctx)
}

func (s AdminService) ListBookings(ctx context.Context, page, limit int, status, search string) (BookingPage, error) {
	p := domain.NormalizePagination(page, limit)
	rows, count := s.Bookings.ListBookings(ctx, repositories.ListFilter{
		Page:   p.Page,
		Limit:  p.Limit,
		Status: strings.TrimSpace(status),
		Search: strings.TrimSpace(search),
	})
	if !rows.Success {
		return BookingPage{}, domain.UpstreamError{Service: "database", Err: rows.Err()}
	}
	if count.Success {
		p.Total = int(count.First().Int64("total"))
	}
	out := BookingPage{Bookings: rows.Data, Pagination: p}
	if out.Bookings == nil {
		out.Bookings = []intdb.Row{}
	}
	return out, nil
}

func (s AdminService) GetBooking(ctx context.Context, ref string) (intdb.Row, error) {
	found := s.Bookings.FindBookingByReference(ctx, strings.TrimSpace(ref))
	if !found.Success {
		return nil, domain.NotFoundError{Resource: "booking", Err: found.Err()}
	}
	return found.First(), nil
}

// UpdateStatus accepts any of the six statuses from any current status.
// An update that matches no row still succeeds.
func (s AdminService) UpdateStatus(ctx context.Context, id, status string) error {
	if !models.ValidBookingStatus(status) {
		return domain.ValidationError{Field: "status", Msg: "Invalid status"}
	}
	res := s.Bookings.UpdateBookingStatus(ctx, id, models.BookingStatus(status))
	if !res.Success {
		return domain.UpstreamError{Service: "database", Err: res.Err()}
	}
	utils.Event(s.RequestID, "admin", "update_status").
		WithField("affected_rows", res.AffectedRows).
		Infof("%s -> %s", id, status)
	return nil
}

func (s AdminService) Revenue(ctx context.Context, period string) ([]models.RevenuePoint, error) {
	points, err := s.Dashboard.Revenue(ctx, models.ParseRevenuePeriod(strings.TrimSpace(period)))
	if err != nil {
		return nil, domain.UpstreamError{Service: "database", Err: err}
	}
	return points, nil
}

func (s AdminService) PackagePerformance(ctx context.Context) ([]models.PackagePerformance, error) {
	perf, err := s.Dashboard.PackagePerformance(ctx)
	if err != nil {
		return nil, domain.UpstreamError{Service: "database", Err: err}
	}
	return perf, nil
}

// Schedule lists the bookings for date (YYYY-MM-DD), today when empty.
func (s AdminService) Schedule(ctx context.Context, date string) ([]intdb.Row, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = utils.FormatDate(utils.NowUTC())
	} else if _, err := utils.ParseDate(date); err != nil {
		return nil, domain.ValidationError{Field: "date", Msg: "Invalid date, expected YYYY-MM-DD", Err: err}
	}
	res := s.Bookings.ListBookingsByDate(ctx, date)
	if !res.Success {
		return nil, domain.UpstreamError{Service: "database", Err: res.Err()}
	}
	if res.Data == nil {
		return []intdb.Row{}, nil
	}
	return res.Data, nil
}

// ExportBookings returns every booking for the export endpoint.
func (s AdminService) ExportBookings(ctx context.Context) (intdb.Result, error) {
	res := s.Bookings.ListAllBookings(ctx)
	if !res.Success {
		return res, domain.UpstreamError{Service: "database", Err: res.Err()}
	}
	return res, nil
}
