package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	intconfig "autotrust/internal/config"
	intdb "autotrust/internal/db"
	"autotrust/internal/domain/models"
	"autotrust/internal/utils"
)

// DashboardRepository computes the admin/business rollups on demand.
type DashboardRepository struct {
	DB      *sql.DB
	Timeout time.Duration
}

func (r DashboardRepository) gateway() intdb.Gateway {
	if r.DB != nil {
		return intdb.New(r.DB, r.Timeout)
	}
	return intdb.New(intconfig.DB, r.Timeout)
}

const (
	qTotalBookings     = `SELECT COUNT(*) AS count FROM bookings`
	qTotalRevenue      = `SELECT SUM(total_amount) AS total FROM bookings WHERE payment_status = 'paid'`
	qCompletedBookings = `SELECT COUNT(*) AS count FROM bookings WHERE status = 'completed'`
	qPendingBookings   = `SELECT COUNT(*) AS count FROM bookings WHERE status IN ('pending', 'confirmed')`
	qMonthlyRevenue    = `
		SELECT SUM(total_amount) AS total
		FROM bookings
		WHERE payment_status = 'paid'
		  AND MONTH(created_at) = MONTH(CURRENT_DATE())
		  AND YEAR(created_at) = YEAR(CURRENT_DATE())`
	qRecentBookings = `SELECT * FROM booking_summary ORDER BY created_at DESC LIMIT 10`
)

// Stats runs each aggregate independently. A failing query leaves its
// figure at zero instead of failing the whole dashboard.
func (r DashboardRepository) Stats(ctx context.Context) models.DashboardStats {
	g := r.gateway()
	stats := models.DashboardStats{RecentBookings: []map[string]any{}}

	if res := g.Execute(ctx, qTotalBookings); res.Success && res.First() != nil {
		stats.TotalBookings = res.First().Int64("count")
	}
	if res := g.Execute(ctx, qTotalRevenue); res.Success && res.First() != nil {
		stats.TotalRevenue = res.First().Float64("total")
	}
	if res := g.Execute(ctx, qCompletedBookings); res.Success && res.First() != nil {
		stats.CompletedBookings = res.First().Int64("count")
	}
	if res := g.Execute(ctx, qPendingBookings); res.Success && res.First() != nil {
		stats.PendingBookings = res.First().Int64("count")
	}
	if res := g.Execute(ctx, qMonthlyRevenue); res.Success && res.First() != nil {
		stats.MonthlyRevenue = res.First().Float64("total")
	}
	if res := g.Execute(ctx, qRecentBookings); res.Success {
		for _, row := range res.Data {
			stats.RecentBookings = append(stats.RecentBookings, map[string]any(row))
		}
	}
	return stats
}

var revenueQueries = map[models.RevenuePeriod]string{
	models.PeriodDay: `
		SELECT DATE_FORMAT(created_at, '%Y-%m-%d') AS period, SUM(total_amount) AS revenue, COUNT(*) AS bookings
		FROM bookings
		WHERE payment_status = 'paid'
		  AND created_at >= DATE_SUB(CURRENT_DATE(), INTERVAL 30 DAY)
		GROUP BY DATE_FORMAT(created_at, '%Y-%m-%d')
		ORDER BY period DESC`,
	models.PeriodWeek: `
		SELECT YEARWEEK(created_at) AS period, SUM(total_amount) AS revenue, COUNT(*) AS bookings
		FROM bookings
		WHERE payment_status = 'paid'
		  AND created_at >= DATE_SUB(CURRENT_DATE(), INTERVAL 12 WEEK)
		GROUP BY YEARWEEK(created_at)
		ORDER BY period DESC`,
	models.PeriodMonth: `
		SELECT DATE_FORMAT(created_at, '%Y-%m') AS period, SUM(total_amount) AS revenue, COUNT(*) AS bookings
		FROM bookings
		WHERE payment_status = 'paid'
		  AND created_at >= DATE_SUB(CURRENT_DATE(), INTERVAL 12 MONTH)
		GROUP BY DATE_FORMAT(created_at, '%Y-%m')
		ORDER BY period DESC`,
	models.PeriodYear: `
		SELECT YEAR(created_at) AS period, SUM(total_amount) AS revenue, COUNT(*) AS bookings
		FROM bookings
		WHERE payment_status = 'paid'
		GROUP BY YEAR(created_at)
		ORDER BY period DESC`,
}

// Revenue returns paid revenue grouped by period, newest bucket first.
func (r DashboardRepository) Revenue(ctx context.Context, period models.RevenuePeriod) ([]models.RevenuePoint, error) {
	query, ok := revenueQueries[period]
	if !ok {
		query = revenueQueries[models.PeriodYear]
	}
	res := r.gateway().Execute(ctx, query)
	if !res.Success {
		return nil, fmt.Errorf("revenue by %s: %w", period, res.Err())
	}
	out := make([]models.RevenuePoint, 0, len(res.Data))
	for _, row := range res.Data {
		out = append(out, models.RevenuePoint{
			Period:   row.String("period"),
			Revenue:  row.Float64("revenue"),
			Bookings: row.Int64("bookings"),
		})
	}
	return out, nil
}

const qPackagePerformance = `
	SELECT p.code AS code, p.name AS name, COUNT(b.id) AS bookings,
	       COALESCE(SUM(CASE WHEN b.payment_status = 'paid' THEN b.total_amount ELSE 0 END), 0) AS revenue
	FROM bookings b
	JOIN inspection_packages p ON b.package_id = p.id
	GROUP BY p.code, p.name
	ORDER BY bookings DESC`

// PackagePerformance breaks bookings and paid revenue down by package.
// Percentage is the package's share of all bookings.
func (r DashboardRepository) PackagePerformance(ctx context.Context) ([]models.PackagePerformance, error) {
	res := r.gateway().Execute(ctx, qPackagePerformance)
	if !res.Success {
		return nil, fmt.Errorf("package performance: %w", res.Err())
	}
	var total int64
	out := make([]models.PackagePerformance, 0, len(res.Data))
	for _, row := range res.Data {
		p := models.PackagePerformance{
			Code:     row.String("code"),
			Name:     row.String("name"),
			Bookings: row.Int64("bookings"),
			Revenue:  row.Float64("revenue"),
		}
		total += p.Bookings
		out = append(out, p)
	}
	if total > 0 {
		for i := range out {
			out[i].Percentage = int(math.Round(float64(out[i].Bookings) * 100 / float64(total)))
		}
	}
	utils.Event("", "dashboard", "package_performance").Debugf("%d packages, %d bookings", len(out), total)
	return out, nil
}
