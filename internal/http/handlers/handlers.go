// Package handlers holds the gin handlers for the booking API and the
// admin dashboards.
package handlers

import (
	"database/sql"

	"autotrust/internal/catalog"
	"autotrust/internal/http/middleware"
	"autotrust/internal/repositories"
	"autotrust/internal/services"

	"github.com/gin-gonic/gin"
)

// Handlers carries the collaborators shared by every request. Bookings and
// DB are nil when no database is configured.
type Handlers struct {
	Intake    *services.IntakeService
	Catalog   *catalog.Catalog
	Cache     *repositories.MemoryStore
	Bookings  *repositories.BookingRepository
	Dashboard repositories.DashboardRepository
	Auth      services.AuthService
	DB        *sql.DB
}

func (h *Handlers) admin(c *gin.Context) services.AdminService {
	var bookings repositories.BookingRepository
	if h.Bookings != nil {
		bookings = *h.Bookings
	}
	return services.AdminService{
		Bookings:  bookings,
		Dashboard: h.Dashboard,
		RequestID: middleware.GetRequestID(c),
	}
}
