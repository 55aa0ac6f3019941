package api

import (
	stdhttp "net/http"

	h "autotrust/internal/http/handlers"
	"autotrust/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RouterOptions are the router-level settings taken from the environment.
type RouterOptions struct {
	CORSOrigins []string
	// AdminEnabled mounts the admin routes; they need a database.
	AdminEnabled bool
}

func NewRouter(hs *h.Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(opts.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logrus.WithError(err).Warn("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"message": "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", hs.DBCheck)
		api.GET("/routes", h.Routes)

		bookings := api.Group("/bookings")
		bookings.POST("", hs.CreateBooking)
		bookings.GET("", hs.ListBookings)
		bookings.POST("/validate", hs.ValidateBooking)
		bookings.GET("/:ref/receipt", hs.BookingReceipt)
		bookings.PUT("/:ref/payment", hs.UpdatePayment)

		api.GET("/package/:type", hs.GetPackageQuote)
		api.GET("/packages", hs.ListPackages)

		if opts.AdminEnabled {
			mountAdmin(api.Group("/admin"), hs)
		}
	}
	if opts.AdminEnabled {
		mountAdmin(r.Group("/admin"), hs)
	}

	h.SetRouter(r)
	return r
}

func mountAdmin(g *gin.RouterGroup, hs *h.Handlers) {
	g.POST("/login", hs.AdminLogin)

	secured := g.Group("", middleware.AdminAuth(hs.Auth))
	secured.GET("/dashboard", hs.AdminDashboard)
	secured.GET("/bookings", hs.AdminListBookings)
	secured.GET("/bookings/:id", hs.AdminGetBooking)
	secured.PUT("/bookings/:id/status", hs.AdminUpdateStatus)
	secured.GET("/analytics/revenue", hs.AdminRevenue)
	secured.GET("/analytics/packages", hs.AdminPackagePerformance)
	secured.GET("/schedule", hs.AdminSchedule)
	secured.GET("/export/bookings", hs.AdminExportBookings)
}
