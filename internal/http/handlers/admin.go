package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	intdb "autotrust/internal/db"
	"autotrust/internal/services"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /admin/login
func (h *Handlers) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		adminFail(c, http.StatusBadRequest, "Invalid login payload")
		return
	}
	token, exp, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			adminFail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		adminError(c, err)
		return
	}
	adminOK(c, gin.H{"token": token, "expiresAt": exp})
}

// GET /admin/dashboard
func (h *Handlers) AdminDashboard(c *gin.Context) {
	adminOK(c, h.admin(c).Stats(c.Request.Context()))
}

// GET /admin/bookings?page=&limit=&status=&search=
func (h *Handlers) AdminListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	out, err := h.admin(c).ListBookings(c.Request.Context(), page, limit, c.Query("status"), c.Query("search"))
	if err != nil {
		adminError(c, err)
		return
	}
	adminOK(c, out)
}

// GET /admin/bookings/:id
func (h *Handlers) AdminGetBooking(c *gin.Context) {
	row, err := h.admin(c).GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		adminError(c, err)
		return
	}
	adminOK(c, row)
}

type statusRequest struct {
	Status string `json:"status"`
}

// PUT /admin/bookings/:id/status
func (h *Handlers) AdminUpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		adminFail(c, http.StatusBadRequest, "Invalid status")
		return
	}
	if err := h.admin(c).UpdateStatus(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Status)); err != nil {
		adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking status updated"})
}

// GET /admin/analytics/revenue?period=day|week|month|year
func (h *Handlers) AdminRevenue(c *gin.Context) {
	points, err := h.admin(c).Revenue(c.Request.Context(), c.Query("period"))
	if err != nil {
		adminError(c, err)
		return
	}
	adminOK(c, points)
}

// GET /admin/analytics/packages
func (h *Handlers) AdminPackagePerformance(c *gin.Context) {
	perf, err := h.admin(c).PackagePerformance(c.Request.Context())
	if err != nil {
		adminError(c, err)
		return
	}
	adminOK(c, perf)
}

// GET /admin/schedule?date=YYYY-MM-DD
func (h *Handlers) AdminSchedule(c *gin.Context) {
	rows, err := h.admin(c).Schedule(c.Request.Context(), c.Query("date"))
	if err != nil {
		adminError(c, err)
		return
	}
	adminOK(c, rows)
}

// GET /admin/export/bookings?format=json|csv
func (h *Handlers) AdminExportBookings(c *gin.Context) {
	res, err := h.admin(c).ExportBookings(c.Request.Context())
	if err != nil {
		adminError(c, err)
		return
	}
	if strings.EqualFold(c.Query("format"), "csv") {
		body, err := services.BookingsCSV(res)
		if err != nil {
			adminError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=bookings.csv")
		c.Data(http.StatusOK, "text/csv", body)
		return
	}
	data := res.Data
	if data == nil {
		data = []intdb.Row{}
	}
	adminOK(c, data)
}
