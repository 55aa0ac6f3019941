package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"autotrust/internal/domain/models"
	"autotrust/internal/http/middleware"
	"autotrust/internal/services"
	"autotrust/internal/wizard"

	"github.com/gin-gonic/gin"
)

const maxBookingBody = 1 << 20

// readBooking accepts any JSON object; field types are coerced to strings.
func readBooking(c *gin.Context) (models.Booking, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBookingBody))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "Invalid booking payload")
		return models.Booking{}, false
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "Invalid booking payload")
		return models.Booking{}, false
	}
	b, err := models.BookingFromMap(body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "Invalid booking payload")
		return models.Booking{}, false
	}
	return b, true
}

// POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	b, ok := readBooking(c)
	if !ok {
		return
	}
	reqID := middleware.GetRequestID(c)
	res, err := h.Intake.Submit(c.Request.Context(), reqID, c.GetHeader("Idempotency-Key"), b)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":    "Error saving booking",
			"request_id": reqID,
			"bookingId":  res.BookingID,
			"steps":      res.Steps,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Booking saved and email sent.",
		"bookingId": res.BookingID,
		"steps":     res.Steps,
	})
}

// GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Intake.Bookings())
}

// POST /api/bookings/validate?step=N runs the form rules for one step, or
// for all of them when step is absent.
func (h *Handlers) ValidateBooking(c *gin.Context) {
	steps := []wizard.Step{wizard.StepPersonal, wizard.StepVehicle, wizard.StepInspection, wizard.StepAdditional}
	if raw := strings.TrimSpace(c.Query("step")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !wizard.Step(n).Valid() {
			respondError(c, http.StatusBadRequest, "invalid_step", "Invalid step")
			return
		}
		steps = []wizard.Step{wizard.Step(n)}
	}
	b, ok := readBooking(c)
	if !ok {
		return
	}
	errs := wizard.FieldErrors{}
	for _, s := range steps {
		for k, v := range wizard.ValidateStep(s, b) {
			errs[k] = v
		}
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(errs) == 0, "errors": errs})
}

// GET /api/bookings/:ref/receipt
func (h *Handlers) BookingReceipt(c *gin.Context) {
	svc := services.ReceiptService{
		Cache:     h.Cache,
		Repo:      h.Bookings,
		Catalog:   h.Catalog,
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.Generate(c.Request.Context(), c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// PUT /api/bookings/:ref/payment
func (h *Handlers) UpdatePayment(c *gin.Context) {
	var in services.PaymentUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "Invalid payment payload")
		return
	}
	svc := services.PaymentService{
		Cache:     h.Cache,
		Repo:      h.Bookings,
		RequestID: middleware.GetRequestID(c),
	}
	if err := svc.Update(c.Request.Context(), c.Param("ref"), in); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated", "status": in.Status})
}
