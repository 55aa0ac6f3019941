package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autotrust/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeForm() models.Booking {
	return models.Booking{
		Name: "Jane Doe", Email: "a@b.com", Phone: "555-0100",
		CarMake: "Toyota", CarModel: "Camry", CarYear: "2019", CarColor: "Blue",
		Mileage: "45000", VIN: "1HGCM82633A004352", LicensePlate: "ABC123",
		Date: "2025-01-20T10:00", Address: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701",
	}
}

type stubSubmitter struct {
	got []models.Booking
	ack Ack
	err error
}

func (s *stubSubmitter) Submit(_ context.Context, p models.Booking) (Ack, error) {
	s.got = append(s.got, p)
	return s.ack, s.err
}

func TestValidateStep_Messages(t *testing.T) {
	errs := ValidateStep(StepPersonal, models.Booking{Email: "nope"})
	assert.Equal(t, "Full name is required", errs["name"])
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Phone number is required", errs["phone"])

	errs = ValidateStep(StepPersonal, models.Booking{Name: "  "})
	assert.Equal(t, "Email is required", errs["email"])

	errs = ValidateStep(StepVehicle, models.Booking{})
	assert.Len(t, errs, 7)
	assert.Equal(t, "VIN is required", errs["vin"])

	errs = ValidateStep(StepInspection, models.Booking{})
	assert.Equal(t, "ZIP code is required", errs["zipCode"])
	assert.Equal(t, "Inspection date is required", errs["date"])

	assert.Empty(t, ValidateStep(StepAdditional, models.Booking{}))
}

func TestWizard_NextPrev(t *testing.T) {
	w := New("premium")
	assert.False(t, w.Next())
	assert.Equal(t, StepPersonal, w.Step())
	assert.NotEmpty(t, w.Errors())

	w.Form = completeForm()
	require.True(t, w.Next())
	assert.Equal(t, StepVehicle, w.Step())
	assert.Equal(t, "Vehicle Details", w.Step().Title())

	w.Prev()
	w.Prev()
	assert.Equal(t, StepPersonal, w.Step())
}

func TestWizard_SubmitOnlyFromLastStep(t *testing.T) {
	w := New("premium")
	w.Form = completeForm()
	_, err := w.Submit(context.Background(), &stubSubmitter{})
	assert.ErrorIs(t, err, ErrNotFinalStep)
}

func TestWizard_SubmitRevalidatesEarlierSteps(t *testing.T) {
	w := New("premium")
	require.NoError(t, w.Fill(completeForm()))
	require.Equal(t, StepAdditional, w.Step())

	w.Form.VIN = ""
	sub := &stubSubmitter{}
	_, err := w.Submit(context.Background(), sub)
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "VIN is required", fe["vin"])
	assert.Equal(t, StepVehicle, w.Step())
	assert.Empty(t, sub.got)
}

func TestWizard_SubmitEntersPaymentPhase(t *testing.T) {
	w := New("premium")
	w.now = func() time.Time { return time.UnixMilli(1736931600000) }
	w.rand = func() int { return 42 }
	require.NoError(t, w.Fill(completeForm()))

	sub := &stubSubmitter{ack: Ack{Message: "Booking saved and email sent.", BookingID: "ATR-1"}}
	ack, err := w.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "ATR-1", ack.BookingID)
	assert.Equal(t, PhasePayment, w.Phase())
	assert.Equal(t, "ATR-1", w.Reference())

	require.Len(t, sub.got, 1)
	assert.Equal(t, "FORM-1736931600000-42", sub.got[0].FormID)
	assert.Equal(t, "premium", sub.got[0].Package)
	assert.Equal(t, "premium", sub.got[0].PackageType)
}

func TestWizard_RetryKeepsFormID(t *testing.T) {
	w := New("basic")
	require.NoError(t, w.Fill(completeForm()))
	sub := &stubSubmitter{err: errors.New("boom")}
	_, err := w.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.Equal(t, PhaseForm, w.Phase())

	sub.err = nil
	_, err = w.Submit(context.Background(), sub)
	require.NoError(t, err)
	require.Len(t, sub.got, 2)
	assert.Equal(t, sub.got[0].FormID, sub.got[1].FormID)
}

func TestHTTPSubmitter(t *testing.T) {
	var got map[string]any
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookings", r.URL.Path)
		key = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Booking saved and email sent.","bookingId":"ATR-2"}`))
	}))
	defer srv.Close()

	sub := NewHTTPSubmitter(srv.URL + "/api/")
	p := completeForm()
	p.FormID = "FORM-1-2"
	ack, err := sub.Submit(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "ATR-2", ack.BookingID)
	assert.Equal(t, "FORM-1-2", key)
	assert.Equal(t, "Jane Doe", got["name"])
}

func TestHTTPSubmitter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Error saving booking","request_id":"req-9"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPSubmitter(srv.URL).Submit(context.Background(), completeForm())
	var se *SubmitError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 500, se.StatusCode)
	assert.Equal(t, "Error saving booking", se.Message)
	assert.Equal(t, "req-9", se.RequestID)
}

func TestParseForm(t *testing.T) {
	b, err := ParseForm([]byte("name: Jane Doe\nemail: a@b.com\ncarYear: 2019\nmileage: 45000\n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", b.Name)
	assert.Equal(t, "2019", b.CarYear)
	assert.Equal(t, "45000", b.Mileage)
}
