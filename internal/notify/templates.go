package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"autotrust/internal/domain/models"
	"autotrust/internal/utils"
)

// BookingMail is the data both booking templates render.
type BookingMail struct {
	Booking        models.Booking
	PackageName    string
	PackagePrice   float64
	PaymentLink    string
	SpreadsheetURL string
}

type detail struct {
	Label string
	Value string
}

func (d BookingMail) Vehicle() string { return d.Booking.VehicleDescription() }

func (d BookingMail) When() string {
	when := utils.HumanDate(d.Booking.Date)
	if p := d.Booking.TimePreference; p != "" {
		when += " (" + p + ")"
	}
	return strings.TrimSpace(when)
}

func (d BookingMail) Price() string {
	if d.PackagePrice <= 0 {
		return ""
	}
	return utils.FormatUSD(d.PackagePrice)
}

func (d BookingMail) Location() string {
	b := d.Booking
	parts := []string{}
	for _, p := range []string{b.Address, b.City, strings.TrimSpace(b.State + " " + b.ZipCode)} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Details lists every submitted field for the admin alert.
func (d BookingMail) Details() []detail {
	b := d.Booking
	return []detail{
		{"Booking reference", b.BookingID},
		{"Form id", b.FormID},
		{"Name", b.Name},
		{"Email", b.Email},
		{"Phone", b.Phone},
		{"Alternate phone", b.AlternatePhone},
		{"Vehicle", d.Vehicle()},
		{"Color", b.CarColor},
		{"VIN", b.VIN},
		{"License plate", b.LicensePlate},
		{"Mileage", b.Mileage},
		{"Fuel type", b.FuelType},
		{"Transmission", b.Transmission},
		{"Address", d.Location()},
		{"Date", b.Date},
		{"Time preference", b.TimePreference},
		{"Package", b.SelectedPackage()},
		{"Inspection purpose", b.InspectionPurpose},
		{"Specific concerns", b.SpecificConcerns},
		{"Previous accidents", b.PreviousAccidents},
		{"Maintenance history", b.MaintenanceHistory},
		{"Special requests", b.SpecialRequests},
		{"Preferred inspector", b.PreferredInspector},
		{"Emergency contact", b.EmergencyContact},
		{"Emergency phone", b.EmergencyPhone},
		{"Payment status", b.PaymentStatus},
		{"Transaction id", b.TransactionID},
	}
}

var customerText = texttemplate.Must(texttemplate.New("customer").Parse(`Hi {{.Booking.Name}},

Thank you for booking with AutoTrust! We have received your inspection request.

Booking reference: {{.Booking.BookingID}}
Vehicle: {{.Vehicle}}
Package: {{.PackageName}}{{with .Price}} ({{.}}){{end}}
When: {{.When}}
Where: {{.Location}}

{{if .PaymentLink}}Complete your payment here: {{.PaymentLink}}
{{else}}You can complete your payment on the booking page.
{{end}}
We will contact you at {{.Booking.Phone}} to confirm the appointment.

AutoTrust Inspections
`))

var customerHTML = htmltemplate.Must(htmltemplate.New("customer").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#111827">
<h2 style="color:#2563eb">Booking Confirmation</h2>
<p>Hi {{.Booking.Name}},</p>
<p>Thank you for booking with AutoTrust! We have received your inspection request.</p>
<table cellpadding="6" style="border-collapse:collapse">
<tr><td><strong>Booking reference</strong></td><td>{{.Booking.BookingID}}</td></tr>
<tr><td><strong>Vehicle</strong></td><td>{{.Vehicle}}</td></tr>
<tr><td><strong>Package</strong></td><td>{{.PackageName}}{{with .Price}} ({{.}}){{end}}</td></tr>
<tr><td><strong>When</strong></td><td>{{.When}}</td></tr>
<tr><td><strong>Where</strong></td><td>{{.Location}}</td></tr>
</table>
{{if .PaymentLink}}<p><a href="{{.PaymentLink}}" style="background:#2563eb;color:#fff;padding:10px 16px;border-radius:6px;text-decoration:none">Complete payment</a></p>
{{else}}<p>You can complete your payment on the booking page.</p>
{{end}}<p>We will contact you at {{.Booking.Phone}} to confirm the appointment.</p>
<p>AutoTrust Inspections</p>
</body></html>
`))

var adminText = texttemplate.Must(texttemplate.New("admin").Parse(`New inspection booking received.

{{range .Details}}{{.Label}}: {{.Value}}
{{end}}{{if .SpreadsheetURL}}
Spreadsheet: {{.SpreadsheetURL}}
{{end}}`))

var adminHTML = htmltemplate.Must(htmltemplate.New("admin").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#111827">
<h2>New inspection booking: {{.Booking.BookingID}}</h2>
<p>{{.Booking.Name}} booked a {{.Booking.SelectedPackage}} inspection for a {{.Vehicle}}.</p>
<table border="1" cellpadding="4" style="border-collapse:collapse">
{{range .Details}}<tr><th align="left">{{.Label}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
{{if .SpreadsheetURL}}<p><a href="{{.SpreadsheetURL}}">Open the bookings spreadsheet</a></p>{{end}}
</body></html>
`))

// CustomerConfirmation is sent to the person who booked.
func CustomerConfirmation(d BookingMail) (Message, error) {
	text, html, err := render(customerText, customerHTML, d)
	if err != nil {
		return Message{}, fmt.Errorf("render customer confirmation: %w", err)
	}
	return Message{To: d.Booking.Email, Subject: "Booking Confirmation", Text: text, HTML: html}, nil
}

// AdminAlert is the internal notice with the full booking.
func AdminAlert(to string, d BookingMail) (Message, error) {
	text, html, err := render(adminText, adminHTML, d)
	if err != nil {
		return Message{}, fmt.Errorf("render admin alert: %w", err)
	}
	subject := "New inspection booking"
	if d.Booking.BookingID != "" {
		subject += ": " + d.Booking.BookingID
	}
	return Message{To: to, Subject: subject, Text: text, HTML: html}, nil
}

func render(text *texttemplate.Template, html *htmltemplate.Template, d BookingMail) (string, string, error) {
	var tb, hb bytes.Buffer
	if err := text.Execute(&tb, d); err != nil {
		return "", "", err
	}
	if err := html.Execute(&hb, d); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}
