// Package wizard drives the four-step booking form and submits it.
package wizard

import (
	"fmt"
	"regexp"
	"strings"

	"autotrust/internal/domain/models"
)

// Step is a 1-based form page.
type Step int

const (
	StepPersonal Step = iota + 1
	StepVehicle
	StepInspection
	StepAdditional
)

const lastStep = StepAdditional

var stepTitles = map[Step]string{
	StepPersonal:   "Personal Info",
	StepVehicle:    "Vehicle Details",
	StepInspection: "Inspection Details",
	StepAdditional: "Additional Info",
}

func (s Step) Title() string { return stepTitles[s] }

func (s Step) Valid() bool { return s >= StepPersonal && s <= lastStep }

// FieldErrors maps a form field (its JSON name) to a message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range sortedFields(e) {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return strings.Join(parts, "; ")
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

type rule struct {
	field string
	value func(models.Booking) string
	msg   string
}

var stepRules = map[Step][]rule{
	StepPersonal: {
		{"name", func(b models.Booking) string { return b.Name }, "Full name is required"},
		{"email", func(b models.Booking) string { return b.Email }, "Email is required"},
		{"phone", func(b models.Booking) string { return b.Phone }, "Phone number is required"},
	},
	StepVehicle: {
		{"carMake", func(b models.Booking) string { return b.CarMake }, "Car make is required"},
		{"carModel", func(b models.Booking) string { return b.CarModel }, "Car model is required"},
		{"carYear", func(b models.Booking) string { return b.CarYear }, "Car year is required"},
		{"carColor", func(b models.Booking) string { return b.CarColor }, "Car color is required"},
		{"mileage", func(b models.Booking) string { return b.Mileage }, "Mileage is required"},
		{"vin", func(b models.Booking) string { return b.VIN }, "VIN is required"},
		{"licensePlate", func(b models.Booking) string { return b.LicensePlate }, "License plate is required"},
	},
	StepInspection: {
		{"date", func(b models.Booking) string { return b.Date }, "Inspection date is required"},
		{"address", func(b models.Booking) string { return b.Address }, "Address is required"},
		{"city", func(b models.Booking) string { return b.City }, "City is required"},
		{"state", func(b models.Booking) string { return b.State }, "State is required"},
		{"zipCode", func(b models.Booking) string { return b.ZipCode }, "ZIP code is required"},
	},
}

// ValidateStep checks the fields owned by step. The additional-info page
// has no required fields.
func ValidateStep(step Step, b models.Booking) FieldErrors {
	errs := FieldErrors{}
	for _, r := range stepRules[step] {
		if strings.TrimSpace(r.value(b)) == "" {
			errs[r.field] = r.msg
		}
	}
	if step == StepPersonal {
		if _, missing := errs["email"]; !missing && !emailPattern.MatchString(b.Email) {
			errs["email"] = "Invalid email format"
		}
	}
	return errs
}

func sortedFields(e FieldErrors) []string {
	var out []string
	for _, rules := range [][]rule{stepRules[StepPersonal], stepRules[StepVehicle], stepRules[StepInspection]} {
		for _, r := range rules {
			if _, ok := e[r.field]; ok {
				out = append(out, r.field)
			}
		}
	}
	return out
}
