package wizard

import (
	"fmt"
	"os"

	"autotrust/internal/domain/models"

	"gopkg.in/yaml.v3"
)

// LoadForm reads a booking form from a YAML file whose keys are the JSON
// field names (name, email, carMake, ...).
func LoadForm(path string) (models.Booking, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Booking{}, fmt.Errorf("read form file: %w", err)
	}
	return ParseForm(raw)
}

func ParseForm(raw []byte) (models.Booking, error) {
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return models.Booking{}, fmt.Errorf("parse form file: %w", err)
	}
	return models.BookingFromMap(m)
}

// Fill walks the wizard through every step with b, stopping at the first
// step that does not validate.
func (w *Wizard) Fill(b models.Booking) error {
	w.Form = b
	for w.step < lastStep {
		if !w.Next() {
			return w.errors
		}
	}
	return nil
}
