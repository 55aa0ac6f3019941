package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// BookingFromMap builds a Booking from a loosely typed object such as a
// decoded JSON or YAML document. Numbers and booleans become strings,
// nulls become "", nested objects are ignored. createdAt is server-owned
// and dropped.
func BookingFromMap(m map[string]any) (Booking, error) {
	clean := make(map[string]any, len(m))
	for k, v := range m {
		if k == "createdAt" {
			continue
		}
		switch t := v.(type) {
		case nil:
			clean[k] = ""
		case string:
			clean[k] = t
		case bool:
			clean[k] = strconv.FormatBool(t)
		case float64:
			clean[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case json.Number:
			clean[k] = t.String()
		case int, int64, uint64:
			clean[k] = fmt.Sprint(t)
		}
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return Booking{}, fmt.Errorf("encode booking fields: %w", err)
	}
	var b Booking
	if err := json.Unmarshal(raw, &b); err != nil {
		return Booking{}, fmt.Errorf("decode booking fields: %w", err)
	}
	return b, nil
}
