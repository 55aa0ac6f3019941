package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	intdb "autotrust/internal/db"
)

// BookingsCSV renders rows with a header of the raw column names in the
// order the first row carries them. An empty result is an empty body.
func BookingsCSV(res intdb.Result) ([]byte, error) {
	if len(res.Data) == 0 {
		return []byte{}, nil
	}
	cols := res.Columns
	if len(cols) == 0 {
		for k := range res.Data[0] {
			cols = append(cols, k)
		}
		sort.Strings(cols)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return nil, err
	}
	record := make([]string, len(cols))
	for _, row := range res.Data {
		for i, c := range cols {
			record[i] = csvValue(row[c])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func csvValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
