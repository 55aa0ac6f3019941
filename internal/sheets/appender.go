// Package sheets appends booking rows to a Google spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"net/http"

	intconfig "autotrust/internal/config"
	"autotrust/internal/domain/models"
	"autotrust/internal/utils"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// RowAppender is what the intake pipeline needs from a spreadsheet.
type RowAppender interface {
	AppendBooking(ctx context.Context, b models.Booking) error
}

// Appender writes one row per call via the Sheets values.append API.
// It never deduplicates: every call adds a row.
type Appender struct {
	service       *gsheets.Service
	spreadsheetID string
	tab           string
}

// NewAppender authenticates once with the service account and keeps the client.
func NewAppender(ctx context.Context, sa intconfig.ServiceAccount, spreadsheetID, tab string) (*Appender, error) {
	jwtCfg, err := google.JWTConfigFromJSON(sa.JSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("load %s service account: %w", sa.Kind, err)
	}
	return newAppender(ctx, spreadsheetID, tab, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
}

// NewAppenderWithClient talks to endpoint with a preconfigured HTTP client.
func NewAppenderWithClient(ctx context.Context, client *http.Client, endpoint, spreadsheetID, tab string) (*Appender, error) {
	return newAppender(ctx, spreadsheetID, tab, option.WithHTTPClient(client), option.WithEndpoint(endpoint))
}

func newAppender(ctx context.Context, spreadsheetID, tab string, opts ...option.ClientOption) (*Appender, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is empty")
	}
	if tab == "" {
		tab = "Sheet1"
	}
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &Appender{service: svc, spreadsheetID: spreadsheetID, tab: tab}, nil
}

// Range is the A1 anchor rows are appended after.
func (a *Appender) Range() string {
	return a.tab + "!A1"
}

// URL links to the spreadsheet for admin alerts.
func (a *Appender) URL() string {
	return SpreadsheetURL(a.spreadsheetID)
}

func SpreadsheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id
}

func (a *Appender) AppendBooking(ctx context.Context, b models.Booking) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{BookingRow(b)}}
	resp, err := a.service.Spreadsheets.Values.Append(a.spreadsheetID, a.Range(), vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append booking row: %w", err)
	}
	updated := ""
	if resp.Updates != nil {
		updated = resp.Updates.UpdatedRange
	}
	utils.Event("", "sheets", "append_row").
		WithField("booking_reference", b.BookingID).
		WithField("range", updated).
		Debug("booking row appended")
	return nil
}
