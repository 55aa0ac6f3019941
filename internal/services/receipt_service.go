package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"autotrust/internal/catalog"
	"autotrust/internal/domain"
	"autotrust/internal/repositories"
	"autotrust/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ReceiptService renders a PDF receipt for one booking.
type ReceiptService struct {
	Cache     *repositories.MemoryStore
	Repo      *repositories.BookingRepository
	Catalog   *catalog.Catalog
	RequestID string
	Loader    func(ctx context.Context, ref string) (receiptData, error)
}

type receiptData struct {
	Reference     string
	IssuedAt      time.Time
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Vehicle       string
	PackageName   string
	Amount        float64
	InspectionOn  string
	Address       string
	PaymentStatus string
	TransactionID string
}

// Generate returns the PDF bytes and a download filename.
func (s ReceiptService) Generate(ctx context.Context, ref string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, "", domain.ValidationError{Field: "reference", Msg: "Booking reference is required"}
	}
	data, err := s.load(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "receipt", "generate", "reference="+ref)
	return buildReceiptPDF(data)
}

func (s ReceiptService) load(ctx context.Context, ref string) (receiptData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, ref)
	}
	if s.Cache != nil {
		if b, ok := s.Cache.FindByReference(ref); ok {
			d := receiptData{
				Reference:     b.BookingID,
				IssuedAt:      b.CreatedAt,
				CustomerName:  b.Name,
				CustomerEmail: b.Email,
				CustomerPhone: b.Phone,
				Vehicle:       b.VehicleDescription(),
				PackageName:   b.SelectedPackage(),
				InspectionOn:  utils.HumanDate(b.Date),
				Address:       strings.Join(nonEmpty(b.Address, b.City, b.State, b.ZipCode), ", "),
				PaymentStatus: b.PaymentStatus,
				TransactionID: b.TransactionID,
			}
			if s.Catalog != nil {
				if p, ok := s.Catalog.Get(b.SelectedPackage()); ok {
					d.PackageName = p.Name
					d.Amount = p.Checkout.Price
				}
			}
			return d, nil
		}
	}
	if s.Repo == nil {
		return receiptData{}, domain.NotFoundError{Resource: "booking"}
	}
	found := s.Repo.FindBookingByReference(ctx, ref)
	if !found.Success {
		return receiptData{}, domain.NotFoundError{Resource: "booking", Err: found.Err()}
	}
	row := found.First()
	return receiptData{
		Reference:     row.String("booking_reference"),
		CustomerName:  row.String("customer_name"),
		CustomerEmail: row.String("customer_email"),
		CustomerPhone: row.String("customer_phone"),
		Vehicle:       row.String("vehicle_info"),
		PackageName:   row.String("package_name"),
		Amount:        row.Float64("total_amount"),
		InspectionOn:  utils.HumanDate(row.String("inspection_date")),
		PaymentStatus: row.String("payment_status"),
		TransactionID: row.String("transaction_id"),
	}, nil
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func buildReceiptPDF(d receiptData) ([]byte, string, error) {
	issued := d.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt "+d.Reference, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "AutoTrust Inspections")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Booking receipt")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Reference      : %s", safe(d.Reference, "-")),
		fmt.Sprintf("Issued         : %s", utils.FormatDateTime(issued)),
		fmt.Sprintf("Customer       : %s", safe(d.CustomerName, "-")),
		fmt.Sprintf("Email          : %s", safe(d.CustomerEmail, "-")),
		fmt.Sprintf("Phone          : %s", safe(d.CustomerPhone, "-")),
		fmt.Sprintf("Vehicle        : %s", safe(d.Vehicle, "-")),
		fmt.Sprintf("Inspection     : %s", safe(d.InspectionOn, "-")),
		fmt.Sprintf("Location       : %s", safe(d.Address, "-")),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 8, safe(d.PackageName, "Inspection"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, utils.FormatUSD(d.Amount), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Payment status : "+safe(d.PaymentStatus, "pending"))
	pdf.Ln(7)
	if d.TransactionID != "" {
		pdf.Cell(0, 7, "Transaction    : "+d.TransactionID)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Keep this receipt for your records. Our inspector will contact you to confirm the appointment.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("RECEIPT_%s.pdf", utils.SafeFilenamePart(d.Reference))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
