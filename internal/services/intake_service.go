package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autotrust/internal/catalog"
	"autotrust/internal/domain"
	"autotrust/internal/domain/models"
	"autotrust/internal/notify"
	"autotrust/internal/repositories"
	"autotrust/internal/sheets"
	"autotrust/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Step names one stage of the intake pipeline.
type Step string

const (
	StepStore         Step = "store"
	StepSheet         Step = "sheet"
	StepEmailCustomer Step = "email_customer"
	StepEmailAdmin    Step = "email_admin"
)

var intakeSteps = []Step{StepStore, StepSheet, StepEmailCustomer, StepEmailAdmin}

type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepOutcome is reported back to the client. Error stays server side.
type StepOutcome struct {
	Step   Step       `json:"step"`
	Status StepStatus `json:"status"`
	Err    error      `json:"-"`
}

type IntakeResult struct {
	BookingID string        `json:"bookingId"`
	Steps     []StepOutcome `json:"steps"`
}

// OK is true when every step succeeded.
func (r IntakeResult) OK() bool {
	for _, s := range r.Steps {
		if s.Status != StepOK {
			return false
		}
	}
	return len(r.Steps) == len(intakeSteps)
}

// BookingStore persists a submission in the relational store.
type BookingStore interface {
	Create(ctx context.Context, b models.Booking) (int64, error)
}

// IntakeService runs a submission through store, sheet and both emails.
type IntakeService struct {
	Cache          *repositories.MemoryStore
	Store          BookingStore
	Sheet          sheets.RowAppender
	Mailer         notify.Sender
	Catalog        *catalog.Catalog
	Ledger         *Ledger
	AdminEmail     string
	PaymentLink    string
	SpreadsheetURL string
	Now            func() time.Time
}

func (s *IntakeService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

// NewBookingReference returns ATR-YYYYMMDD-XXXXXXXX.
func NewBookingReference(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("ATR-%s-%s", now.Format("20060102"), strings.ToUpper(id[:8]))
}

// Submit processes b. key (the Idempotency-Key header) or b.FormID ties
// retries together; with neither every call is a new booking. A retry whose
// payload differs from the first attempt is processed as a new booking under
// a new reference.
//
// The first failing step aborts the rest, except that both emails are
// always attempted. The returned error wraps the failing step's error in a
// domain.UpstreamError.
func (s *IntakeService) Submit(ctx context.Context, requestID, key string, b models.Booking) (IntakeResult, error) {
	now := s.now()
	key = utils.FirstNonEmpty(strings.TrimSpace(key), strings.TrimSpace(b.FormID))

	done := map[Step]bool{}
	if key != "" && s.Ledger != nil {
		fp := fingerprint(b)
		entry := s.Ledger.acquire(key, now)
		defer entry.mu.Unlock()
		if entry.bookingID != "" && entry.fingerprint != fp {
			utils.Event(requestID, "intake", "submit").
				WithField("booking_id", entry.bookingID).
				Warn("payload changed under the same key, starting a new booking")
			entry.reset()
		}
		if entry.bookingID == "" {
			entry.bookingID = NewBookingReference(now)
			entry.createdAt = now
			entry.fingerprint = fp
		}
		b.BookingID = entry.bookingID
		b.CreatedAt = entry.createdAt
		done = entry.done
	} else {
		b.BookingID = NewBookingReference(now)
		b.CreatedAt = now
	}
	if b.PackageType == "" {
		b.PackageType = b.SelectedPackage()
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = models.PaymentPending
	}

	res := IntakeResult{BookingID: b.BookingID}
	record := func(step Step, err error) {
		out := StepOutcome{Step: step, Status: StepOK, Err: err}
		if err != nil {
			out.Status = StepFailed
			utils.Event(requestID, "intake", string(step)).
				WithField("booking_id", b.BookingID).
				WithError(err).Error("step failed")
		} else {
			done[step] = true
		}
		res.Steps = append(res.Steps, out)
	}
	skipRest := func() {
		for _, st := range intakeSteps[len(res.Steps):] {
			res.Steps = append(res.Steps, StepOutcome{Step: st, Status: StepSkipped})
		}
	}

	if done[StepStore] {
		record(StepStore, nil)
	} else if err := s.store(ctx, b); err != nil {
		record(StepStore, err)
		skipRest()
		return res, domain.UpstreamError{Service: string(StepStore), Err: err}
	} else {
		record(StepStore, nil)
	}

	if done[StepSheet] {
		record(StepSheet, nil)
	} else if err := s.Sheet.AppendBooking(ctx, b); err != nil {
		record(StepSheet, err)
		skipRest()
		return res, domain.UpstreamError{Service: string(StepSheet), Err: err}
	} else {
		record(StepSheet, nil)
	}

	custErr, adminErr := s.sendEmails(ctx, b, done)
	record(StepEmailCustomer, custErr)
	record(StepEmailAdmin, adminErr)
	if err := errors.Join(custErr, adminErr); err != nil {
		return res, domain.UpstreamError{Service: "email", Err: err}
	}

	utils.LogEvent(requestID, "intake", "submit", "booking "+b.BookingID+" processed")
	return res, nil
}

func (s *IntakeService) store(ctx context.Context, b models.Booking) error {
	if s.Cache != nil {
		s.Cache.Add(b)
	}
	if s.Store == nil {
		return nil
	}
	if _, err := s.Store.Create(ctx, b); err != nil {
		return fmt.Errorf("persist booking: %w", err)
	}
	return nil
}

func (s *IntakeService) mailData(b models.Booking) notify.BookingMail {
	d := notify.BookingMail{
		Booking:        b,
		PackageName:    b.SelectedPackage(),
		PaymentLink:    s.PaymentLink,
		SpreadsheetURL: s.SpreadsheetURL,
	}
	if s.Catalog != nil {
		if p, ok := s.Catalog.Get(b.SelectedPackage()); ok {
			d.PackageName = p.Name
			d.PackagePrice = p.Checkout.Price
		}
	}
	return d
}

// sendEmails sends both messages concurrently; neither cancels the other.
func (s *IntakeService) sendEmails(ctx context.Context, b models.Booking, done map[Step]bool) (custErr, adminErr error) {
	d := s.mailData(b)
	var g errgroup.Group
	if !done[StepEmailCustomer] {
		g.Go(func() error {
			msg, err := notify.CustomerConfirmation(d)
			if err == nil {
				err = s.Mailer.Send(ctx, msg)
			}
			custErr = err
			return err
		})
	}
	if !done[StepEmailAdmin] {
		g.Go(func() error {
			msg, err := notify.AdminAlert(s.AdminEmail, d)
			if err == nil {
				err = s.Mailer.Send(ctx, msg)
			}
			adminErr = err
			return err
		})
	}
	_ = g.Wait()
	return custErr, adminErr
}

// Bookings is the in-memory list in arrival order.
func (s *IntakeService) Bookings() []models.Booking {
	if s.Cache == nil {
		return []models.Booking{}
	}
	return s.Cache.List()
}
