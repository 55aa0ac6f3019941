package wizard

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"autotrust/internal/domain/models"
)

// Phase is where the user is after the form.
type Phase int

const (
	PhaseForm Phase = iota
	PhasePayment
)

var ErrNotFinalStep = errors.New("booking can only be submitted from the last step")

// Ack is the server's answer to a submission.
type Ack struct {
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
}

// Submitter delivers the finished form.
type Submitter interface {
	Submit(ctx context.Context, payload models.Booking) (Ack, error)
}

// Wizard holds one user's form state. It is not safe for concurrent use.
type Wizard struct {
	Form    models.Booking
	Package string

	step      Step
	errors    FieldErrors
	phase     Phase
	reference string
	formID    string

	now  func() time.Time
	rand func() int
}

// New starts a wizard for the package chosen on the pricing page.
func New(pkg string) *Wizard {
	return &Wizard{
		Package: strings.TrimSpace(pkg),
		step:    StepPersonal,
		errors:  FieldErrors{},
		now:     time.Now,
		rand:    func() int { return rand.IntN(10000) },
	}
}

func (w *Wizard) Step() Step { return w.step }

// Errors are the messages from the last validation.
func (w *Wizard) Errors() FieldErrors { return w.errors }

func (w *Wizard) Phase() Phase { return w.phase }

// Reference is the booking reference once the submission is acknowledged.
func (w *Wizard) Reference() string { return w.reference }

// Next validates the current step and advances when it is clean.
func (w *Wizard) Next() bool {
	w.errors = ValidateStep(w.step, w.Form)
	if len(w.errors) > 0 {
		return false
	}
	if w.step < lastStep {
		w.step++
	}
	return true
}

// Prev goes back one step without validating.
func (w *Wizard) Prev() {
	if w.step > StepPersonal {
		w.step--
	}
}

// Payload is the submission body: the form plus its form id and a copy of
// the selected package. The form id is minted once so a resubmission after
// a failure is recognised by the server.
func (w *Wizard) Payload() models.Booking {
	if w.formID == "" {
		w.formID = fmt.Sprintf("FORM-%d-%d", w.now().UnixMilli(), w.rand())
	}
	p := w.Form
	p.FormID = w.formID
	p.Package = w.Package
	if strings.TrimSpace(p.PackageType) == "" {
		p.PackageType = w.Package
	}
	return p
}

// Submit sends the form from the last step. Earlier steps are validated
// again; on failure the wizard moves to the first invalid one.
func (w *Wizard) Submit(ctx context.Context, sub Submitter) (Ack, error) {
	if w.step != lastStep {
		return Ack{}, ErrNotFinalStep
	}
	for s := StepPersonal; s <= lastStep; s++ {
		if errs := ValidateStep(s, w.Form); len(errs) > 0 {
			w.step = s
			w.errors = errs
			return Ack{}, errs
		}
	}
	w.errors = FieldErrors{}

	ack, err := sub.Submit(ctx, w.Payload())
	if err != nil {
		return Ack{}, err
	}
	w.reference = ack.BookingID
	w.phase = PhasePayment
	return ack, nil
}
