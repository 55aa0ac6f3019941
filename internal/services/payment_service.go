package services

import (
	"context"
	"strings"

	"autotrust/internal/domain"
	"autotrust/internal/domain/models"
	"autotrust/internal/repositories"
	"autotrust/internal/utils"
)

// PaymentService records the payment outcome the booking page reports
// after checkout.
type PaymentService struct {
	Cache     *repositories.MemoryStore
	Repo      *repositories.BookingRepository
	RequestID string
}

type PaymentUpdate struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
}

func (s PaymentService) Update(ctx context.Context, ref string, in PaymentUpdate) error {
	ref = strings.TrimSpace(ref)
	stored, ok := models.StoredPaymentStatus(strings.TrimSpace(in.Status))
	if !ok {
		return domain.ValidationError{Field: "status", Msg: "Invalid payment status"}
	}

	found := false
	if s.Cache != nil {
		found = s.Cache.UpdatePayment(ref, in.Status, in.TransactionID)
	}
	if s.Repo != nil {
		res := s.Repo.UpdatePaymentStatus(ctx, ref, stored, in.TransactionID)
		if !res.Success {
			return domain.UpstreamError{Service: "database", Err: res.Err()}
		}
		found = found || res.AffectedRows > 0
	}
	if !found {
		return domain.NotFoundError{Resource: "booking"}
	}
	utils.LogEvent(s.RequestID, "payment", "update", ref+" -> "+in.Status)
	return nil
}
