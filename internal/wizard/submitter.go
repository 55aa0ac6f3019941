package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autotrust/internal/domain/models"
)

// SubmitError is a non-201 answer from the bookings endpoint.
type SubmitError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *SubmitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("booking rejected (%d): %s [request %s]", e.StatusCode, msg, e.RequestID)
	}
	return fmt.Sprintf("booking rejected (%d): %s", e.StatusCode, msg)
}

// HTTPSubmitter posts the payload to <BaseURL>/bookings.
type HTTPSubmitter struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPSubmitter(baseURL string) *HTTPSubmitter {
	return &HTTPSubmitter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, payload models.Booking) (Ack, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Ack{}, fmt.Errorf("encode booking: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.BaseURL, "/")+"/bookings", bytes.NewReader(body))
	if err != nil {
		return Ack{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if payload.FormID != "" {
		req.Header.Set("Idempotency-Key", payload.FormID)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Ack{}, fmt.Errorf("post booking: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Ack{}, fmt.Errorf("read booking response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		var e struct {
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		}
		_ = json.Unmarshal(raw, &e)
		return Ack{}, &SubmitError{StatusCode: resp.StatusCode, Message: e.Message, RequestID: e.RequestID}
	}
	var ack Ack
	if err := json.Unmarshal(raw, &ack); err != nil {
		return Ack{}, fmt.Errorf("decode booking response: %w", err)
	}
	return ack, nil
}
