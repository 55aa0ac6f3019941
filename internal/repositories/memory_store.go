package repositories

import (
	"sync"

	"autotrust/internal/domain/models"
)

// MemoryStore is the process-lifetime list of received bookings. It is a
// non-durable fallback: everything is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items []models.Booking
	byRef map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byRef: map[string]int{}}
}

// Add appends b; a booking reference seen before replaces the old entry.
func (s *MemoryStore) Add(b models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.BookingID != "" {
		if i, ok := s.byRef[b.BookingID]; ok {
			s.items[i] = b
			return
		}
		s.byRef[b.BookingID] = len(s.items)
	}
	s.items = append(s.items, b)
}

// List returns a copy in arrival order.
func (s *MemoryStore) List() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, len(s.items))
	copy(out, s.items)
	return out
}

func (s *MemoryStore) FindByReference(ref string) (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byRef[ref]
	if !ok {
		return models.Booking{}, false
	}
	return s.items[i], true
}

// UpdatePayment sets payment status and transaction id on a held booking.
func (s *MemoryStore) UpdatePayment(ref, status, transactionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byRef[ref]
	if !ok {
		return false
	}
	s.items[i].PaymentStatus = status
	if transactionID != "" {
		s.items[i].TransactionID = transactionID
	}
	return true
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
