package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"autotrust/internal/domain/models"
)

// ledgerEntry remembers what a keyed submission already achieved.
type ledgerEntry struct {
	mu          sync.Mutex
	bookingID   string
	createdAt   time.Time
	fingerprint string
	done        map[Step]bool
	touched     time.Time
}

// reset forgets the previous run so the next one starts over.
func (e *ledgerEntry) reset() {
	e.bookingID = ""
	e.createdAt = time.Time{}
	e.fingerprint = ""
	e.done = map[Step]bool{}
}

// fingerprint identifies the submitted content, ignoring server-assigned fields.
func fingerprint(b models.Booking) string {
	b.BookingID = ""
	b.CreatedAt = time.Time{}
	raw, err := json.Marshal(b)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Ledger tracks keyed submissions so a retry only repeats unfinished steps.
// Entries idle for longer than TTL are dropped.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]*ledgerEntry
	TTL     time.Duration
}

func NewLedger(ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Ledger{entries: map[string]*ledgerEntry{}, TTL: ttl}
}

// acquire returns the locked entry for key. Callers must unlock it.
func (l *Ledger) acquire(key string, now time.Time) *ledgerEntry {
	l.mu.Lock()
	for k, e := range l.entries {
		if now.Sub(e.touched) > l.TTL && e.mu.TryLock() {
			delete(l.entries, k)
			e.mu.Unlock()
		}
	}
	e, ok := l.entries[key]
	if !ok {
		e = &ledgerEntry{done: map[Step]bool{}}
		l.entries[key] = e
	}
	e.touched = now
	l.mu.Unlock()

	e.mu.Lock()
	return e
}

// Len reports the number of live entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
