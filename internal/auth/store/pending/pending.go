// Package pending holds in-flight registrations between the initial signup
// request and OTP verification. Entries are process-lifetime state: the map
// starts empty on boot and nothing is persisted. That is acceptable because
// a pending registration lives at most fifteen minutes, but it does mean a
// multi-instance deployment needs a shared external store instead.
package pending

import (
	"sync"
	"time"

	"github.com/ironwall/authd/internal/auth/domain"
)

// Store is a thread-safe map of pending registrations keyed by email, with
// a keyed critical section so multi-step flows (read, check, then write or
// delete) for the same email never interleave.
type Store struct {
	mu      sync.Mutex
	entries map[string]domain.PendingRegistration
	locks   map[string]*emailLock
}

type emailLock struct {
	mu   sync.Mutex
	refs int
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]domain.PendingRegistration),
		locks:   make(map[string]*emailLock),
	}
}

// Do runs fn while holding the critical section for email. Registration
// operations (initiate, resend, verify) run their whole read-check-write
// sequence inside Do so two concurrent verifies can't both observe the same
// live entry.
func (s *Store) Do(email string, fn func()) {
	l := s.acquire(email)
	l.mu.Lock()
	defer func() {
		l.mu.Unlock()
		s.release(email, l)
	}()
	fn()
}

func (s *Store) acquire(email string) *emailLock {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[email]
	if !ok {
		l = &emailLock{}
		s.locks[email] = l
	}
	l.refs++
	return l
}

func (s *Store) release(email string, l *emailLock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(s.locks, email)
	}
}

// Put stores a pending registration, unconditionally overwriting any prior
// entry for the same email (last write wins, no merge).
func (s *Store) Put(p domain.PendingRegistration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[p.Email] = p
}

// Get returns the pending registration for email, if any.
func (s *Store) Get(email string) (domain.PendingRegistration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[email]
	return p, ok
}

// Delete removes the pending registration for email, if any.
func (s *Store) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
}

// SweepExpired removes every entry whose CreatedAt is older than maxAge and
// returns how many were evicted. Callers invoke this opportunistically on
// registration traffic; there is no background timer, so an idle service
// simply holds stale entries until the next signup.
func (s *Store) SweepExpired(now time.Time, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var swept int
	for email, p := range s.entries {
		if p.Stale(now, maxAge) {
			delete(s.entries, email)
			swept++
		}
	}
	return swept
}

// Len reports the number of in-flight registrations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
