package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	codeTTL       = 5 * time.Minute
	sweepInterval = time.Minute
)

var (
	ErrNotFound = errors.New("otp not found or expired")
	ErrExpired  = errors.New("otp expired")
	ErrMismatch = errors.New("invalid otp")
)

type entry struct {
	code      string
	expiresAt time.Time
}

// Store keeps short-lived one-time codes in memory, keyed by email.
// A background janitor evicts expired entries so the map never grows
// unbounded.
type Store struct {
	mu    sync.Mutex
	codes map[string]entry
}

func NewStore() *Store {
	s := &Store{codes: make(map[string]entry)}
	go s.janitor()
	return s
}

func (s *Store) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for email, e := range s.codes {
			if now.After(e.expiresAt) {
				delete(s.codes, email)
			}
		}
		s.mu.Unlock()
	}
}

// Issue generates a six-digit code and stores it against the email,
// replacing any previous code for the same address.
func (s *Store) Issue(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%d", n.Int64()+100000)

	s.mu.Lock()
	s.codes[email] = entry{code: code, expiresAt: time.Now().Add(codeTTL)}
	s.mu.Unlock()

	return code, nil
}

// Verify checks the code for the email and consumes it on success.
func (s *Store) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.codes[email]
	if !ok {
		return ErrNotFound
	}
	if time.Now().After(e.expiresAt) {
		delete(s.codes, email)
		return ErrExpired
	}
	if e.code != code {
		return ErrMismatch
	}

	delete(s.codes, email)
	return nil
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether the address looks like an email.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsGmail reports whether the address is a Gmail account. Signup is
// restricted to Gmail addresses.
func IsGmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), "@gmail.com")
}
