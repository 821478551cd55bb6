// Package session holds the authenticated identity and bearer token of a
// storefront user. A *Session is resolved once per request and passed
// explicitly to the flows that read or mutate it.
package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"grabbi-storefront/dtos"
)

// ErrNotFound is returned by a Store when no session exists for a token.
var ErrNotFound = errors.New("session not found")

// Session is one signed-in user. Its fields are guarded so concurrent
// requests on the same session don't race, but read-modify-write sequences
// spanning network calls are not serialised.
type Session struct {
	mu        sync.RWMutex
	token     string
	identity  dtos.Identity
	cart      []dtos.CartLine
	expiresAt time.Time
}

func New(token string, identity dtos.Identity, expiresAt time.Time) *Session {
	return &Session{token: token, identity: identity, expiresAt: expiresAt}
}

func (s *Session) Token() string {
	return s.token
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt())
}

// Identity returns a copy of the cached identity.
func (s *Session) Identity() dtos.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Session) SetIdentity(identity dtos.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
}

func (s *Session) Points() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Points
}

func (s *Session) SetPoints(points int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity.Points = points
}

// Cart returns a copy of the cached cart lines.
func (s *Session) Cart() []dtos.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dtos.CartLine, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *Session) SetCart(lines []dtos.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = make([]dtos.CartLine, len(lines))
	copy(s.cart, lines)
}

// UpdateCart applies fn to the cached cart under the session lock and
// returns the cart as it was before.
func (s *Session) UpdateCart(fn func([]dtos.CartLine) []dtos.CartLine) []dtos.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := make([]dtos.CartLine, len(s.cart))
	copy(before, s.cart)
	s.cart = fn(s.cart)
	return before
}

type record struct {
	Token     string          `json:"token"`
	Identity  dtos.Identity   `json:"identity"`
	Cart      []dtos.CartLine `json:"cart,omitempty"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (s *Session) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(record{
		Token:     s.token,
		Identity:  s.identity,
		Cart:      s.cart,
		ExpiresAt: s.expiresAt,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = r.Token
	s.identity = r.Identity
	s.cart = r.Cart
	s.expiresAt = r.ExpiresAt
	return nil
}
