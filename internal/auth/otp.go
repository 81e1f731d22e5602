package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vrooom/car-rental-service/internal/model"
)

// OTP tuning.  A code lives for five minutes; a new code may not be
// requested within thirty seconds of the previous one.
const (
	OTPTTL         = 5 * time.Minute
	ResendCooldown = 30 * time.Second
	otpDigits      = 6
)

// Challenge kinds.  A signup challenge carries the not-yet-persisted
// candidate account; a login challenge carries the already-verified
// user pending its second factor.
const (
	KindSignup = "signup"
	KindLogin  = "login"
)

// Verification failures, all recoverable by the client.
var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeUsed     = errors.New("challenge already consumed")
	ErrOTPIncomplete     = errors.New("enter all 6 digits")
	ErrOTPExpired        = errors.New("code has expired, request a new one")
	ErrOTPMismatch       = errors.New("invalid code")
	ErrResendTooSoon     = errors.New("wait 30 seconds before requesting a new code")
)

// Challenge is one in-flight OTP verification.  Exactly one live
// code exists per challenge; Resend replaces it and resets the
// expiry.  A challenge is single-use: once verified it is consumed
// and any further attempt fails closed.
type Challenge struct {
	ID        string
	Kind      string
	User      model.User // candidate (signup) or matched user (login)
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	consumed  bool
}

// Registry holds in-flight challenges in memory, keyed by an opaque
// challenge id handed to the client.  Challenges are transient by
// design and never touch the persistence store.  The clock is
// injectable so tests can drive expiry deterministically.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Challenge
	now     func() time.Time
}

// NewRegistry returns a Registry on the real clock.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]*Challenge{}, now: time.Now}
}

// NewRegistryWithClock returns a Registry on the supplied clock.
func NewRegistryWithClock(now func() time.Time) *Registry {
	return &Registry{entries: map[string]*Challenge{}, now: now}
}

// Begin creates a challenge for the user and generates its first
// code.  Expired leftovers are pruned opportunistically.
func (r *Registry) Begin(kind string, user model.User) (*Challenge, error) {
	code, err := randomCode()
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, ch := range r.entries {
		if now.Sub(ch.ExpiresAt) > OTPTTL {
			delete(r.entries, id)
		}
	}
	ch := &Challenge{
		ID:        uuid.NewString(),
		Kind:      kind,
		User:      user,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(OTPTTL),
	}
	r.entries[ch.ID] = ch
	return ch, nil
}

// Verify checks the entered code against the challenge.  On success
// the challenge is consumed and its user returned; a consumed
// challenge can never succeed again.
func (r *Registry) Verify(id, code string) (*Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.entries[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	if ch.consumed {
		return nil, ErrChallengeUsed
	}
	if len(code) != otpDigits {
		return nil, ErrOTPIncomplete
	}
	if r.now().After(ch.ExpiresAt) {
		return nil, ErrOTPExpired
	}
	if code != ch.Code {
		return nil, ErrOTPMismatch
	}
	ch.consumed = true
	delete(r.entries, id)
	return ch, nil
}

// Resend generates a fresh code and resets the expiry, refusing when
// the previous code is younger than the cooldown.
func (r *Registry) Resend(id string) (*Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.entries[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	if ch.consumed {
		return nil, ErrChallengeUsed
	}
	now := r.now()
	if now.Sub(ch.IssuedAt) < ResendCooldown {
		return nil, ErrResendTooSoon
	}
	code, err := randomCode()
	if err != nil {
		return nil, err
	}
	ch.Code = code
	ch.IssuedAt = now
	ch.ExpiresAt = now.Add(OTPTTL)
	return ch, nil
}

// randomCode draws a uniformly random 6-digit code from crypto/rand.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
