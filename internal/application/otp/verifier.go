package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/student-bubble/internal/domain"
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 5 * time.Minute

const (
	codeMin  = 100000
	codeSpan = 900000 // codes fall in [100000, 999999]

	mailSubject = "Your Student Bubble OTP"
)

type mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type Deps struct {
	Store  Store
	Mailer mailer
	Clock  clockwork.Clock
	TTL    time.Duration
}

// Verifier issues and checks one-time codes tied to an email address.
// Each Verifier owns its store; two verifiers never share records unless
// they are handed the same Store.
type Verifier struct {
	store  Store
	mailer mailer
	clock  clockwork.Clock
	ttl    time.Duration
}

func NewVerifier(deps Deps) *Verifier {
	v := &Verifier{
		store:  deps.Store,
		mailer: deps.Mailer,
		clock:  deps.Clock,
		ttl:    deps.TTL,
	}
	if v.store == nil {
		v.store = NewMemoryStore()
	}
	if v.clock == nil {
		v.clock = clockwork.NewRealClock()
	}
	if v.ttl <= 0 {
		v.ttl = DefaultTTL
	}
	return v
}

// Issue generates a fresh code for identity, replacing any previous one, and
// mails it. When the mail cannot be sent the code is still stored and
// returned alongside an error wrapping domain.ErrDeliveryFailed.
func (v *Verifier) Issue(ctx context.Context, identity string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	rec := domain.OtpRecord{
		Identity:  identity,
		Code:      code,
		ExpiresAt: v.clock.Now().Add(v.ttl),
	}
	if err := v.store.Put(ctx, rec); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	body := fmt.Sprintf("Your OTP is %s. It is valid for %s.", code, humanDuration(v.ttl))
	if err := v.mailer.SendEmail(ctx, identity, mailSubject, body); err != nil {
		slog.Error("otp delivery failed", "identity", identity, "err", err)
		return code, fmt.Errorf("send otp: %w: %w", domain.ErrDeliveryFailed, err)
	}
	slog.Info("otp sent", "identity", identity, "expires_at", rec.ExpiresAt)
	return code, nil
}

// Verify checks candidate against the live code for identity. Only a
// Verified outcome removes the record; Expired and Mismatch leave it in place.
// The error is non-nil only when the store itself fails.
func (v *Verifier) Verify(ctx context.Context, identity, candidate string) (domain.VerifyOutcome, error) {
	rec, ok, err := v.store.Get(ctx, identity)
	if err != nil {
		return domain.OtpNotFound, fmt.Errorf("load otp: %w", err)
	}
	if !ok {
		return domain.OtpNotFound, nil
	}
	if rec.Expired(v.clock.Now()) {
		return domain.OtpExpired, nil
	}
	if !codesEqual(rec.Code, candidate) {
		return domain.OtpMismatch, nil
	}
	consumed, err := v.store.Consume(ctx, identity, candidate)
	if err != nil {
		return domain.OtpNotFound, fmt.Errorf("consume otp: %w", err)
	}
	if !consumed {
		// Lost a race with another verification or a re-issue.
		return domain.OtpNotFound, nil
	}
	return domain.OtpVerified, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", codeMin+n.Int64()), nil
}

func humanDuration(d time.Duration) string {
	if d%time.Minute != 0 {
		return d.String()
	}
	if m := int(d / time.Minute); m != 1 {
		return fmt.Sprintf("%d minutes", m)
	}
	return "1 minute"
}
