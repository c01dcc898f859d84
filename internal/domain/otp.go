package domain

import "time"

// OtpRecord is the single live one-time code for an identity (an email address).
// Issuing a new code for the same identity replaces the previous record.
type OtpRecord struct {
	Identity  string
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the record is past its validity window at now.
// A record is still valid at exactly ExpiresAt.
func (r OtpRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// VerifyOutcome is the result of checking a candidate code.
type VerifyOutcome int

const (
	OtpNotFound VerifyOutcome = iota
	OtpExpired
	OtpMismatch
	OtpVerified
)

func (o VerifyOutcome) String() string {
	switch o {
	case OtpVerified:
		return "verified"
	case OtpExpired:
		return "expired"
	case OtpMismatch:
		return "mismatch"
	default:
		return "not_found"
	}
}
