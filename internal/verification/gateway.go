// Package verification wraps the external phone verification service. It
// issues OTP challenges for a phone number and confirms submitted codes,
// yielding the opaque identity token that keys every agent record.
package verification

import "context"

// Identity is a confirmed phone-owner identity returned by the gateway.
type Identity struct {
	// Token is the opaque identifier assigned by the verification service.
	// It is stable across sessions for the same phone number.
	Token string
	// PhoneNumber is the verified number in international format.
	PhoneNumber string
}

// Gateway issues and confirms phone verification challenges.
type Gateway interface {
	// RequestChallenge normalizes phone to international format, initiates a
	// verification challenge and returns an opaque pending-challenge handle.
	RequestChallenge(ctx context.Context, phone string) (handle string, err error)

	// ConfirmChallenge validates a submitted 6-digit code against the pending
	// challenge. A used or expired handle cannot be replayed; callers must
	// restart at RequestChallenge.
	ConfirmChallenge(ctx context.Context, handle, code string) (*Identity, error)
}
