// Package mail delivers one-time verification codes to users over SMTP.
//
// Delivery is a side effect of registration, not part of its contract.
// Callers choose how hard a failed send should hit the flow via the
// dispatch policy: best-effort logs and moves on, strict propagates the
// error.
package mail

import "context"

// DispatchPolicy controls how send failures are treated by callers.
type DispatchPolicy string

const (
	// DispatchBestEffort logs send failures and continues. This is the
	// default: a flaky mail relay must not block registration.
	DispatchBestEffort DispatchPolicy = "best-effort"

	// DispatchStrict surfaces send failures to the caller.
	DispatchStrict DispatchPolicy = "strict"
)

// ParseDispatchPolicy maps a config string to a policy, defaulting to
// best-effort on anything unrecognised.
func ParseDispatchPolicy(s string) DispatchPolicy {
	if s == string(DispatchStrict) {
		return DispatchStrict
	}
	return DispatchBestEffort
}

// Mailer sends transactional mail for the auth service.
type Mailer interface {
	// SendOTP delivers a verification code to the given address.
	SendOTP(ctx context.Context, to, username, otp string) error

	// Verify checks the transport is reachable and authenticated. It is
	// called once at startup so misconfiguration shows up in the logs
	// before the first user registers.
	Verify(ctx context.Context) error
}
