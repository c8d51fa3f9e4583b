package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTP code bounds. Codes are always six digits with a non-zero leading
// digit so they survive clients that strip leading zeros.
const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP returns a six-digit numeric one-time code uniformly sampled
// over [100000, 999999]. The code proves control of an email inbox, not
// possession of a secret, so the short length is acceptable as long as
// attempts are rate limited.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", otpMin+n.Int64()), nil
}
