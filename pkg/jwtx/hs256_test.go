package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "authd-test"

func newTestHS256(t *testing.T) *HS256 {
	t.Helper()
	return NewHS256([]byte("0123456789abcdef0123456789abcdef"), testIssuer)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	h := newTestHS256(t)
	claims := NewSessionClaims("01J0USER", testIssuer, DefaultSessionTTL, time.Now())

	raw, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "01J0USER", got.Subject)
	require.Equal(t, testIssuer, got.Issuer)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	h := newTestHS256(t)
	claims := NewSessionClaims("01J0USER", testIssuer, time.Minute, time.Now().Add(-time.Hour))

	raw, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	other := NewHS256([]byte("a completely different secret!!!"), testIssuer)
	claims := NewSessionClaims("01J0USER", testIssuer, DefaultSessionTTL, time.Now())

	raw, err := other.Sign(claims)
	require.NoError(t, err)

	_, err = newTestHS256(t).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()

	h := newTestHS256(t)
	claims := NewSessionClaims("01J0USER", "someone-else", DefaultSessionTTL, time.Now())

	raw, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(raw)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := newTestHS256(t).Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrMalformed)
}
