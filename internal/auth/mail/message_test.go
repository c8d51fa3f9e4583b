package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildOTPMessage(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
	msg := string(buildOTPMessage("IronWall Security", "noreply@ironwall.dev",
		"alice@example.com", "alice", "123456", now))

	require.Contains(t, msg, "To: alice@example.com\r\n")
	require.Contains(t, msg, "Subject: "+otpSubject+"\r\n")
	require.Contains(t, msg, "noreply@ironwall.dev")
	require.Contains(t, msg, "multipart/alternative")

	// The code must appear in both the text and the HTML part.
	require.Equal(t, 2, strings.Count(msg, "123456"))
	require.Contains(t, msg, "Hello alice!")
}

func TestBuildOTPMessageDefaultsUsername(t *testing.T) {
	t.Parallel()

	msg := string(buildOTPMessage("IronWall Security", "noreply@ironwall.dev",
		"alice@example.com", "", "654321", time.Now()))

	require.Contains(t, msg, "Hello Researcher!")
}

func TestSMTPConfigConfigured(t *testing.T) {
	t.Parallel()

	require.False(t, SMTPConfig{}.Configured())
	require.False(t, SMTPConfig{Host: "smtp.example.com"}.Configured())
	require.True(t, SMTPConfig{Host: "smtp.example.com", From: "a@b.c"}.Configured())

	cfg := SMTPConfig{Host: "smtp.example.com", Port: 587}
	require.Equal(t, "smtp.example.com:587", cfg.Addr())
}

func TestParseDispatchPolicy(t *testing.T) {
	t.Parallel()

	require.Equal(t, DispatchStrict, ParseDispatchPolicy("strict"))
	require.Equal(t, DispatchBestEffort, ParseDispatchPolicy("best-effort"))
	require.Equal(t, DispatchBestEffort, ParseDispatchPolicy(""))
	require.Equal(t, DispatchBestEffort, ParseDispatchPolicy("nonsense"))
}
