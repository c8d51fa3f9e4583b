package mail

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

const otpSubject = "IronWall - Verify Your Email"

const otpTextTemplate = `IronWall Security - Email Verification

Hello %s!

Welcome to IronWall! To complete your registration, please use the
verification code below:

Your Verification Code: %s

This code expires in 10 minutes.

If you didn't request this verification code, please ignore this email.
`

const otpHTMLTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Email Verification</title></head>
<body style="margin:0;padding:0;font-family:sans-serif;background-color:#0a0a0f;">
  <table role="presentation" align="center" style="width:600px;background:#16213e;border-radius:16px;">
    <tr><td style="padding:40px 40px 20px;text-align:center;">
      <h1 style="color:#ffffff;margin:0;font-size:28px;">IronWall Security</h1>
      <p style="color:#a1a1aa;margin:8px 0 0;font-size:14px;">Vulnerability Research Platform</p>
    </td></tr>
    <tr><td style="padding:40px;">
      <h2 style="color:#ffffff;margin:0 0 16px;font-size:22px;">Hello %s!</h2>
      <p style="color:#d1d5db;margin:0 0 24px;font-size:16px;">
        Welcome to IronWall! To complete your registration and secure your
        account, please use the verification code below:
      </p>
      <div style="border:2px solid #6366f1;border-radius:12px;padding:30px;text-align:center;">
        <p style="color:#a1a1aa;margin:0 0 12px;font-size:14px;text-transform:uppercase;">Your Verification Code</p>
        <div style="font-size:42px;font-weight:700;letter-spacing:12px;color:#6366f1;font-family:monospace;">%s</div>
        <p style="color:#71717a;margin:16px 0 0;font-size:12px;">This code expires in 10 minutes</p>
      </div>
      <p style="color:#9ca3af;margin:24px 0 0;font-size:14px;">
        If you didn't request this verification code, please ignore this email.
      </p>
    </td></tr>
    <tr><td style="padding:24px 40px;">
      <p style="color:#6b7280;margin:0;font-size:12px;text-align:center;">
        This is an automated message. Please do not reply.
      </p>
    </td></tr>
  </table>
</body>
</html>
`

// buildOTPMessage renders a multipart/alternative message carrying both a
// plain-text and an HTML rendition of the verification code.
func buildOTPMessage(fromName, from, to, username, otp string, now time.Time) []byte {
	if username == "" {
		username = "Researcher"
	}

	const boundary = "ironwall-alt-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", fromName), from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", otpSubject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, otpTextTemplate, username, otp)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, otpHTMLTemplate, username, otp)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
