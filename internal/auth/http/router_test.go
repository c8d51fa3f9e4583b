package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ironwall/authd/internal/auth/blob"
	"github.com/ironwall/authd/internal/auth/chat"
	"github.com/ironwall/authd/internal/auth/service"
	"github.com/ironwall/authd/internal/auth/store/drivers/sqlite"
	"github.com/ironwall/authd/internal/auth/store/pending"
	"github.com/ironwall/authd/pkg/authapi"
	"github.com/ironwall/authd/pkg/httpx"
	"github.com/ironwall/authd/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type stubMailer struct {
	mu   sync.Mutex
	otps map[string]string
}

func (m *stubMailer) SendOTP(ctx context.Context, to, username, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.otps[to] = otp
	return nil
}

func (m *stubMailer) Verify(ctx context.Context) error { return nil }

func (m *stubMailer) otpFor(t *testing.T, email string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	otp, ok := m.otps[email]
	require.True(t, ok, "no otp recorded for %s", email)
	return otp
}

type stubRelay struct {
	reply string
	err   error
}

func (r *stubRelay) Send(ctx context.Context, message string, history []chat.Message) (string, error) {
	return r.reply, r.err
}

type routerHarness struct {
	router *Router
	mailer *stubMailer
	relay  *stubRelay
}

func newRouterHarness(t *testing.T) *routerHarness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mailer := &stubMailer{otps: make(map[string]string)}
	relay := &stubRelay{reply: "assistant reply"}
	hs := jwtx.NewHS256([]byte("router-test-secret"), "authd-test")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := service.New(
		service.Config{Issuer: "authd-test"},
		st, pending.NewStore(), mailer, blob.Disabled{}, relay, hs, log,
	)

	router := NewRouter(hs, "test", st, svc, nil, log)
	router.ApplyRoutes()

	return &routerHarness{router: router, mailer: mailer, relay: relay}
}

// do runs a JSON request through the full middleware chain. The forwarded
// IP is fixed per harness so rate limit buckets are per-test.
func (h *routerHarness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// register runs a full initiate+verify for the given account and returns
// the issued session.
func (h *routerHarness) register(t *testing.T, username, email, password string) authapi.SessionResponse {
	t.Helper()

	rec := h.do(t, "POST", "/v1/auth/register", "", authapi.RegisterRequest{
		Username: username, Email: email, Password: password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, "POST", "/v1/auth/verify-otp", "", authapi.VerifyOTPRequest{
		Email: email, OTP: h.mailer.otpFor(t, email),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[authapi.SessionResponse](t, rec)
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	t.Parallel()

	h := newRouterHarness(t)

	rec := h.do(t, "POST", "/v1/auth/register", "", authapi.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "pw123456",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reg := decodeBody[authapi.RegisterResponse](t, rec)
	require.Equal(t, "alice@example.com", reg.Email)

	rec = h.do(t, "POST", "/v1/auth/verify-otp", "", authapi.VerifyOTPRequest{
		Email: "alice@example.com", OTP: h.mailer.otpFor(t, "alice@example.com"),
	})
	// Account creation happens here, not at register.
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decodeBody[authapi.SessionResponse](t, rec)
	require.NotEmpty(t, session.Token)
	require.Equal(t, "alice", session.User.Username)
	require.Equal(t, "user", session.User.Role)
	require.True(t, session.User.IsVerified)

	rec = h.do(t, "GET", "/v1/auth/profile", session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decodeBody[authapi.User](t, rec)
	require.Equal(t, session.User.ID, profile.ID)

	rec = h.do(t, "POST", "/v1/auth/login", "", authapi.LoginRequest{
		Email: "alice@example.com", Password: "pw123456",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	h := newRouterHarness(t)

	for name, req := range map[string]authapi.RegisterRequest{
		"missing username": {Email: "a@example.com", Password: "pw123456"},
		"bad email":        {Username: "a", Email: "not-an-email", Password: "pw123456"},
		"short password":   {Username: "a", Email: "a@example.com", Password: "pw"},
	} {
		rec := h.do(t, "POST", "/v1/auth/register", "", req)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)

		apiErr := decodeBody[authapi.APIError](t, rec)
		require.Equal(t, authapi.ErrorCodeValidation, apiErr.Code, name)
	}
}

func TestVerifyOTPErrors(t *testing.T) {
	t.Parallel()

	h := newRouterHarness(t)

	rec := h.do(t, "POST", "/v1/auth/verify-otp", "", authapi.VerifyOTPRequest{
		Email: "nobody@example.com", OTP: "123456",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, authapi.ErrorCodeNotFound, decodeBody[authapi.APIError](t, rec).Code)

	reg := h.do(t, "POST", "/v1/auth/register", "", authapi.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "pw123456",
	})
	require.Equal(t, http.StatusOK, reg.Code)

	otp := h.mailer.otpFor(t, "alice@example.com")
	wrong := "000000"
	if wrong == otp {
		wrong = "000001"
	}

	rec = h.do(t, "POST", "/v1/auth/verify-otp", "", authapi.VerifyOTPRequest{
		Email: "alice@example.com", OTP: wrong,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, authapi.ErrorCodeMismatch, decodeBody[authapi.APIError](t, rec).Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	h := newRouterHarness(t)

	rec := h.do(t, "POST", "/v1/auth/login", "", authapi.LoginRequest{
		Email: "ghost@example.com", Password: "whatever1",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, authapi.ErrorCodeInvalidCredentials, decodeBody[authapi.APIError](t, rec).Code)
}

func TestProfileRequiresBearerToken(t *testing.T) {
	t.Parallel()

	h := newRouterHarness(t)

	rec := h.do(t, "GET", "/v1/auth/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	rec = h.do(t, "GET", "/v1/auth/profile", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// A token signed by someone else is rejected too.
	foreign := jwtx.NewHS256([]byte("other-secret"), "authd-test")
	token, err := foreign.Sign(jwtx.NewSessionClaims("some-user", "authd-test", jwtx.DefaultSessionTTL, time.Now()))
	require.NoError(t, err)

	rec = h.do(t, "GET", "/v1/auth/profile", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfileAndPassword(t *testing.T) {
	t.Parallel()

	h := newRouterHarness(t)
	session := h.register(t, "alice", "alice@example.com", "pw123456")

	newName := "alice_r"
	rec := h.do(t, "PUT", "/v1/auth/profile", session.Token, authapi.UpdateProfileRequest{
		Username: &newName,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "alice_r", decodeBody[authapi.User](t, rec).Username)

	// A wrong current password is a 400 mismatch, not a 401: the session
	// itself is fine.
	rec = h.do(t, "PUT", "/v1/auth/password", session.Token, authapi.ChangePasswordRequest{
		CurrentPassword: "not-the-password", NewPassword: "pw654321",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	require.Equal(t, authapi.ErrorCodePasswordMismatch, decodeBody[authapi.APIError](t, rec).Code)

	rec = h.do(t, "PUT", "/v1/auth/password", session.Token, authapi.ChangePasswordRequest{
		CurrentPassword: "pw123456", NewPassword: "pw654321",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, "POST", "/v1/auth/login", "", authapi.LoginRequest{
		Email: "alice@example.com", Password: "pw654321",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestChatEndpoint(t *testing.T) {
	t.Parallel()

	h := newRouterHarness(t)
	session := h.register(t, "alice", "alice@example.com", "pw123456")

	rec := h.do(t, "POST", "/v1/chat/message", session.Token, authapi.ChatRequest{
		Message: "what is a use-after-free?",
		History: []authapi.ChatMessage{{Role: "model", Parts: "earlier reply"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "assistant reply", decodeBody[authapi.ChatResponse](t, rec).Reply)

	// Unauthenticated chat is rejected.
	rec = h.do(t, "POST", "/v1/chat/message", "", authapi.ChatRequest{Message: "hi"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAvatarUploadWithoutStorage(t *testing.T) {
	t.Parallel()

	h := newRouterHarness(t)
	session := h.register(t, "alice", "alice@example.com", "pw123456")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", "a.png")
	require.NoError(t, err)
	// Minimal PNG signature so content sniffing accepts it.
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n" + "0000000000000000"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/v1/auth/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+session.Token)

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
}

func TestStrictRateLimitOnLogin(t *testing.T) {
	t.Parallel()

	h := newRouterHarness(t)

	var last *httptest.ResponseRecorder
	for i := 0; i <= httpx.StrictLimit.Burst; i++ {
		last = h.do(t, "POST", "/v1/auth/login", "", authapi.LoginRequest{
			Email: fmt.Sprintf("u%d@example.com", i), Password: "pw123456",
		})
	}
	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.NotEmpty(t, last.Header().Get("Retry-After"))
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	h := newRouterHarness(t)

	rec := h.do(t, "GET", "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody[authapi.HealthResponse](t, rec).Status)

	rec = h.do(t, "GET", "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
