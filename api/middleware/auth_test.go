package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/aromaten/aromaten-backend/pkg/auth"
	"github.com/aromaten/aromaten-backend/pkg/config"
)

type stubSessionChecker struct {
	active map[string]bool
	err    error
}

func (s *stubSessionChecker) HasSession(_ context.Context, sessionID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.active[sessionID], nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "aromaten",
		ExpirationMinutes: 480,
		CookieName:        "aromaten_admin",
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, adminID uuid.UUID, sessionID string) string {
	t.Helper()
	token, err := pkgauth.MintAdminToken(cfg, time.Now(), pkgauth.AdminTokenPayload{
		AdminID: adminID,
		Email:   "admin@aromaten.bg",
		JTI:     sessionID,
	})
	require.NoError(t, err)
	return token
}

func protectedEcho(t *testing.T) (http.Handler, *string, *string) {
	t.Helper()
	var gotAdminID, gotEmail string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAdminID = AdminIDFromContext(r.Context())
		gotEmail = AdminEmailFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return handler, &gotAdminID, &gotEmail
}

func TestAdminAuthCookie(t *testing.T) {
	cfg := testJWTConfig()
	adminID := uuid.New()
	sessionID := uuid.NewString()
	sessions := &stubSessionChecker{active: map[string]bool{sessionID: true}}

	inner, gotAdminID, gotEmail := protectedEcho(t)
	handler := AdminAuth(cfg, sessions, nil)(inner)

	req := httptest.NewRequest("GET", "/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: mintToken(t, cfg, adminID, sessionID)})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, adminID.String(), *gotAdminID)
	assert.Equal(t, "admin@aromaten.bg", *gotEmail)
}

func TestAdminAuthBearerFallback(t *testing.T) {
	cfg := testJWTConfig()
	sessionID := uuid.NewString()
	sessions := &stubSessionChecker{active: map[string]bool{sessionID: true}}

	inner, _, _ := protectedEcho(t)
	handler := AdminAuth(cfg, sessions, nil)(inner)

	req := httptest.NewRequest("GET", "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, uuid.New(), sessionID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminAuthMissingCredentials(t *testing.T) {
	cfg := testJWTConfig()
	inner, _, _ := protectedEcho(t)
	handler := AdminAuth(cfg, &stubSessionChecker{}, nil)(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthInvalidToken(t *testing.T) {
	cfg := testJWTConfig()
	inner, _, _ := protectedEcho(t)
	handler := AdminAuth(cfg, &stubSessionChecker{}, nil)(inner)

	req := httptest.NewRequest("GET", "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthRevokedSession(t *testing.T) {
	cfg := testJWTConfig()
	sessionID := uuid.NewString()
	sessions := &stubSessionChecker{active: map[string]bool{}}

	inner, _, _ := protectedEcho(t)
	handler := AdminAuth(cfg, sessions, nil)(inner)

	req := httptest.NewRequest("GET", "/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: mintToken(t, cfg, uuid.New(), sessionID)})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session expired")
}
