package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mohamedm999/TruckFlow/internal/config"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
	"github.com/mohamedm999/TruckFlow/internal/service"
	"github.com/mohamedm999/TruckFlow/internal/session"
)

type stubUserStore struct {
	users map[string]models.User
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *stubUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserStore) UpdatePassword(_ context.Context, _ string, _ []byte) error {
	return errors.New("not supported")
}

type stubTokenStore struct {
	tokens map[string]string
}

func (s *stubTokenStore) Create(_ context.Context, token, userID string) error {
	s.tokens[token] = userID
	return nil
}

func (s *stubTokenStore) Find(_ context.Context, token string) (string, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return "", session.ErrTokenNotFound
	}
	return userID, nil
}

func (s *stubTokenStore) Delete(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

func (s *stubTokenStore) DeleteAllForUser(_ context.Context, userID string) error {
	for token, owner := range s.tokens {
		if owner == userID {
			delete(s.tokens, token)
		}
	}
	return nil
}

func (s *stubTokenStore) TTL() time.Duration { return 7 * 24 * time.Hour }

func newAuthHandlerRig(t *testing.T, users *stubUserStore, tokens *stubTokenStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTAccessSecret: "test-secret",
			JWTAccessTTL:    15 * time.Minute,
			RefreshTTL:      7 * 24 * time.Hour,
		},
	}
	h := HandlerSet{
		log:         zerolog.Nop(),
		cfg:         cfg,
		authService: service.NewAuthService(users, tokens, cfg, zerolog.Nop()),
	}

	router := gin.New()
	router.POST("/api/auth/refresh", h.Refresh)
	router.POST("/api/auth/logout", h.Logout)
	return router
}

func postWithCookie(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func refreshCookieHeader(rec *httptest.ResponseRecorder) (string, bool) {
	for _, header := range rec.Result().Header.Values("Set-Cookie") {
		if strings.HasPrefix(header, refreshCookieName+"=") {
			return header, true
		}
	}
	return "", false
}

func TestRefresh_SuccessLeavesCookieAlone(t *testing.T) {
	users := &stubUserStore{users: map[string]models.User{
		"u1": {ID: "u1", Email: "driver@truckflow.com", Role: models.UserRoleChauffeur, IsActive: true},
	}}
	tokens := &stubTokenStore{tokens: map[string]string{"valid-token": "u1"}}
	router := newAuthHandlerRig(t, users, tokens)

	rec := postWithCookie(router, "/api/auth/refresh", "valid-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if header, found := refreshCookieHeader(rec); found {
		t.Fatalf("successful refresh must not touch the cookie, got %q", header)
	}
	if !strings.Contains(rec.Body.String(), "accessToken") {
		t.Fatalf("body missing accessToken: %s", rec.Body.String())
	}
}

func TestRefresh_InvalidTokenClearsCookie(t *testing.T) {
	users := &stubUserStore{users: map[string]models.User{}}
	tokens := &stubTokenStore{tokens: map[string]string{}}
	router := newAuthHandlerRig(t, users, tokens)

	rec := postWithCookie(router, "/api/auth/refresh", "never-issued")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}

	header, found := refreshCookieHeader(rec)
	if !found {
		t.Fatalf("failed refresh must clear the cookie")
	}
	if !strings.Contains(header, "Max-Age=0") {
		t.Fatalf("clearing cookie must expire it, got %q", header)
	}
	if !strings.Contains(header, "Path=/api/auth") {
		t.Fatalf("cookie scope must stay on the auth path, got %q", header)
	}
}

func TestRefresh_MissingCookieClearsCookie(t *testing.T) {
	router := newAuthHandlerRig(t,
		&stubUserStore{users: map[string]models.User{}},
		&stubTokenStore{tokens: map[string]string{}})

	rec := postWithCookie(router, "/api/auth/refresh", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
	if _, found := refreshCookieHeader(rec); !found {
		t.Fatalf("missing-cookie failure must still clear the cookie")
	}
}

func TestRefresh_DeactivatedUserClearsCookie(t *testing.T) {
	users := &stubUserStore{users: map[string]models.User{
		"u1": {ID: "u1", Email: "driver@truckflow.com", Role: models.UserRoleChauffeur, IsActive: false},
	}}
	tokens := &stubTokenStore{tokens: map[string]string{"valid-token": "u1"}}
	router := newAuthHandlerRig(t, users, tokens)

	rec := postWithCookie(router, "/api/auth/refresh", "valid-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
	if _, found := refreshCookieHeader(rec); !found {
		t.Fatalf("deactivated-account failure must clear the cookie")
	}
	if len(tokens.tokens) != 0 {
		t.Fatalf("deactivated account must lose all refresh tokens")
	}
}

func TestLogout_AlwaysClearsCookie(t *testing.T) {
	tokens := &stubTokenStore{tokens: map[string]string{"valid-token": "u1"}}
	router := newAuthHandlerRig(t, &stubUserStore{users: map[string]models.User{}}, tokens)

	rec := postWithCookie(router, "/api/auth/logout", "valid-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusOK)
	}
	if _, found := refreshCookieHeader(rec); !found {
		t.Fatalf("logout must clear the cookie")
	}
	if _, ok := tokens.tokens["valid-token"]; ok {
		t.Fatalf("logout must revoke the presented token")
	}

	// Logging out again, with no cookie at all, still succeeds.
	again := postWithCookie(router, "/api/auth/logout", "")
	if again.Code != http.StatusOK {
		t.Fatalf("repeat logout status: got %d want %d", again.Code, http.StatusOK)
	}
}
