package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mohamedm999/TruckFlow/internal/config"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
	"github.com/mohamedm999/TruckFlow/internal/security"
)

type fakeUserLoader struct {
	users map[string]models.User
}

func (f *fakeUserLoader) GetByID(_ context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func authTestConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTAccessSecret: "test-secret",
			JWTAccessTTL:    15 * time.Minute,
		},
	}
}

func newAuthTestRouter(t *testing.T, users *fakeUserLoader, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	chain := append([]gin.HandlerFunc{Auth(authTestConfig(), users, zerolog.Nop())}, extra...)
	chain = append(chain, func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": user.ID}})
	})
	router.GET("/protected", chain...)
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func mintToken(t *testing.T, userID, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := security.GenerateAccessToken("test-secret", userID, role, ttl)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	return tok
}

func TestAuth_MissingToken(t *testing.T) {
	router := newAuthTestRouter(t, &fakeUserLoader{users: map[string]models.User{}})

	rec := doRequest(router, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	users := &fakeUserLoader{users: map[string]models.User{
		"u1": {ID: "u1", Role: models.UserRoleChauffeur, IsActive: true},
	}}
	router := newAuthTestRouter(t, users)

	rec := doRequest(router, "Bearer "+mintToken(t, "u1", "chauffeur", time.Minute))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Data.ID != "u1" {
		t.Fatalf("principal id: got %q want %q", body.Data.ID, "u1")
	}
}

func TestAuth_ExpiredAndInvalidLookTheSame(t *testing.T) {
	users := &fakeUserLoader{users: map[string]models.User{
		"u1": {ID: "u1", Role: models.UserRoleChauffeur, IsActive: true},
	}}
	router := newAuthTestRouter(t, users)

	expired := doRequest(router, "Bearer "+mintToken(t, "u1", "chauffeur", -time.Minute))
	garbage := doRequest(router, "Bearer garbage")

	if expired.Code != http.StatusUnauthorized || garbage.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d and %d, want both 401", expired.Code, garbage.Code)
	}
	if expired.Body.String() != garbage.Body.String() {
		t.Fatalf("expired and invalid tokens must produce identical responses")
	}
}

func TestAuth_UnknownUser(t *testing.T) {
	router := newAuthTestRouter(t, &fakeUserLoader{users: map[string]models.User{}})

	rec := doRequest(router, "Bearer "+mintToken(t, "deleted", "chauffeur", time.Minute))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_DeactivatedUser(t *testing.T) {
	users := &fakeUserLoader{users: map[string]models.User{
		"u1": {ID: "u1", Role: models.UserRoleChauffeur, IsActive: false},
	}}
	router := newAuthTestRouter(t, users)

	rec := doRequest(router, "Bearer "+mintToken(t, "u1", "chauffeur", time.Minute))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireRoles_Forbidden(t *testing.T) {
	users := &fakeUserLoader{users: map[string]models.User{
		"u1": {ID: "u1", Role: models.UserRoleChauffeur, IsActive: true},
	}}
	router := newAuthTestRouter(t, users, RequireRoles(models.UserRoleAdmin))

	rec := doRequest(router, "Bearer "+mintToken(t, "u1", "chauffeur", time.Minute))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireRoles_Allowed(t *testing.T) {
	users := &fakeUserLoader{users: map[string]models.User{
		"u1": {ID: "u1", Role: models.UserRoleAdmin, IsActive: true},
	}}
	router := newAuthTestRouter(t, users, RequireRoles(models.UserRoleAdmin))

	rec := doRequest(router, "Bearer "+mintToken(t, "u1", "admin", time.Minute))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusOK)
	}
}
