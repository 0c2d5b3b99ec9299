package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mohamedm999/TruckFlow/internal/config"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
	"github.com/mohamedm999/TruckFlow/internal/security"
	"github.com/mohamedm999/TruckFlow/internal/session"
)

type fakeUserStore struct {
	byEmail map[string]models.User
	byID    map[string]models.User
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{
		byEmail: make(map[string]models.User),
		byID:    make(map[string]models.User),
	}
	for _, u := range users {
		s.byEmail[u.Email] = u
		s.byID[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id string, passwordHash []byte) error {
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.byID[id] = u
	s.byEmail[u.Email] = u
	return nil
}

type fakeTokenStore struct {
	tokens map[string]string
	ttl    time.Duration
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]string), ttl: 7 * 24 * time.Hour}
}

func (s *fakeTokenStore) Create(_ context.Context, token, userID string) error {
	if _, exists := s.tokens[token]; exists {
		return errors.New("refresh token already exists")
	}
	s.tokens[token] = userID
	return nil
}

func (s *fakeTokenStore) Find(_ context.Context, token string) (string, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return "", session.ErrTokenNotFound
	}
	return userID, nil
}

func (s *fakeTokenStore) Delete(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

func (s *fakeTokenStore) DeleteAllForUser(_ context.Context, userID string) error {
	for token, owner := range s.tokens {
		if owner == userID {
			delete(s.tokens, token)
		}
	}
	return nil
}

func (s *fakeTokenStore) TTL() time.Duration { return s.ttl }

func (s *fakeTokenStore) countFor(userID string) int {
	n := 0
	for _, owner := range s.tokens {
		if owner == userID {
			n++
		}
	}
	return n
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTAccessSecret: "test-secret",
			JWTAccessTTL:    15 * time.Minute,
			RefreshTTL:      7 * 24 * time.Hour,
		},
	}
}

func testUser(t *testing.T, id, email, password string, active bool) models.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	return models.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.UserRoleChauffeur,
		IsActive:     active,
	}
}

func newTestAuthService(users *fakeUserStore, tokens *fakeTokenStore) *AuthService {
	return NewAuthService(users, tokens, testConfig(), zerolog.Nop())
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	user := testUser(t, "u1", "driver@truckflow.com", "pass-123456", true)
	tokens := newFakeTokenStore()
	svc := newTestAuthService(newFakeUserStore(user), tokens)

	result, err := svc.Login(context.Background(), "Driver@TruckFlow.com ", "pass-123456")
	require.NoError(t, err)
	require.Equal(t, user.ID, result.User.ID)
	require.NotEmpty(t, result.RefreshToken)
	require.WithinDuration(t, time.Now().Add(tokens.TTL()), result.RefreshExpiresAt, 5*time.Second)

	claims, err := security.ParseAccessToken(result.AccessToken, "test-secret")
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, string(models.UserRoleChauffeur), claims.Role)

	owner, err := tokens.Find(context.Background(), result.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, owner)
}

func TestLogin_UniformFailure(t *testing.T) {
	t.Parallel()

	user := testUser(t, "u1", "driver@truckflow.com", "pass-123456", true)
	svc := newTestAuthService(newFakeUserStore(user), newFakeTokenStore())

	_, wrongPassword := svc.Login(context.Background(), "driver@truckflow.com", "nope")
	_, unknownEmail := svc.Login(context.Background(), "ghost@truckflow.com", "nope")

	// Wrong password and unknown account are indistinguishable.
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	t.Parallel()

	user := testUser(t, "u1", "driver@truckflow.com", "pass-123456", false)
	svc := newTestAuthService(newFakeUserStore(user), newFakeTokenStore())

	_, err := svc.Login(context.Background(), "driver@truckflow.com", "pass-123456")
	require.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestRefresh_IssuesNewAccessTokenWithoutRotation(t *testing.T) {
	t.Parallel()

	user := testUser(t, "u1", "driver@truckflow.com", "pass-123456", true)
	tokens := newFakeTokenStore()
	svc := newTestAuthService(newFakeUserStore(user), tokens)

	login, err := svc.Login(context.Background(), user.Email, "pass-123456")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.Empty(t, refreshed.RefreshToken)

	// The original refresh token stays redeemable.
	again, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, again.AccessToken)
}

func TestRefresh_UnknownToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserStore(), newFakeTokenStore())

	_, err := svc.Refresh(context.Background(), "never-issued")
	require.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefresh_MissingUserRevokesAllTokens(t *testing.T) {
	t.Parallel()

	tokens := newFakeTokenStore()
	require.NoError(t, tokens.Create(context.Background(), "tok-a", "gone"))
	require.NoError(t, tokens.Create(context.Background(), "tok-b", "gone"))
	svc := newTestAuthService(newFakeUserStore(), tokens)

	_, err := svc.Refresh(context.Background(), "tok-a")
	require.ErrorIs(t, err, ErrRefreshInvalid)
	require.Zero(t, tokens.countFor("gone"))
}

func TestRefresh_DeactivatedUserRevokesAllTokens(t *testing.T) {
	t.Parallel()

	user := testUser(t, "u1", "driver@truckflow.com", "pass-123456", false)
	tokens := newFakeTokenStore()
	require.NoError(t, tokens.Create(context.Background(), "tok-a", user.ID))
	svc := newTestAuthService(newFakeUserStore(user), tokens)

	_, err := svc.Refresh(context.Background(), "tok-a")
	require.ErrorIs(t, err, ErrAccountDeactivated)
	require.Zero(t, tokens.countFor(user.ID))
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()

	user := testUser(t, "u1", "driver@truckflow.com", "pass-123456", true)
	tokens := newFakeTokenStore()
	svc := newTestAuthService(newFakeUserStore(user), tokens)

	login, err := svc.Login(context.Background(), user.Email, "pass-123456")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))
	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))
	require.NoError(t, svc.Logout(context.Background(), ""))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestLogoutAll_ScopedToUser(t *testing.T) {
	t.Parallel()

	alice := testUser(t, "u1", "alice@truckflow.com", "pass-123456", true)
	bob := testUser(t, "u2", "bob@truckflow.com", "pass-123456", true)
	tokens := newFakeTokenStore()
	svc := newTestAuthService(newFakeUserStore(alice, bob), tokens)

	_, err := svc.Login(context.Background(), alice.Email, "pass-123456")
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), alice.Email, "pass-123456")
	require.NoError(t, err)
	bobLogin, err := svc.Login(context.Background(), bob.Email, "pass-123456")
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(context.Background(), alice.ID))

	require.Zero(t, tokens.countFor(alice.ID))
	require.Equal(t, 1, tokens.countFor(bob.ID))

	_, err = svc.Refresh(context.Background(), bobLogin.RefreshToken)
	require.NoError(t, err)
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	t.Parallel()

	user := testUser(t, "u1", "driver@truckflow.com", "old-password", true)
	svc := newTestAuthService(newFakeUserStore(user), newFakeTokenStore())

	_, err := svc.UpdatePassword(context.Background(), user.ID, "not-the-password", "new-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdatePassword_RevokesOldSessions(t *testing.T) {
	t.Parallel()

	user := testUser(t, "u1", "driver@truckflow.com", "old-password", true)
	tokens := newFakeTokenStore()
	users := newFakeUserStore(user)
	svc := newTestAuthService(users, tokens)

	firstLogin, err := svc.Login(context.Background(), user.Email, "old-password")
	require.NoError(t, err)

	result, err := svc.UpdatePassword(context.Background(), user.ID, "old-password", "new-password")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	// Only the freshly issued session survives.
	_, err = svc.Refresh(context.Background(), firstLogin.RefreshToken)
	require.ErrorIs(t, err, ErrRefreshInvalid)
	_, err = svc.Refresh(context.Background(), result.RefreshToken)
	require.NoError(t, err)

	// Old password no longer works, the new one does.
	_, err = svc.Login(context.Background(), user.Email, "old-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), user.Email, "new-password")
	require.NoError(t, err)
}
