package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mohamedm999/TruckFlow/internal/config"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
	"github.com/mohamedm999/TruckFlow/internal/security"
	"github.com/mohamedm999/TruckFlow/internal/session"
)

var (
	// ErrInvalidCredentials is uniform for unknown email and wrong password;
	// login never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	// ErrRefreshInvalid covers refresh tokens that were never issued, have
	// expired, or were revoked. Callers clear the client cookie on this path.
	ErrRefreshInvalid = errors.New("invalid or expired refresh token")
)

// UserStore is the slice of the user repository the session manager needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
}

// RefreshTokenStore persists opaque refresh tokens. Implementations must
// enforce token uniqueness on Create and make Find miss once a token is past
// its lifetime; Delete and DeleteAllForUser are idempotent.
type RefreshTokenStore interface {
	Create(ctx context.Context, token string, userID string) error
	Find(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, userID string) error
	TTL() time.Duration
}

// AuthService turns a verified password login into a short-lived access token
// plus a renewable refresh token, and enforces expiry and revocation.
type AuthService struct {
	users    UserStore
	sessions RefreshTokenStore
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, sessions RefreshTokenStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

// AuthResult is what a successful login or password change yields. The
// refresh token travels back to the client only inside the auth cookie.
type AuthResult struct {
	User             models.User
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if !user.IsActive {
		return AuthResult{}, ErrAccountDeactivated
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issuePair(ctx, user)
}

// Refresh redeems an opaque refresh token for a fresh access token. The
// refresh token itself is NOT rotated; the same value stays redeemable until
// logout or expiry. Concurrent redemptions of one token may all succeed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	userID, err := s.sessions.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrTokenNotFound) {
			return AuthResult{}, ErrRefreshInvalid
		}
		return AuthResult{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Orphaned token: the user is gone, so every token they owned
			// is dead weight. Clean up before failing.
			if revErr := s.sessions.DeleteAllForUser(ctx, userID); revErr != nil {
				s.log.Error().Err(revErr).Str("user_id", userID).Msg("revoke tokens of missing user failed")
			}
			return AuthResult{}, ErrRefreshInvalid
		}
		return AuthResult{}, err
	}

	if !user.IsActive {
		if revErr := s.sessions.DeleteAllForUser(ctx, user.ID); revErr != nil {
			s.log.Error().Err(revErr).Str("user_id", user.ID).Msg("revoke tokens of deactivated user failed")
		}
		return AuthResult{}, ErrAccountDeactivated
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.ID,
		string(user.Role),
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user, AccessToken: accessToken}, nil
}

// Logout revokes a single refresh token. A token that is already gone is not
// an error; logging out twice succeeds both times.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessions.Delete(ctx, refreshToken)
}

// LogoutAll revokes every refresh token the user owns. Idempotent.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.sessions.DeleteAllForUser(ctx, userID)
}

// UpdatePassword verifies the current password, stores the new hash, revokes
// all existing refresh tokens, and issues a fresh pair so only the caller's
// session survives the change.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (AuthResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return AuthResult{}, err
	}

	if err := s.sessions.DeleteAllForUser(ctx, user.ID); err != nil {
		return AuthResult{}, err
	}

	return s.issuePair(ctx, user)
}

func (s *AuthService) issuePair(ctx context.Context, user models.User) (AuthResult, error) {
	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.ID,
		string(user.Role),
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	refreshToken, err := security.GenerateRefreshToken(64)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.sessions.Create(ctx, refreshToken, user.ID); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		User:             user,
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: time.Now().Add(s.sessions.TTL()),
	}, nil
}
