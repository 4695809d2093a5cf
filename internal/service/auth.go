package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"book-reader/internal/domain"
	"book-reader/internal/store"
	apperrors "book-reader/pkg/errors"
)

type authService struct {
	client domain.LibraryClient
	store  domain.KeyValueStore
	logger domain.Logger

	mu   sync.RWMutex
	user *domain.User
}

// NewAuthService creates the credential lifecycle service, restoring the
// cached profile from the key-value store if one survived a restart.
func NewAuthService(
	client domain.LibraryClient,
	kv domain.KeyValueStore,
	logger domain.Logger,
) domain.AuthService {
	s := &authService{
		client: client,
		store:  kv,
		logger: logger,
	}

	if raw, ok := kv.Get(store.KeyCurrentUser); ok {
		var user domain.User
		if err := json.Unmarshal([]byte(raw), &user); err == nil {
			s.user = &user
		} else {
			logger.Warn("Stored profile is corrupt, ignoring it")
		}
	}
	return s
}

// Login exchanges credentials for a token pair, persists it and caches
// the fresh profile.
func (s *authService) Login(ctx context.Context, login, password string) (*domain.User, error) {
	credential, err := s.client.Login(ctx, login, password)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(store.KeyToken, credential.Token); err != nil {
		s.logger.Warn("Failed to persist token", "login", login)
	}
	if err := s.store.Set(store.KeyRefreshToken, credential.RefreshToken); err != nil {
		s.logger.Warn("Failed to persist refresh token", "login", login)
	}

	user, err := s.client.Profile(ctx, credential.Token)
	if err != nil {
		// A token without a profile is useless for role gating.
		s.ClearCredential()
		return nil, err
	}

	s.cacheUser(user)
	s.logger.Info("User signed in", "login", user.Login, "role", user.Role.Name)
	return user, nil
}

// Register creates an account and signs it in, the way the original
// client does.
func (s *authService) Register(ctx context.Context, login, email, password string) (*domain.User, error) {
	if err := s.client.Register(ctx, login, email, password); err != nil {
		return nil, err
	}
	return s.Login(ctx, login, password)
}

// Logout tells the service to drop the token and always clears local
// state, even when the remote call fails.
func (s *authService) Logout(ctx context.Context) {
	if token, ok := s.Token(); ok {
		if err := s.client.Logout(ctx, token); err != nil {
			s.logger.Warn("Remote logout failed")
		}
	}
	s.ClearCredential()
}

// Profile refreshes the cached profile from the service.
func (s *authService) Profile(ctx context.Context) (*domain.User, error) {
	token, ok := s.Token()
	if !ok {
		return nil, apperrors.NewUnauthenticated("no valid credential")
	}

	user, err := s.client.Profile(ctx, token)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindUnauthenticated) {
			s.ClearCredential()
		}
		return nil, err
	}

	s.cacheUser(user)
	return user, nil
}

// CurrentUser returns the cached profile, nil when signed out.
func (s *authService) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the stored bearer token if it exists and has not
// expired. Expiry is read from the JWT's exp claim without verifying the
// signature; a token we can see is dead should prompt re-login without a
// round trip, and the service still has the final word.
func (s *authService) Token() (string, bool) {
	token, ok := s.store.Get(store.KeyToken)
	if !ok || token == "" {
		return "", false
	}
	if tokenExpired(token) {
		return "", false
	}
	return token, true
}

// ClearCredential wipes the token pair and cached profile.
func (s *authService) ClearCredential() {
	_ = s.store.Delete(store.KeyToken)
	_ = s.store.Delete(store.KeyRefreshToken)
	_ = s.store.Delete(store.KeyCurrentUser)

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

func (s *authService) cacheUser(user *domain.User) {
	if encoded, err := json.Marshal(user); err == nil {
		if err := s.store.Set(store.KeyCurrentUser, string(encoded)); err != nil {
			s.logger.Warn("Failed to persist profile", "login", user.Login)
		}
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens pass through; the service decides.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().After(exp.Time)
}
