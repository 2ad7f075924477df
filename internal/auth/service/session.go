package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studyden/studyden/internal/auth/domain"
	"github.com/studyden/studyden/internal/auth/store"
	"github.com/studyden/studyden/pkg/cryptox"
	"github.com/studyden/studyden/pkg/idx"
	"github.com/studyden/studyden/pkg/jwtx"
	"github.com/studyden/studyden/pkg/slogx"
)

// TokenPair is a freshly issued credential set. Refresh is empty when the
// operation only renewed the access credential.
type TokenPair struct {
	Access     string
	AccessTTL  time.Duration
	Refresh    string
	RefreshTTL time.Duration
}

// SessionConfig tunes credential lifetimes and rotation. Zero values fall
// back to the jwtx defaults.
type SessionConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// RotateRefresh issues a new refresh credential on every successful
	// refresh, sliding the session window instead of fixing it at login.
	RotateRefresh bool
}

// SessionService implements login, registration, guest sessions and refresh.
type SessionService struct {
	store store.Store
	codec *jwtx.Codec
	cfg   SessionConfig
}

func NewSessionService(st store.Store, codec *jwtx.Codec, cfg SessionConfig) *SessionService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = jwtx.DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = jwtx.DefaultRefreshTTL
	}
	return &SessionService{store: st, codec: codec, cfg: cfg}
}

// Register creates an account and starts a session for it.
func (s *SessionService) Register(ctx context.Context, contact, password, displayName string) (domain.User, TokenPair, error) {
	contact = strings.TrimSpace(strings.ToLower(contact))

	if !strings.Contains(contact, "@") {
		return domain.User{}, TokenPair{}, fmt.Errorf("%w: contact must be an email address", ErrInvalidInput)
	}
	if len(password) < 8 {
		return domain.User{}, TokenPair{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName, _, _ = strings.Cut(contact, "@")
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Contact:      contact,
		DisplayName:  displayName,
		PasswordHash: hash,
	}

	if err := s.store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, TokenPair{}, ErrContactTaken
		}
		return domain.User{}, TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", user.ID)

	pair, err := s.issuePair(user, true)
	return user, pair, err
}

// Login verifies contact+password and starts a session. Unknown contact and
// wrong password are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, contact, password string) (domain.User, TokenPair, error) {
	contact = strings.TrimSpace(strings.ToLower(contact))

	user, err := s.store.Users().GetUserByContact(ctx, contact)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", user.ID)

	pair, err := s.issuePair(user, true)
	return user, pair, err
}

// GuestLogin creates a persisted anonymous user and starts a session for
// it. Guests can later be upgraded to full accounts without losing rows
// that reference them.
func (s *SessionService) GuestLogin(ctx context.Context) (domain.User, TokenPair, error) {
	id := idx.New().String()

	user := domain.User{
		ID:          id,
		DisplayName: "Guest " + id[len(id)-6:],
		Guest:       true,
	}

	if err := s.store.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("guest session created", "user_id", user.ID)

	pair, err := s.issuePair(user, true)
	return user, pair, err
}

// Refresh exchanges a valid refresh credential for a fresh access
// credential. Any verification failure, including expiry, collapses to
// ErrRefreshRejected: the caller's next move is the same either way.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (domain.User, TokenPair, error) {
	claims, err := s.codec.Verify(jwtx.KindRefresh, refreshToken)
	if err != nil {
		return domain.User{}, TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshRejected, err)
	}

	// The subject must still exist; a deleted account's refresh credential
	// is dead even if the signature still verifies.
	user, err := s.store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, TokenPair{}, fmt.Errorf("%w: subject no longer exists", ErrRefreshRejected)
		}
		return domain.User{}, TokenPair{}, err
	}

	pair, err := s.issuePair(user, s.cfg.RotateRefresh)
	return user, pair, err
}

func (s *SessionService) issuePair(user domain.User, withRefresh bool) (TokenPair, error) {
	profile := jwtx.Profile{Contact: user.Contact, DisplayName: user.DisplayName}

	access, err := s.codec.Issue(jwtx.KindAccess, user.ID, profile, s.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	pair := TokenPair{Access: access, AccessTTL: s.cfg.AccessTTL}

	if withRefresh {
		refresh, err := s.codec.Issue(jwtx.KindRefresh, user.ID, profile, s.cfg.RefreshTTL)
		if err != nil {
			return TokenPair{}, err
		}
		pair.Refresh = refresh
		pair.RefreshTTL = s.cfg.RefreshTTL
	}

	return pair, nil
}
