package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studyden/studyden/internal/auth/domain"
	"github.com/studyden/studyden/internal/auth/store"
)

// UserService answers identity lookups and account mutations for already
// authenticated requests.
type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

// Get returns the user backing an authenticated identity. Returns
// ErrUnknownUser when the row has gone away under a still-live credential.
func (s *UserService) Get(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnknownUser
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdateDisplayName changes the user's display name.
func (s *UserService) UpdateDisplayName(ctx context.Context, userID, displayName string) (domain.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return domain.User{}, fmt.Errorf("%w: display name must not be empty", ErrInvalidInput)
	}

	if err := s.store.Users().UpdateDisplayName(ctx, userID, displayName); err != nil {
		return domain.User{}, err
	}
	return s.Get(ctx, userID)
}

// Delete removes the account. Existing credentials keep verifying until
// expiry, but refresh and identity lookups fail once the row is gone.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	return s.store.Users().DeleteUser(ctx, userID)
}
