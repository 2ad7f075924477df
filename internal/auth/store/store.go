package store

import (
	"context"
	"errors"

	"github.com/studyden/studyden/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. Sub-repositories keep concerns tidy and
// let service tests fake one repo without faking the world.
type Store interface {
	Users() Users

	// ApplyMigrations brings the schema up to date. Called once at startup.
	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByContact is used during login. Guests have no contact and are
	// never returned here.
	GetUserByContact(ctx context.Context, contact string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the contact is already registered.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateDisplayName mutates display_name and bumps updated_at.
	UpdateDisplayName(ctx context.Context, userID string, displayName string) error

	// DeleteUser removes the user row.
	DeleteUser(ctx context.Context, userID string) error

	// CountUsers returns the total number of users, guests included.
	CountUsers(ctx context.Context) (int64, error)
}
