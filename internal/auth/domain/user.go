package domain

import "time"

// User is a registered account or a persisted guest. Guests have no contact
// and no password hash; everything else treats them identically.
type User struct {
	ID           string
	Contact      string // email; empty for guests
	DisplayName  string
	PasswordHash string // argon2id PHC string; empty for guests
	Guest        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
