package sqlite

import (
	"context"
	"database/sql"

	"github.com/studyden/studyden/internal/auth/domain"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, contact, display_name, password_hash, guest, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u       domain.User
		contact sql.NullString
		pwHash  sql.NullString
	)

	err := row.Scan(&u.ID, &contact, &u.DisplayName, &pwHash, &u.Guest, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Contact = mapNullString(contact)
	u.PasswordHash = mapNullString(pwHash)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByContact(ctx context.Context, contact string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE contact = ?`, contact)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, contact, display_name, password_hash, guest)
		 VALUES (?, ?, ?, ?, ?)`,
		u.ID, mapStringNull(u.Contact), u.DisplayName, mapStringNull(u.PasswordHash), u.Guest)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateDisplayName(ctx context.Context, userID string, displayName string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		displayName, userID)
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return err
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
