// Package sqliterepo provides SQLite persistence for users.
package sqliterepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"photostream/users"
)

var _ users.Repo = (*SQLiteRepo)(nil)

type SQLiteRepo struct {
	db *sql.DB
}

// New opens (or creates) the user database at path and ensures the schema.
func New(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "sqliterepo.New open")
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id           TEXT PRIMARY KEY,
			username     TEXT NOT NULL UNIQUE,
			email        TEXT NOT NULL UNIQUE,
			password     TEXT NOT NULL,
			fullname     TEXT NOT NULL,
			role         TEXT NOT NULL DEFAULT 'user',
			profile_img  TEXT NOT NULL DEFAULT 'default.jpg',
			bio          TEXT NOT NULL DEFAULT '',
			is_active    INTEGER NOT NULL DEFAULT 0,
			is_verified  INTEGER NOT NULL DEFAULT 0,
			created_at   INTEGER NOT NULL,
			updated_at   INTEGER NOT NULL
		);`,
	); err != nil {
		return nil, errors.Wrap(err, "sqliterepo.New init schema")
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Close() error { return r.db.Close() }

func (r *SQLiteRepo) Insert(ctx context.Context, u *users.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users
			(id, username, email, password, fullname, role, profile_img, bio,
			 is_active, is_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FullName, string(u.Role),
		u.ProfileImg, u.Bio, boolToInt(u.Active), boolToInt(u.Verified),
		u.CreatedAt.Unix(), u.UpdatedAt.Unix(),
	)
	if err != nil {
		return errors.Wrap(err, "sqliterepo.Insert")
	}
	return nil
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *SQLiteRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *SQLiteRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *SQLiteRepo) getBy(ctx context.Context, column, value string) (*users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password, fullname, role, profile_img, bio,
		       is_active, is_verified, created_at, updated_at
		FROM users WHERE `+column+` = ?;`, value)

	var (
		u                    users.User
		role                 string
		active, verified     int
		createdAt, updatedAt int64
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&role, &u.ProfileImg, &u.Bio, &active, &verified, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "sqliterepo.getBy %s", column)
	}

	u.Role = users.RoleType(role)
	u.Active = active != 0
	u.Verified = verified != 0
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	u.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
