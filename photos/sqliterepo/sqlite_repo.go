// Package sqliterepo provides SQLite persistence for photos and categories.
package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"photostream/photos"
)

var (
	_ photos.Repo         = (*SQLiteRepo)(nil)
	_ photos.CategoryRepo = (*SQLiteRepo)(nil)
)

type SQLiteRepo struct {
	db *sql.DB
}

// New opens (or creates) the photo database at path and ensures the schema.
func New(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "sqliterepo.New open")
	}

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS photos (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			photo_url   TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			categories  TEXT NOT NULL DEFAULT '[]',
			tags        TEXT NOT NULL DEFAULT '[]',
			username    TEXT NOT NULL DEFAULT 'unknown',
			fullname    TEXT NOT NULL DEFAULT 'Unknown User',
			profile_img TEXT NOT NULL DEFAULT 'default.jpg',
			created_at  INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_photos_created_at ON photos (created_at DESC);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			slug       TEXT NOT NULL UNIQUE,
			created_at INTEGER NOT NULL
		);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, errors.Wrap(err, "sqliterepo.New init schema")
		}
	}

	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Close() error { return r.db.Close() }

func (r *SQLiteRepo) Insert(ctx context.Context, p *photos.Photo) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	categories, err := json.Marshal(p.Categories)
	if err != nil {
		return errors.Wrap(err, "sqliterepo.Insert marshal categories")
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return errors.Wrap(err, "sqliterepo.Insert marshal tags")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO photos
			(id, user_id, photo_url, title, description, categories, tags,
			 username, fullname, profile_img, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		p.ID, p.UserID, p.PhotoURL, p.Title, p.Description,
		string(categories), string(tags),
		p.User.Username, p.User.FullName, p.User.ProfileImg,
		p.CreatedAt.Unix(),
	)
	if err != nil {
		return errors.Wrap(err, "sqliterepo.Insert")
	}
	return nil
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id string) (*photos.Photo, error) {
	row := r.db.QueryRowContext(ctx, selectPhoto+` WHERE id = ?;`, id)
	p, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, photos.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "sqliterepo.GetByID")
	}
	return p, nil
}

func (r *SQLiteRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?;`, id)
	if err != nil {
		return errors.Wrap(err, "sqliterepo.Delete")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return photos.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) List(ctx context.Context, offset, limit int) ([]*photos.Photo, error) {
	rows, err := r.db.QueryContext(ctx,
		selectPhoto+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?;`,
		limit, offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "sqliterepo.List query")
	}
	defer rows.Close()

	list := make([]*photos.Photo, 0, limit)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, errors.Wrap(err, "sqliterepo.List scan")
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "sqliterepo.List rows")
	}
	return list, nil
}

func (r *SQLiteRepo) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos;`).Scan(&total)
	if err != nil {
		return 0, errors.Wrap(err, "sqliterepo.Count")
	}
	return total, nil
}

const selectPhoto = `
	SELECT id, user_id, photo_url, title, description, categories, tags,
	       username, fullname, profile_img, created_at
	FROM photos`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*photos.Photo, error) {
	var (
		p                photos.Photo
		categories, tags string
		createdAt        int64
	)
	err := row.Scan(&p.ID, &p.UserID, &p.PhotoURL, &p.Title, &p.Description,
		&categories, &tags, &p.User.Username, &p.User.FullName,
		&p.User.ProfileImg, &createdAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(categories), &p.Categories); err != nil {
		return nil, errors.Wrap(err, "unmarshal categories")
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, errors.Wrap(err, "unmarshal tags")
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &p, nil
}

// Categories

func (r *SQLiteRepo) InsertCategory(ctx context.Context, c *photos.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug, created_at)
		VALUES (?, ?, ?, ?);`,
		c.ID, c.Name, c.Slug, c.CreatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return photos.ErrDuplicateCategory
		}
		return errors.Wrap(err, "sqliterepo.InsertCategory")
	}
	return nil
}

func (r *SQLiteRepo) ListCategories(ctx context.Context) ([]*photos.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, slug, created_at FROM categories ORDER BY name;`)
	if err != nil {
		return nil, errors.Wrap(err, "sqliterepo.ListCategories query")
	}
	defer rows.Close()

	list := make([]*photos.Category, 0)
	for rows.Next() {
		var (
			c         photos.Category
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &createdAt); err != nil {
			return nil, errors.Wrap(err, "sqliterepo.ListCategories scan")
		}
		c.CreatedAt = time.Unix(createdAt, 0).UTC()
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "sqliterepo.ListCategories rows")
	}
	return list, nil
}
