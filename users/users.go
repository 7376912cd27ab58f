package users

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// RoleType represents a user's role. The set is closed: every token and
// every authorization check works against exactly these three values.
type RoleType string

const (
	RoleUser      RoleType = "user"
	RoleAdmin     RoleType = "admin"
	RoleModerator RoleType = "moderator"
)

// ValidRole reports whether r is one of the closed role set.
func ValidRole(r RoleType) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialize
	FullName     string    `json:"fullname"`
	Role         RoleType  `json:"role"`
	ProfileImg   string    `json:"profile_img"`
	Bio          string    `json:"bio,omitempty"`
	Active       bool      `json:"is_active"`
	Verified     bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicSummary is the caller-visible projection of a user, returned by
// register, login and /me. It never includes credential material.
type PublicSummary struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	FullName   string   `json:"fullname"`
	Role       RoleType `json:"role"`
	ProfileImg string   `json:"profile_img,omitempty"`
	Bio        string   `json:"bio,omitempty"`
}

func (u *User) Public() PublicSummary {
	return PublicSummary{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		ProfileImg: u.ProfileImg,
		Bio:        u.Bio,
	}
}

// Repo is the identity store consumed by the auth service. Lookups are by
// lowercased email or by ID; uniqueness of email and username is enforced
// by the implementation.
type Repo interface {
	Insert(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// ErrNotFound is returned by Repo lookups when no user matches.
var ErrNotFound = errors.New("user not found")

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
