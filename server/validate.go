package server

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"photostream/apperror"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullname"`
	Bio      string `json:"bio"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// validateRegister itemizes every failing field rather than stopping at the
// first, so the caller can render the whole form's problems at once.
func validateRegister(req registerRequest) error {
	fields := make(map[string]string)

	switch n := utf8.RuneCountInString(strings.TrimSpace(req.Username)); {
	case n == 0:
		fields["username"] = "username is required"
	case n < 3:
		fields["username"] = "username must be at least 3 characters"
	case n > 30:
		fields["username"] = "username must be at most 30 characters"
	}

	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "enter a valid email address"
	}

	switch n := utf8.RuneCountInString(req.Password); {
	case n == 0:
		fields["password"] = "password is required"
	case n < 6:
		fields["password"] = "password must be at least 6 characters"
	}

	if strings.TrimSpace(req.FullName) == "" {
		fields["fullname"] = "full name is required"
	}

	if len(fields) > 0 {
		return apperror.NewValidation("invalid registration payload", fields)
	}
	return nil
}

func validateLogin(req loginRequest) error {
	fields := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "enter a valid email address"
	}

	if req.Password == "" {
		fields["password"] = "password is required"
	}

	if len(fields) > 0 {
		return apperror.NewValidation("invalid login payload", fields)
	}
	return nil
}
