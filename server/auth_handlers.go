package server

import (
	"encoding/json"
	"net/http"

	"photostream/apperror"
	"photostream/auth"
)

func (s *Server) initAuthRoutes() {
	s.registerRoute("GET /{$}", ChainMiddleware(s.LivenessHandler("auth service up"), s.baseMiddleware()...))

	s.registerRoute("POST /register", ChainMiddleware(s.RegisterHandler(), s.baseMiddleware()...))
	s.registerRoute("POST /login", ChainMiddleware(s.LoginHandler(), s.baseMiddleware()...))
	s.registerRoute("POST /refresh-token", ChainMiddleware(s.RefreshHandler(), s.baseMiddleware()...))
	s.registerRoute("POST /logout", ChainMiddleware(s.LogoutHandler(), s.baseMiddleware()...))

	s.registerRoute("GET /me", ChainMiddleware(s.MeHandler(), s.baseMiddleware(s.RequireAuth())...))
}

func (s *Server) LivenessHandler(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]any{"message": message})
	}
}

// RegisterHandler creates an account. It does not log the new account in;
// cookies are only ever set by login.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, apperror.Wrap(err, apperror.Validation, "invalid request body"))
			return
		}
		if err := validateRegister(req); err != nil {
			s.respondError(w, err)
			return
		}

		user, err := s.auth.Register(r.Context(), auth.RegisterParams{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
			Bio:      req.Bio,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "registration successful",
			"user":    user.Public(),
		})
	}
}

// LoginHandler verifies credentials and sets both credential cookies.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, apperror.Wrap(err, apperror.Validation, "invalid request body"))
			return
		}
		if err := validateLogin(req); err != nil {
			s.respondError(w, err)
			return
		}

		user, pair, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.setTokenCookies(w, pair.AccessToken, pair.RefreshToken)
		s.respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "login successful",
			"user":    user.Public(),
		})
	}
}

// RefreshHandler exchanges the refresh cookie for a fresh access cookie.
// Every failure mode is a 401; the refresh cookie is left untouched since
// the credential is not rotated.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshCookieName)
		if err != nil || cookie.Value == "" {
			s.respondError(w, apperror.New(apperror.Authentication, "session is invalid or has expired"))
			return
		}

		accessToken, _, err := s.auth.Refresh(r.Context(), cookie.Value)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.setCredentialCookie(w, accessCookieName, accessToken, s.accessTokenTTL)
		s.respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "access token refreshed",
		})
	}
}

// LogoutHandler revokes the refresh session and clears both cookies. It
// always answers 200: logging out twice is not an error.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var refreshToken string
		if cookie, err := r.Cookie(refreshCookieName); err == nil {
			refreshToken = cookie.Value
		}

		if err := s.auth.Logout(r.Context(), refreshToken); err != nil {
			s.respondError(w, err)
			return
		}

		s.clearTokenCookies(w)
		s.respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "logged out",
		})
	}
}

// MeHandler returns the caller's own profile. The identity gate has already
// run; the only I/O here is the profile lookup itself.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			s.respondError(w, apperror.New(apperror.Authentication, "you need to log in"))
			return
		}

		user, err := s.auth.User(r.Context(), identity.SubjectID)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"user":    user.Public(),
		})
	}
}
